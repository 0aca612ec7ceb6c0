package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true, // uniqueness violations -> gorm.ErrDuplicatedKey
	})
}

// Migrate creates the partial unique indexes AutoMigrate cannot express.
// They serialize the races the lifecycle cares about: one active
// (non-rejected) payment request per milestone, one settled transaction
// per gateway reference, and one ACCEPTED proposal per
// (project, freelancer) pair.
func Migrate(gdb *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_requests_active
			ON payment_requests (milestone_id) WHERE status <> 'REJECTED'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_settled_ref
			ON transactions (gateway_reference) WHERE status = 'COMPLETED'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_proposals_single_accepted
			ON proposals (project_id, freelancer_id) WHERE status = 'ACCEPTED'`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
