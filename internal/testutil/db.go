package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aldikurniawan/workhive_be/internal/db"
	"github.com/aldikurniawan/workhive_be/internal/models"
)

// OpenDB returns an isolated in-memory database with the full schema,
// including the partial unique indexes the lifecycle relies on.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A second pool connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Contract{},
		&models.Milestone{},
		&models.PaymentRequest{},
		&models.Transaction{},
		&models.ReviewOpportunity{},
		&models.Review{},
		&models.EarningEntry{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate indexes: %v", err)
	}
	return gdb
}

// SeedUsers creates a client and a freelancer (with profile).
func SeedUsers(t *testing.T, gdb *gorm.DB) (client, freelancer models.User) {
	t.Helper()

	client = models.User{
		Name:     "Client",
		Email:    uuid.New().String() + "@client.test",
		Password: "hashed",
		Role:     models.RoleClient,
	}
	if err := gdb.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}

	freelancer = models.User{
		Name:     "Freelancer",
		Email:    uuid.New().String() + "@freelancer.test",
		Password: "hashed",
		Role:     models.RoleFreelancer,
	}
	if err := gdb.Create(&freelancer).Error; err != nil {
		t.Fatalf("seed freelancer: %v", err)
	}

	profile := models.FreelancerProfile{
		UserID:      freelancer.ID,
		DisplayName: "Freelancer",
	}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("seed freelancer profile: %v", err)
	}
	return client, freelancer
}

// Fixture is a fully wired engagement: open project, accepted proposal
// and a contract in the requested status.
type Fixture struct {
	Client     models.User
	Freelancer models.User
	Project    models.Project
	Proposal   models.Proposal
	Contract   models.Contract
}

func SeedContract(t *testing.T, gdb *gorm.DB, status models.ContractStatus) Fixture {
	t.Helper()

	client, freelancer := SeedUsers(t, gdb)

	project := models.Project{
		ClientID: client.ID,
		Title:    "Landing page",
		Budget:   500,
		Status:   models.ProjectStatusOpen,
	}
	if err := gdb.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	proposal := models.Proposal{
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		ClientID:     client.ID,
		Amount:       500,
		CoverLetter:  "I can do this",
		Status:       models.ProposalStatusAccepted,
	}
	if err := gdb.Create(&proposal).Error; err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	contract := models.Contract{
		ProposalID:   proposal.ID,
		ProjectID:    project.ID,
		ClientID:     client.ID,
		FreelancerID: freelancer.ID,
		Title:        project.Title,
		Description:  proposal.CoverLetter,
		TotalAmount:  proposal.Amount,
		Status:       status,
	}
	if err := gdb.Create(&contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	return Fixture{
		Client:     client,
		Freelancer: freelancer,
		Project:    project,
		Proposal:   proposal,
		Contract:   contract,
	}
}

// SeedMilestone adds a milestone in the given status to the contract.
func SeedMilestone(t *testing.T, gdb *gorm.DB, contractID uuid.UUID, orderIndex int, amount int64, status models.MilestoneStatus) models.Milestone {
	t.Helper()

	m := models.Milestone{
		ContractID: contractID,
		Title:      "Milestone",
		Amount:     amount,
		OrderIndex: orderIndex,
		Status:     status,
	}
	if err := gdb.Create(&m).Error; err != nil {
		t.Fatalf("seed milestone: %v", err)
	}
	return m
}
