package earnings

import (
	"testing"

	"github.com/google/uuid"

	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/testutil"
)

func TestIncrementEarnings(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	_, freelancer := testutil.SeedUsers(t, gdb)

	ref := uuid.New()
	if err := svc.IncrementEarnings(gdb, freelancer.ID, 250, ref, "milestone payout"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := svc.IncrementEarnings(gdb, freelancer.ID, 100, uuid.New(), "second payout"); err != nil {
		t.Fatalf("second increment: %v", err)
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", freelancer.ID)
	if profile.TotalEarnings != 350 || profile.Balance != 350 {
		t.Fatalf("earnings = %d / balance = %d, want 350 / 350", profile.TotalEarnings, profile.Balance)
	}

	var entry models.EarningEntry
	if err := gdb.First(&entry, "reference_id = ?", ref).Error; err != nil {
		t.Fatalf("ledger entry missing: %v", err)
	}
	if entry.Type != models.EarningEntryCredit || entry.Amount != 250 {
		t.Fatalf("ledger entry wrong: %+v", entry)
	}
}

func TestIncrementEarningsGuards(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	_, freelancer := testutil.SeedUsers(t, gdb)

	if err := svc.IncrementEarnings(gdb, freelancer.ID, 0, uuid.New(), ""); err == nil {
		t.Fatal("zero amount accepted")
	}
	if err := svc.IncrementEarnings(gdb, uuid.New(), 100, uuid.New(), ""); err == nil {
		t.Fatal("unknown freelancer accepted")
	}
}

func TestIncrementProjectCount(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	_, freelancer := testutil.SeedUsers(t, gdb)

	if err := svc.IncrementProjectCount(gdb, freelancer.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := svc.IncrementProjectCount(gdb, uuid.New()); err == nil {
		t.Fatal("unknown freelancer accepted")
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", freelancer.ID)
	if profile.TotalProjects != 1 {
		t.Fatalf("total projects = %d, want 1", profile.TotalProjects)
	}
}

func TestSummary(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	_, freelancer := testutil.SeedUsers(t, gdb)

	svc.IncrementEarnings(gdb, freelancer.ID, 500, uuid.New(), "payout")
	svc.IncrementProjectCount(gdb, freelancer.ID)

	sum, err := svc.Summary(freelancer.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalEarnings != 500 || sum.Balance != 500 || sum.TotalProjects != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(sum.Entries))
	}

	if _, err := svc.Summary(uuid.New()); err == nil {
		t.Fatal("summary for unknown freelancer succeeded")
	}
}
