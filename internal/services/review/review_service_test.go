package review

import (
	"testing"

	"github.com/google/uuid"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/testutil"
)

func TestGenerateForContractIdempotent(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusCompleted)

	if err := svc.GenerateForContract(gdb, &fx.Contract); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := svc.GenerateForContract(gdb, &fx.Contract); err != nil {
		t.Fatalf("second generate: %v", err)
	}

	var count int64
	gdb.Model(&models.ReviewOpportunity{}).Where("contract_id = ?", fx.Contract.ID).Count(&count)
	if count != 2 {
		t.Fatalf("opportunities = %d, want 2", count)
	}
}

func TestSubmit(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusCompleted)
	if err := svc.GenerateForContract(gdb, &fx.Contract); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.Submit(fx.Contract.ID, fx.Client.ID, 0, ""); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("rating 0: got %v, want validation", err)
	}
	if _, err := svc.Submit(fx.Contract.ID, fx.Client.ID, 6, ""); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("rating 6: got %v, want validation", err)
	}
	if _, err := svc.Submit(fx.Contract.ID, uuid.New(), 5, ""); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("stranger: got %v, want not found", err)
	}

	rev, err := svc.Submit(fx.Contract.ID, fx.Client.ID, 5, "great work")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rev.RevieweeID != fx.Freelancer.ID {
		t.Fatalf("reviewee = %s, want the freelancer", rev.RevieweeID)
	}

	var opp models.ReviewOpportunity
	gdb.Where("contract_id = ? AND reviewer_id = ?", fx.Contract.ID, fx.Client.ID).First(&opp)
	if !opp.ReviewSubmitted || opp.ReviewID == nil || *opp.ReviewID != rev.ID {
		t.Fatalf("opportunity not linked to review: %+v", opp)
	}

	// One review per direction.
	if _, err := svc.Submit(fx.Contract.ID, fx.Client.ID, 4, "again"); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("double submit: got %v, want invalid state", err)
	}

	// The other direction is untouched.
	if _, err := svc.Submit(fx.Contract.ID, fx.Freelancer.ID, 4, "good client"); err != nil {
		t.Fatalf("freelancer submit: %v", err)
	}
}

func TestListOpportunities(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	fx := testutil.SeedContract(t, gdb, models.ContractStatusCompleted)
	svc.GenerateForContract(gdb, &fx.Contract)

	opps, err := svc.ListOpportunities(fx.Client.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(opps) != 1 || opps[0].RevieweeID != fx.Freelancer.ID {
		t.Fatalf("list = %+v, want one opportunity toward the freelancer", opps)
	}
}
