package proposal

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/testutil"
)

func seedProject(t *testing.T, svc *Service, clientID uuid.UUID) models.Project {
	t.Helper()
	project := models.Project{
		ClientID: clientID,
		Title:    "Company website",
		Budget:   1000,
		Status:   models.ProjectStatusOpen,
	}
	if err := svc.DB.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func TestSubmit(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	p, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500, CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if p.Status != models.ProposalStatusPending {
		t.Fatalf("status = %s, want PENDING", p.Status)
	}
	if p.ClientID != client.ID {
		t.Fatalf("client id not copied from project")
	}
}

func TestSubmitValidation(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	if _, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 0}); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("zero amount: got %v, want validation error", err)
	}

	if _, err := svc.Submit(project.ID, client.ID, SubmitInput{Amount: 100}); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("own project: got %v, want forbidden", err)
	}

	gdb.Model(&models.Project{}).Where("id = ?", project.ID).
		Update("status", models.ProjectStatusClosed)
	if _, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 100}); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("closed project: got %v, want invalid state", err)
	}
}

func TestSubmitDuplicate(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	if _, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 600}); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("duplicate submit: got %v, want conflict", err)
	}

	// A withdrawn proposal frees the slot.
	var p models.Proposal
	gdb.Where("project_id = ? AND freelancer_id = ?", project.ID, freelancer.ID).First(&p)
	if _, err := svc.Withdraw(p.ID, freelancer.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 600}); err != nil {
		t.Fatalf("resubmit after withdraw: %v", err)
	}
}

func TestAccept(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	p, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Accept(p.ID, freelancer.ID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("accept by non-client: got %v, want forbidden", err)
	}

	accepted, err := svc.Accept(p.ID, client.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != models.ProposalStatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Fatal("responded_at not set")
	}

	// Terminal: no second transition out of ACCEPTED.
	if _, err := svc.Accept(p.ID, client.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("double accept: got %v, want invalid state", err)
	}
	if _, err := svc.Reject(p.ID, client.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("reject after accept: got %v, want invalid state", err)
	}
}

func TestSingleAcceptedPerFreelancer(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	p1, err := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A second pending row for the same pair, as two racing submits
	// would leave behind.
	p2 := models.Proposal{
		ProjectID:    project.ID,
		FreelancerID: freelancer.ID,
		ClientID:     client.ID,
		Amount:       600,
		Status:       models.ProposalStatusPending,
	}
	if err := gdb.Create(&p2).Error; err != nil {
		t.Fatalf("seed second proposal: %v", err)
	}

	if _, err := svc.Accept(p1.ID, client.ID); err != nil {
		t.Fatalf("accept first: %v", err)
	}
	if _, err := svc.Accept(p2.ID, client.ID); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("accept second: got %v, want conflict", err)
	}

	// The store enforces the invariant even past the service checks.
	err = gdb.Model(&models.Proposal{}).
		Where("id = ?", p2.ID).
		Update("status", models.ProposalStatusAccepted).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("direct second accept: got %v, want duplicated key", err)
	}
}

func TestRejectAndWithdraw(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	p1, _ := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500})
	rejected, err := svc.Reject(p1.ID, client.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.ProposalStatusRejected {
		t.Fatalf("status = %s, want REJECTED", rejected.Status)
	}

	p2, _ := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500})
	if _, err := svc.Withdraw(p2.ID, client.ID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("withdraw by client: got %v, want forbidden", err)
	}
	withdrawn, err := svc.Withdraw(p2.ID, freelancer.ID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != models.ProposalStatusWithdrawn {
		t.Fatalf("status = %s, want WITHDRAWN", withdrawn.Status)
	}
}

func TestCreateContract(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)

	p, _ := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500, CoverLetter: "plan"})

	if _, err := svc.CreateContract(p.ID, client.ID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("contract from pending proposal: got %v, want invalid state", err)
	}

	if _, err := svc.Accept(p.ID, client.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	ct, err := svc.CreateContract(p.ID, client.ID)
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}
	if ct.Status != models.ContractStatusPending {
		t.Fatalf("contract status = %s, want PENDING", ct.Status)
	}
	if ct.Title != project.Title || ct.Description != p.CoverLetter || ct.TotalAmount != p.Amount {
		t.Fatalf("contract did not copy proposal terms: %+v", ct)
	}
	if ct.ClientID != client.ID || ct.FreelancerID != freelancer.ID {
		t.Fatalf("contract parties wrong: %+v", ct)
	}

	// One contract per proposal.
	if _, err := svc.CreateContract(p.ID, client.ID); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("second contract: got %v, want conflict", err)
	}
}

func TestGetAccess(t *testing.T) {
	gdb := testutil.OpenDB(t)
	svc := NewService(gdb)
	client, freelancer := testutil.SeedUsers(t, gdb)
	project := seedProject(t, svc, client.ID)
	p, _ := svc.Submit(project.ID, freelancer.ID, SubmitInput{Amount: 500})

	if _, err := svc.Get(p.ID, client.ID); err != nil {
		t.Fatalf("get by client: %v", err)
	}
	if _, err := svc.Get(p.ID, freelancer.ID); err != nil {
		t.Fatalf("get by freelancer: %v", err)
	}
	if _, err := svc.Get(p.ID, uuid.New()); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("get by stranger: got %v, want forbidden", err)
	}
	if _, err := svc.Get(uuid.New(), client.ID); !errors.Is(err, apperrors.NotFound("")) {
		t.Fatalf("get unknown: got %v, want not found", err)
	}
}
