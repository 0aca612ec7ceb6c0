package payment

import (
	"context"
	"testing"

	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/services/contract"
	"github.com/aldikurniawan/workhive_be/internal/services/earnings"
	"github.com/aldikurniawan/workhive_be/internal/services/milestone"
	"github.com/aldikurniawan/workhive_be/internal/services/proposal"
	"github.com/aldikurniawan/workhive_be/internal/services/review"
	"github.com/aldikurniawan/workhive_be/internal/testutil"
)

// Walks the whole engagement: proposal -> contract -> milestone ->
// payment request -> settlement -> contract completion -> reviews.
func TestFullEngagementLifecycle(t *testing.T) {
	gdb := testutil.OpenDB(t)
	charger := &fakeCharger{}
	earnSvc := earnings.NewService(gdb)
	reviewSvc := review.NewService(gdb)
	proposalSvc := proposal.NewService(gdb)
	contractSvc := contract.NewService(gdb, earnSvc, reviewSvc)
	milestoneSvc := milestone.NewService(gdb)
	paymentSvc := NewService(gdb, charger, earnSvc)

	client, freelancer := testutil.SeedUsers(t, gdb)
	project := models.Project{
		ClientID: client.ID,
		Title:    "Portfolio site",
		Budget:   500,
		Status:   models.ProjectStatusOpen,
	}
	if err := gdb.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	p, err := proposalSvc.Submit(project.ID, freelancer.ID, proposal.SubmitInput{Amount: 500, CoverLetter: "plan"})
	if err != nil {
		t.Fatalf("submit proposal: %v", err)
	}
	if _, err := proposalSvc.Accept(p.ID, client.ID); err != nil {
		t.Fatalf("accept proposal: %v", err)
	}
	ct, err := proposalSvc.CreateContract(p.ID, client.ID)
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := contractSvc.Accept(ct.ID, freelancer.ID); err != nil {
		t.Fatalf("accept contract: %v", err)
	}

	m, err := milestoneSvc.Create(ct.ID, client.ID, milestone.CreateInput{Title: "Build", Amount: 500})
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	if _, err := milestoneSvc.Start(m.ID, freelancer.ID); err != nil {
		t.Fatalf("start milestone: %v", err)
	}
	if _, err := milestoneSvc.Complete(m.ID, freelancer.ID); err != nil {
		t.Fatalf("complete milestone: %v", err)
	}

	req, err := paymentSvc.CreateRequest(m.ID, freelancer.ID, 500, "all done")
	if err != nil {
		t.Fatalf("create payment request: %v", err)
	}
	if _, err := paymentSvc.Approve(req.ID, client.ID); err != nil {
		t.Fatalf("approve payment request: %v", err)
	}
	trx, err := paymentSvc.Process(context.Background(), req.ID, client.ID, "VA_BCA", "ref-life-1")
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if trx.Amount != 500 {
		t.Fatalf("transaction amount = %d, want 500", trx.Amount)
	}

	done, err := contractSvc.Complete(ct.ID, client.ID)
	if err != nil {
		t.Fatalf("complete contract: %v", err)
	}
	if done.Status != models.ContractStatusCompleted {
		t.Fatalf("contract status = %s, want COMPLETED", done.Status)
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", freelancer.ID)
	if profile.TotalEarnings != 500 || profile.TotalProjects != 1 {
		t.Fatalf("aggregates = %d earnings / %d projects, want 500 / 1", profile.TotalEarnings, profile.TotalProjects)
	}

	if _, err := reviewSvc.Submit(ct.ID, client.ID, 5, "great"); err != nil {
		t.Fatalf("client review: %v", err)
	}
	if _, err := reviewSvc.Submit(ct.ID, freelancer.ID, 5, "paid on time"); err != nil {
		t.Fatalf("freelancer review: %v", err)
	}

	var reviews int64
	gdb.Model(&models.Review{}).Where("contract_id = ?", ct.ID).Count(&reviews)
	if reviews != 2 {
		t.Fatalf("reviews = %d, want 2", reviews)
	}
}
