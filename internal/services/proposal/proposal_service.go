package proposal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
)

// Service coordinates proposal acceptance and the hand-off into a
// contract. Accepting a proposal does NOT create the contract and does
// NOT reject sibling proposals; both stay explicit client actions.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type SubmitInput struct {
	Amount      int64
	CoverLetter string
}

func (s *Service) Submit(projectID, freelancerID uuid.UUID, in SubmitInput) (*models.Proposal, error) {
	if in.Amount <= 0 {
		return nil, apperrors.Validation("proposal amount must be positive")
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, apperrors.NotFound("project not found")
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.InvalidState("project is not open for proposals")
	}
	if project.ClientID == freelancerID {
		return nil, apperrors.Forbidden("cannot submit a proposal to your own project")
	}

	var count int64
	s.DB.Model(&models.Proposal{}).
		Where("project_id = ? AND freelancer_id = ? AND status IN ?",
			projectID, freelancerID,
			[]models.ProposalStatus{models.ProposalStatusPending, models.ProposalStatusAccepted}).
		Count(&count)
	if count > 0 {
		return nil, apperrors.Conflict("an open proposal for this project already exists")
	}

	p := models.Proposal{
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		ClientID:     project.ClientID,
		Amount:       in.Amount,
		CoverLetter:  in.CoverLetter,
		Status:       models.ProposalStatusPending,
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Accept moves a PENDING proposal to ACCEPTED. Only the project's
// client may accept, and a project may never end up with two ACCEPTED
// proposals from the same freelancer.
func (s *Service) Accept(proposalID, actingClientID uuid.UUID) (*models.Proposal, error) {
	p, err := s.load(proposalID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the project's client can accept this proposal")
	}
	if p.Status != models.ProposalStatusPending {
		return nil, apperrors.InvalidState("proposal is not pending")
	}

	var accepted int64
	s.DB.Model(&models.Proposal{}).
		Where("project_id = ? AND freelancer_id = ? AND status = ?",
			p.ProjectID, p.FreelancerID, models.ProposalStatusAccepted).
		Count(&accepted)
	if accepted > 0 {
		return nil, apperrors.Conflict("an accepted proposal from this freelancer already exists")
	}

	// Concurrent accepts that both pass the count lose on the partial
	// unique index instead.
	out, err := s.transition(p, models.ProposalStatusPending, models.ProposalStatusAccepted)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("an accepted proposal from this freelancer already exists")
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) Reject(proposalID, actingClientID uuid.UUID) (*models.Proposal, error) {
	p, err := s.load(proposalID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the project's client can reject this proposal")
	}
	if p.Status != models.ProposalStatusPending {
		return nil, apperrors.InvalidState("proposal is not pending")
	}
	return s.transition(p, models.ProposalStatusPending, models.ProposalStatusRejected)
}

func (s *Service) Withdraw(proposalID, actingFreelancerID uuid.UUID) (*models.Proposal, error) {
	p, err := s.load(proposalID)
	if err != nil {
		return nil, err
	}
	if p.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the proposing freelancer can withdraw")
	}
	if p.Status != models.ProposalStatusPending {
		return nil, apperrors.InvalidState("proposal is not pending")
	}
	return s.transition(p, models.ProposalStatusPending, models.ProposalStatusWithdrawn)
}

// CreateContract turns an ACCEPTED proposal into its one contract.
// A proposal backs at most one contract; the unique index on
// contracts.proposal_id is the authority if two requests race.
func (s *Service) CreateContract(proposalID, actingClientID uuid.UUID) (*models.Contract, error) {
	p, err := s.load(proposalID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the project's client can create the contract")
	}
	if p.Status != models.ProposalStatusAccepted {
		return nil, apperrors.InvalidState("proposal has not been accepted")
	}

	var existing int64
	s.DB.Model(&models.Contract{}).Where("proposal_id = ?", p.ID).Count(&existing)
	if existing > 0 {
		return nil, apperrors.Conflict("a contract for this proposal already exists")
	}

	var project models.Project
	if err := s.DB.First(&project, "id = ?", p.ProjectID).Error; err != nil {
		return nil, apperrors.NotFound("project not found")
	}

	contract := models.Contract{
		ProposalID:   p.ID,
		ProjectID:    p.ProjectID,
		ClientID:     p.ClientID,
		FreelancerID: p.FreelancerID,
		Title:        project.Title,
		Description:  p.CoverLetter,
		TotalAmount:  p.Amount,
		Status:       models.ContractStatusPending,
	}
	if err := s.DB.Create(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("a contract for this proposal already exists")
		}
		return nil, err
	}
	return &contract, nil
}

func (s *Service) Get(proposalID, actorID uuid.UUID) (*models.Proposal, error) {
	p, err := s.load(proposalID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != actorID && p.FreelancerID != actorID {
		return nil, apperrors.Forbidden("access denied")
	}
	return p, nil
}

func (s *Service) ListForProject(projectID, actingClientID uuid.UUID) ([]models.Proposal, error) {
	var project models.Project
	if err := s.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, apperrors.NotFound("project not found")
	}
	if project.ClientID != actingClientID {
		return nil, apperrors.Forbidden("access denied")
	}

	var proposals []models.Proposal
	if err := s.DB.Preload("Freelancer").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (s *Service) load(id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := s.DB.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("proposal not found")
		}
		return nil, err
	}
	return &p, nil
}

// transition is a guarded status update: the WHERE clause re-checks the
// old status so a concurrent writer loses with InvalidState instead of
// silently double-transitioning.
func (s *Service) transition(p *models.Proposal, from, to models.ProposalStatus) (*models.Proposal, error) {
	now := time.Now()
	result := s.DB.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", p.ID, from).
		Updates(map[string]interface{}{
			"status":       to,
			"responded_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("proposal is not pending")
	}
	p.Status = to
	p.RespondedAt = &now
	return p, nil
}
