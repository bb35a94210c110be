package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/reviews"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

var ErrMissingTitle = errors.New("project title is required")
var ErrInvalidBudget = errors.New("initial budget must be greater than zero")

// CreateRequest carries the fields a customer supplies when posting a project.
type CreateRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	InitialBudget models.Money `json:"initialBudget"`
	IsNegotiable  bool         `json:"isNegotiable"`
}

// View is a project decorated with caller-specific presentation fields.
type View struct {
	*models.Project
	// DisplayStatus is what the caller's side of the marketplace labels the
	// status. It differs from Status only for the customer's payment prompt.
	DisplayStatus string `json:"displayStatus"`
	// HasReviewed reports whether the caller has already reviewed a completed
	// project. It never gates any transition.
	HasReviewed bool `json:"hasReviewed"`
}

// Service applies the project lifecycle rules over the atomic store
// transitions, mirroring how the offer engine wraps offer mutations.
type Service struct {
	Store   storage.Storage
	Sink    notify.Sink
	Reviews reviews.Checker
}

func NewService(store storage.Storage, sink notify.Sink, checker reviews.Checker) *Service {
	return &Service{Store: store, Sink: sink, Reviews: checker}
}

// Create posts a new project in the open state.
func (s *Service) Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*models.Project, error) {
	if actor.Role != identity.RoleCustomer {
		return nil, models.ErrUnauthorizedActor
	}
	if req.Title == "" {
		return nil, ErrMissingTitle
	}
	if !req.InitialBudget.Positive() {
		return nil, ErrInvalidBudget
	}

	return s.Store.CreateProject(ctx, &models.Project{
		CustomerId:    actor.ID,
		Title:         req.Title,
		Description:   req.Description,
		InitialBudget: req.InitialBudget,
		IsNegotiable:  req.IsNegotiable,
		Status:        models.StatusOpen,
	})
}

// Get returns a project decorated for the calling actor.
func (s *Service) Get(ctx context.Context, actor identity.Actor, projectID string) (*View, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, actor, project), nil
}

// ListForActor returns the actor's projects: posted ones for a customer,
// assigned ones for a handyman.
func (s *Service) ListForActor(ctx context.Context, actor identity.Actor) ([]View, error) {
	var projects []models.Project
	var err error
	switch actor.Role {
	case identity.RoleCustomer:
		projects, err = s.Store.ListProjectsByCustomerID(ctx, actor.ID)
	case identity.RoleHandyman:
		projects, err = s.Store.ListProjectsByHandymanID(ctx, actor.ID)
	default:
		return nil, models.ErrUnauthorizedActor
	}
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(projects))
	for i := range projects {
		views = append(views, *s.view(ctx, actor, &projects[i]))
	}
	return views, nil
}

// Transactions returns the project's ledger entries. The ledger is only
// visible to the project's parties and admins.
func (s *Service) Transactions(ctx context.Context, actor identity.Actor, projectID string) ([]models.Transaction, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleAdmin && actor.ID != project.CustomerId && actor.ID != project.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}
	return s.Store.ListTransactionsByProjectID(ctx, projectID)
}

// Cancel withdraws a project before any handyman is committed to it.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleCustomer || actor.ID != project.CustomerId {
		return nil, models.ErrUnauthorizedActor
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusOpen, models.StatusPendingHandymanReview},
		models.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("Project %q was cancelled.", updated.Title))
	return updated, nil
}

// MarkComplete is the assigned handyman reporting the work as done. The
// customer still has to confirm before money moves.
func (s *Service) MarkComplete(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleHandyman || actor.ID != project.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusInProgress},
		models.StatusPendingCompletion, nil)
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("%q has been marked complete. Please confirm the work.", updated.Title))
	return updated, nil
}

// ConfirmCompletion is the customer signing off on the finished work. The
// held deposit is released to the handyman as a payout pair.
func (s *Service) ConfirmCompletion(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleCustomer || actor.ID != project.CustomerId {
		return nil, models.ErrUnauthorizedActor
	}

	confirmedBy := actor.ID
	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusPendingCompletion},
		models.StatusCompleted, &storage.ProjectPatch{ConfirmedBy: &confirmedBy})
	if err != nil {
		return nil, err
	}

	if err := s.Store.CreatePayoutPair(ctx, updated); err != nil {
		// The project is already completed; the payout is retried by rerunning
		// the confirmation, which the deterministic pair ids make safe.
		slog.Error("Failed to record payout pair", "projectId", projectID, "error", err)
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("%q is complete. Deposit released to the handyman.", updated.Title))
	return updated, nil
}

// Dispute freezes a project in the disputed state from any live status.
// Either party may escalate.
func (s *Service) Dispute(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.ID != project.CustomerId && actor.ID != project.HandymanId && actor.Role != identity.RoleAdmin {
		return nil, models.ErrUnauthorizedActor
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		models.StatusesAllowing(models.StatusDisputed), models.StatusDisputed, nil)
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("%q has been disputed. An admin will review.", updated.Title))
	return updated, nil
}

// RequestAdjustment is the handyman asking for a revised budget after
// discovering extra work mid-job.
func (s *Service) RequestAdjustment(ctx context.Context, actor identity.Actor, projectID string, amount models.Money) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleHandyman || actor.ID != project.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}
	if !amount.Positive() {
		return nil, ErrInvalidBudget
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusInProgress},
		models.StatusRequiresAdjustment, &storage.ProjectPatch{AdjustedBudget: &amount})
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("Budget adjustment to %s requested on %q.", amount, updated.Title))
	return updated, nil
}

// ApproveAdjustment is the customer accepting the revised budget. The revised
// amount becomes the agreed budget and work resumes.
func (s *Service) ApproveAdjustment(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleCustomer || actor.ID != project.CustomerId {
		return nil, models.ErrUnauthorizedActor
	}
	if project.AdjustedBudget == nil {
		return nil, fmt.Errorf("project %s has no pending adjustment", projectID)
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusRequiresAdjustment},
		models.StatusInProgress, &storage.ProjectPatch{AgreedBudget: project.AdjustedBudget})
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("Adjusted budget approved on %q. Work resumes.", updated.Title))
	return updated, nil
}

// RefundDeposit is admin-only dispute remediation: the held deposit goes back
// to the customer as a refund pair and the project is closed out as cancelled.
func (s *Service) RefundDeposit(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, models.ErrUnauthorizedActor
	}
	project, err := s.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.StatusDisputed {
		return nil, &models.InvalidTransitionError{
			Current:   project.Status,
			Requested: models.StatusCancelled,
		}
	}

	if err := s.Store.CreateRefundPair(ctx, project); err != nil {
		return nil, err
	}

	updated, err := s.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusDisputed},
		models.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	s.post(ctx, updated, fmt.Sprintf("Dispute resolved on %q. Deposit refunded.", updated.Title))
	return updated, nil
}

func (s *Service) view(ctx context.Context, actor identity.Actor, project *models.Project) *View {
	v := &View{Project: project, DisplayStatus: string(project.Status)}
	if actor.Role == identity.RoleCustomer {
		v.DisplayStatus = project.Status.CustomerView()
	}
	if project.Status == models.StatusCompleted {
		reviewed, err := s.Reviews.HasReviewed(ctx, actor.ID, project.Id)
		if err != nil {
			slog.Warn("Review lookup failed", "projectId", project.Id, "error", err)
		} else {
			v.HasReviewed = reviewed
		}
	}
	return v
}

func (s *Service) post(ctx context.Context, project *models.Project, text string) {
	if project.HandymanId == "" {
		return
	}
	key := notify.ConversationKey(project.CustomerId, project.HandymanId)
	err := s.Sink.PostSystemMessage(ctx, key, text, map[string]string{"projectId": project.Id})
	if err != nil {
		slog.Warn("Failed to post system message", "projectId", project.Id, "error", err)
	}
}
