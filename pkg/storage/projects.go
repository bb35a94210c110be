package storage

import (
	"context"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// ProjectPatch carries the fields a transition stamps alongside the status
// change. Nil fields are left untouched.
type ProjectPatch struct {
	HandymanId      *string
	AgreedBudget    *models.Money
	AdjustedBudget  *models.Money
	DepositAmount   *models.Money
	AcceptedOfferId *string
	ConfirmedBy     *string
}

// ProjectReader defines the interface for reading project data.
type ProjectReader interface {
	// GetProject retrieves a project by its ID.
	GetProject(ctx context.Context, projectID string) (*models.Project, error)

	// ListProjectsByCustomerID retrieves all projects posted by a customer.
	ListProjectsByCustomerID(ctx context.Context, customerID string) ([]models.Project, error)

	// ListProjectsByHandymanID retrieves all projects assigned to a handyman.
	ListProjectsByHandymanID(ctx context.Context, handymanID string) ([]models.Project, error)
}

// ProjectManager defines the interface for creating projects and moving them
// through the status state machine.
type ProjectManager interface {
	// CreateProject creates a new project in the open state.
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)

	// TransitionProject conditionally moves a project from one of the allowed
	// pre-states to the target status, stamping the transition timestamp and
	// any patch fields in the same write. A project whose current status is
	// not in from fails with *models.InvalidTransitionError; the store never
	// overwrites a status it did not expect.
	TransitionProject(ctx context.Context, projectID string, from []models.ProjectStatus, to models.ProjectStatus, patch *ProjectPatch) (*models.Project, error)
}

// ProjectStore combines the reader and manager interfaces.
type ProjectStore interface {
	ProjectReader
	ProjectManager
}
