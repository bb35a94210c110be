package offers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/negotiation"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

var ErrInvalidAmount = errors.New("offer amount must be greater than zero")

// SubmitRequest carries the fields a handyman supplies for a first-round offer.
type SubmitRequest struct {
	ProjectId         string       `json:"projectId"`
	Amount            models.Money `json:"amount"`
	EstimatedDuration string       `json:"estimatedDuration,omitempty"`
	MaterialsIncluded bool         `json:"materialsIncluded"`
	ProposedDate      string       `json:"proposedDate,omitempty"`
	ProposedTime      string       `json:"proposedTime,omitempty"`
	Message           string       `json:"message,omitempty"`
}

// CounterRequest carries the fields for a counter round on an existing offer.
type CounterRequest struct {
	Amount       models.Money `json:"amount"`
	ProposedDate string       `json:"proposedDate,omitempty"`
	ProposedTime string       `json:"proposedTime,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// Engine applies the negotiation rules on top of the atomic store operations.
// It validates who may do what, delegates the state change to storage, and
// posts conversation messages on a best-effort basis afterwards.
type Engine struct {
	Store storage.Storage
	Sink  notify.Sink
}

func NewEngine(store storage.Storage, sink notify.Sink) *Engine {
	return &Engine{Store: store, Sink: sink}
}

// Get returns a single offer. Only the offer's parties and admins may read
// the negotiation terms.
func (e *Engine) Get(ctx context.Context, actor identity.Actor, offerID string) (*models.Offer, error) {
	offer, err := e.Store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleAdmin && actor.ID != offer.CustomerId && actor.ID != offer.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}
	return offer, nil
}

// ListForProject returns every offer on a project, all rounds included.
// Visible to the project's customer, any handyman who has bid on it, and
// admins.
func (e *Engine) ListForProject(ctx context.Context, actor identity.Actor, projectID string) ([]models.Offer, error) {
	project, err := e.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	projectOffers, err := e.Store.ListOffersByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !canReadNegotiation(actor, project, projectOffers) {
		return nil, models.ErrUnauthorizedActor
	}
	return projectOffers, nil
}

func canReadNegotiation(actor identity.Actor, project *models.Project, projectOffers []models.Offer) bool {
	if actor.Role == identity.RoleAdmin || actor.ID == project.CustomerId || actor.ID == project.HandymanId {
		return true
	}
	for _, o := range projectOffers {
		if o.HandymanId == actor.ID {
			return true
		}
	}
	return false
}

// Submit creates a first-round offer. Only a handyman may open a negotiation,
// and never against their own project.
func (e *Engine) Submit(ctx context.Context, actor identity.Actor, req SubmitRequest) (*models.Offer, error) {
	if actor.Role != identity.RoleHandyman {
		return nil, models.ErrUnauthorizedActor
	}
	if !req.Amount.Positive() {
		return nil, ErrInvalidAmount
	}

	project, err := e.Store.GetProject(ctx, req.ProjectId)
	if err != nil {
		return nil, err
	}
	if project.CustomerId == actor.ID {
		return nil, models.ErrUnauthorizedActor
	}

	offer, err := e.Store.SubmitOffer(ctx, &models.Offer{
		ProjectId:         project.Id,
		HandymanId:        actor.ID,
		CustomerId:        project.CustomerId,
		Amount:            req.Amount,
		EstimatedDuration: req.EstimatedDuration,
		MaterialsIncluded: req.MaterialsIncluded,
		ProposedDate:      req.ProposedDate,
		ProposedTime:      req.ProposedTime,
		Message:           req.Message,
		CreatedBy:         actor.ID,
	})
	if err != nil {
		return nil, err
	}

	e.post(ctx, offer, fmt.Sprintf("New offer of %s on %q.", offer.Amount, project.Title), offer.Id)
	return offer, nil
}

// Counter adds the next round to a chain. Either party may counter, but only
// against a round the other party authored.
func (e *Engine) Counter(ctx context.Context, actor identity.Actor, offerID string, req CounterRequest) (*models.Offer, error) {
	original, err := e.Store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actor.ID != original.CustomerId && actor.ID != original.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}
	if actor.ID == original.CreatedBy {
		return nil, models.ErrUnauthorizedActor
	}
	if !req.Amount.Positive() {
		return nil, ErrInvalidAmount
	}

	counter, err := e.Store.CounterOffer(ctx, original, &models.Offer{
		ProjectId:    original.ProjectId,
		HandymanId:   original.HandymanId,
		CustomerId:   original.CustomerId,
		Amount:       req.Amount,
		ProposedDate: req.ProposedDate,
		ProposedTime: req.ProposedTime,
		Message:      req.Message,
		CreatedBy:    actor.ID,
	})
	if err != nil {
		return nil, err
	}

	e.post(ctx, counter, fmt.Sprintf("Counter-offer of %s proposed.", counter.Amount), counter.Id)
	return counter, nil
}

// Accept locks in an offer. The accepting party must be on the project and
// must not be the author of the round being accepted.
func (e *Engine) Accept(ctx context.Context, actor identity.Actor, offerID string) (*models.Offer, error) {
	offer, err := e.Store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if actor.ID != offer.CustomerId && actor.ID != offer.HandymanId {
		return nil, models.ErrUnauthorizedActor
	}
	if actor.ID == offer.CreatedBy {
		return nil, models.ErrUnauthorizedActor
	}

	accepted, err := e.Store.AcceptOffer(ctx, offer.Id, offer.ProjectId)
	if err != nil {
		return nil, err
	}

	e.post(ctx, accepted, fmt.Sprintf("Offer of %s accepted. The job is scheduled.", accepted.Amount), accepted.Id)
	return accepted, nil
}

// Reject declines an offer. Only the counterparty of the round's author may
// reject it.
func (e *Engine) Reject(ctx context.Context, actor identity.Actor, offerID, reason string) error {
	offer, err := e.Store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if actor.ID != offer.CustomerId && actor.ID != offer.HandymanId {
		return models.ErrUnauthorizedActor
	}
	if actor.ID == offer.CreatedBy {
		return models.ErrUnauthorizedActor
	}

	if err := e.Store.RejectOffer(ctx, offerID, reason); err != nil {
		return err
	}

	e.post(ctx, offer, "Offer was declined.", offer.Id)
	return nil
}

// Withdraw retracts a still-pending offer. Only the handyman who made it may
// withdraw, and never after acceptance. Counter rounds already in flight are
// left untouched.
func (e *Engine) Withdraw(ctx context.Context, actor identity.Actor, offerID string) error {
	offer, err := e.Store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if actor.Role != identity.RoleHandyman || actor.ID != offer.HandymanId {
		return models.ErrUnauthorizedActor
	}

	if err := e.Store.WithdrawOffer(ctx, offerID); err != nil {
		return err
	}

	e.post(ctx, offer, "Offer was withdrawn.", offer.Id)
	return nil
}

// History reconstructs the negotiation chains for a project. It carries the
// same visibility rule as the raw offer listing.
func (e *Engine) History(ctx context.Context, actor identity.Actor, projectID string) ([]negotiation.Chain, error) {
	projectOffers, err := e.ListForProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return negotiation.BuildChains(projectOffers)
}

func (e *Engine) post(ctx context.Context, offer *models.Offer, text, offerID string) {
	key := notify.ConversationKey(offer.CustomerId, offer.HandymanId)
	err := e.Sink.PostSystemMessage(ctx, key, text, map[string]string{
		"projectId": offer.ProjectId,
		"offerId":   offerID,
	})
	if err != nil {
		slog.Warn("Failed to post system message", "offerId", offerID, "error", err)
	}
}
