package storage

import (
	"context"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// OfferReader defines the interface for reading offer data.
type OfferReader interface {
	// GetOffer retrieves an offer by its ID.
	GetOffer(ctx context.Context, offerID string) (*models.Offer, error)

	// ListOffersByProjectID retrieves every offer on a project, all rounds included.
	ListOffersByProjectID(ctx context.Context, projectID string) ([]models.Offer, error)

	// ListOffersByHandymanID retrieves every offer a handyman has made.
	ListOffersByHandymanID(ctx context.Context, handymanID string) ([]models.Offer, error)
}

// OfferManager is the single place that may create or mutate offer documents.
// Each mutation is an all-or-nothing batch with the project status change it
// implies.
type OfferManager interface {
	// SubmitOffer creates a first-round offer and advances the project into
	// has_offers (or keeps it in_negotiation).
	SubmitOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)

	// CounterOffer sets the original offer to countered, links the new round
	// into the chain, and moves the project to in_negotiation. A second
	// counter on an already-countered offer fails with ErrOfferAlreadyCountered.
	CounterOffer(ctx context.Context, original *models.Offer, counter *models.Offer) (*models.Offer, error)

	// AcceptOffer atomically accepts the target offer, cascades rejection to
	// every other still-pending offer on the project, and transitions the
	// project to agreed_scheduled stamping handymanId, agreedBudget and
	// acceptedOfferId. Partial application is impossible; a concurrent sibling
	// mutation fails the whole batch.
	AcceptOffer(ctx context.Context, offerID, projectID string) (*models.Offer, error)

	// RejectOffer sets a pending offer to rejected with an optional reason and,
	// when no pending offers remain, reverts the project toward open.
	RejectOffer(ctx context.Context, offerID, reason string) error

	// WithdrawOffer sets a pending offer to withdrawn. Withdrawal after
	// acceptance is illegal and fails with ErrOfferNotPending.
	WithdrawOffer(ctx context.Context, offerID string) error
}

// OfferStore combines the reader and manager interfaces.
type OfferStore interface {
	OfferReader
	OfferManager
}
