package models

import (
	"fmt"
	"slices"
)

// ProjectStatus is the canonical lifecycle state of a project. It is the
// single source of truth for which actions are legal; every writer re-reads
// and validates it before mutating.
type ProjectStatus string

const (
	StatusOpen                      ProjectStatus = "open"
	StatusPendingHandymanReview     ProjectStatus = "pending_handyman_review"
	StatusInNegotiation             ProjectStatus = "in_negotiation"
	StatusHasOffers                 ProjectStatus = "has_offers"
	StatusPendingCustomerAcceptance ProjectStatus = "pending_customer_acceptance"
	StatusAgreedScheduled           ProjectStatus = "agreed_scheduled"
	StatusAwaitingPayment           ProjectStatus = "awaiting_payment"
	StatusPaymentProcessing         ProjectStatus = "payment_processing"
	StatusRequiresAdjustment        ProjectStatus = "requires_adjustment"
	StatusInProgress                ProjectStatus = "in_progress"
	StatusPendingCompletion         ProjectStatus = "pending_completion"
	StatusCompleted                 ProjectStatus = "completed"
	StatusCancelled                 ProjectStatus = "cancelled"
	StatusDisputed                  ProjectStatus = "disputed"
	StatusDeclined                  ProjectStatus = "declined"
)

// projectTransitions is the authoritative transition table. Anything not
// listed here is illegal and is rejected, never silently ignored.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	StatusOpen:                      {StatusHasOffers, StatusInNegotiation, StatusCancelled, StatusDisputed},
	StatusPendingHandymanReview:     {StatusHasOffers, StatusInNegotiation, StatusDeclined, StatusCancelled, StatusDisputed},
	StatusHasOffers:                 {StatusInNegotiation, StatusAgreedScheduled, StatusOpen, StatusHasOffers, StatusDisputed},
	StatusInNegotiation:             {StatusHasOffers, StatusAgreedScheduled, StatusOpen, StatusInNegotiation, StatusDisputed},
	StatusPendingCustomerAcceptance: {StatusAgreedScheduled, StatusInNegotiation, StatusDisputed},
	StatusAgreedScheduled:           {StatusAwaitingPayment, StatusDisputed},
	StatusAwaitingPayment:           {StatusPaymentProcessing, StatusInProgress, StatusAwaitingPayment, StatusDisputed},
	StatusPaymentProcessing:         {StatusInProgress, StatusAwaitingPayment, StatusDisputed},
	StatusRequiresAdjustment:        {StatusInProgress, StatusDisputed},
	StatusInProgress:                {StatusPendingCompletion, StatusRequiresAdjustment, StatusDisputed},
	StatusPendingCompletion:         {StatusCompleted, StatusInProgress, StatusDisputed},
	StatusCompleted:                 {},
	StatusCancelled:                 {},
	// Administrative resolution: an admin refunds the deposit and closes the
	// dispute out as cancelled. No other exit exists.
	StatusDisputed: {StatusCancelled},
	StatusDeclined: {StatusDisputed},
}

// InvalidTransitionError reports an attempted status change that the current
// status does not permit. It usually means the caller raced another actor and
// read stale state; the correct response is to re-read, not to retry blindly.
type InvalidTransitionError struct {
	Current   ProjectStatus
	Requested ProjectStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: project is %q, requested %q", e.Current, e.Requested)
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	_, ok := projectTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s ProjectStatus) Terminal() bool {
	next, ok := projectTransitions[s]
	return ok && len(next) == 0
}

// CustomerView returns the label the customer-facing surface uses for s.
// Stored values never change; only the presentation differs.
func (s ProjectStatus) CustomerView() string {
	if s == StatusAwaitingPayment {
		return "requires_payment"
	}
	return string(s)
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from, to ProjectStatus) bool {
	for _, next := range projectTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a typed error if from -> to is not permitted.
func ValidateTransition(from, to ProjectStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{Current: from, Requested: to}
	}
	return nil
}

// StatusesAllowing returns every status the table permits to move to the
// given target. Used for escalation to disputed, which is legal from any
// live status.
func StatusesAllowing(to ProjectStatus) []ProjectStatus {
	out := make([]ProjectStatus, 0, len(projectTransitions))
	for s := range projectTransitions {
		if CanTransition(s, to) {
			out = append(out, s)
		}
	}
	// Deterministic order: map iteration would otherwise make two calls
	// disagree on ordering even though they describe the same set.
	slices.Sort(out)
	return out
}

// OfferStatus is the lifecycle state of a single offer.
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// RejectionReasonSuperseded is stamped on sibling offers when another offer
// on the same project is accepted.
const RejectionReasonSuperseded = "another offer was accepted"

// TransactionStatus is the state of a single ledger entry. A pair always
// reaches a common terminal status; one leg is never left behind.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

// Terminal reports whether s is a final ledger state.
func (s TransactionStatus) Terminal() bool {
	return s == TxCompleted || s == TxFailed || s == TxCancelled
}

// TransactionType identifies the economic meaning of a ledger entry. The two
// legs of one event use complementary types.
type TransactionType string

const (
	TxTypeDepositPaid     TransactionType = "deposit_paid"
	TxTypeDepositReceived TransactionType = "deposit_received"
	TxTypePayout          TransactionType = "payout"
	TxTypeRefund          TransactionType = "refund"
	TxTypeRefundDeduction TransactionType = "refund_deduction"
)
