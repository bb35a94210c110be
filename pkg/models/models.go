package models

import (
	"time"
)

// Project represents a customer-posted job through its full lifecycle.
// Field names in the dynamodbav/json tags are the persisted contract that
// unmigrated clients read; they must not be renamed.
type Project struct {
	Id              string         `json:"id" dynamodbav:"id"`
	CustomerId      string         `json:"customerId" dynamodbav:"customerId"`
	HandymanId      string         `json:"handymanId,omitempty" dynamodbav:"handymanId,omitempty"`
	Title           string         `json:"title" dynamodbav:"title"`
	Description     string         `json:"description,omitempty" dynamodbav:"description,omitempty"`
	InitialBudget   Money          `json:"initialBudget" dynamodbav:"initialBudget"`
	IsNegotiable    bool           `json:"isNegotiable" dynamodbav:"isNegotiable"`
	AgreedBudget    *Money         `json:"agreedBudget,omitempty" dynamodbav:"agreedBudget,omitempty"`
	AdjustedBudget  *Money         `json:"adjustedBudget,omitempty" dynamodbav:"adjustedBudget,omitempty"`
	DepositAmount   *Money         `json:"depositAmount,omitempty" dynamodbav:"depositAmount,omitempty"`
	AcceptedOfferId string         `json:"acceptedOfferId,omitempty" dynamodbav:"acceptedOfferId,omitempty"`
	Status          ProjectStatus  `json:"status" dynamodbav:"status"`
	ConfirmedBy     string         `json:"confirmedBy,omitempty" dynamodbav:"confirmedBy,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
	AcceptedAt      *time.Time     `json:"acceptedAt,omitempty" dynamodbav:"acceptedAt,omitempty"`
	DepositPaidAt   *time.Time     `json:"depositPaidAt,omitempty" dynamodbav:"depositPaidAt,omitempty"`
	MarkedCompleteAt *time.Time    `json:"markedCompleteAt,omitempty" dynamodbav:"markedCompleteAt,omitempty"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty" dynamodbav:"completedAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty" dynamodbav:"cancelledAt,omitempty"`
}

// Offer is a priced proposal from a handyman, or a customer's counter-proposal.
// ParentOfferId/CounterOfferId link offers into a negotiation chain; a chain
// never branches, so an offer has at most one parent and at most one child.
type Offer struct {
	Id                string      `json:"id" dynamodbav:"id"`
	ProjectId         string      `json:"projectId" dynamodbav:"projectId"`
	HandymanId        string      `json:"handymanId" dynamodbav:"handymanId"`
	CustomerId        string      `json:"customerId" dynamodbav:"customerId"`
	Amount            Money       `json:"amount" dynamodbav:"amount"`
	EstimatedDuration string      `json:"estimatedDuration,omitempty" dynamodbav:"estimatedDuration,omitempty"`
	MaterialsIncluded bool        `json:"materialsIncluded" dynamodbav:"materialsIncluded"`
	ProposedDate      string      `json:"proposedDate,omitempty" dynamodbav:"proposedDate,omitempty"`
	ProposedTime      string      `json:"proposedTime,omitempty" dynamodbav:"proposedTime,omitempty"`
	Message           string      `json:"message,omitempty" dynamodbav:"message,omitempty"`
	IsCounterOffer    bool        `json:"isCounterOffer" dynamodbav:"isCounterOffer"`
	ParentOfferId     string      `json:"parentOfferId,omitempty" dynamodbav:"parentOfferId,omitempty"`
	CounterOfferId    string      `json:"counterOfferId,omitempty" dynamodbav:"counterOfferId,omitempty"`
	NegotiationRound  int         `json:"negotiationRound" dynamodbav:"negotiationRound"`
	Status            OfferStatus `json:"status" dynamodbav:"status"`
	RejectionReason   string      `json:"rejectionReason,omitempty" dynamodbav:"rejectionReason,omitempty"`
	// CreatedBy is the actor who authored this round; a party may never
	// accept an offer they authored themselves.
	CreatedBy string    `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Transaction is one leg of a ledger pair. Every economic event writes two
// entries, one per party, cross-referenced through OtherPartyId and (for
// gateway-driven events) correlated by ToyyibPayBillCode.
type Transaction struct {
	Id                string            `json:"id" dynamodbav:"id"`
	ProjectId         string            `json:"projectId" dynamodbav:"projectId"`
	UserId            string            `json:"userId" dynamodbav:"userId"`
	OtherPartyId      string            `json:"otherPartyId" dynamodbav:"otherPartyId"`
	Type              TransactionType   `json:"type" dynamodbav:"type"`
	Amount            Money             `json:"amount" dynamodbav:"amount"`
	Status            TransactionStatus `json:"status" dynamodbav:"status"`
	ToyyibPayBillCode string            `json:"toyyibPayBillCode,omitempty" dynamodbav:"toyyibPayBillCode,omitempty"`
	Description       string            `json:"description,omitempty" dynamodbav:"description,omitempty"`
	CreatedAt         time.Time         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" dynamodbav:"updatedAt"`
}

// SystemMessage is a durable copy of a notification delivered into a
// conversation. The chat transport itself is out of scope; these records are
// written by the notifier worker after the authoritative state change.
type SystemMessage struct {
	Id              string            `json:"id" dynamodbav:"id"`
	ConversationKey string            `json:"conversationKey" dynamodbav:"conversationKey"`
	Text            string            `json:"text" dynamodbav:"text"`
	Metadata        map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	SentAt          time.Time         `json:"sentAt" dynamodbav:"sentAt"`
}
