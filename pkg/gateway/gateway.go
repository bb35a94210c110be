package gateway

import (
	"context"
	"errors"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// ErrGatewayUnavailable indicates the payment provider could not be reached
// or returned an unusable response. Callers must not record any ledger state
// when they see it.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// BillStatus is the provider-side verdict for a bill.
type BillStatus string

const (
	BillStatusSuccess BillStatus = "success"
	BillStatusPending BillStatus = "pending"
	BillStatusFailed  BillStatus = "failed"
)

// BillRequest carries everything the provider needs to issue a deposit bill.
type BillRequest struct {
	ProjectId   string
	Title       string
	Description string
	Amount      models.Money
	PayerName   string
	PayerEmail  string
	PayerPhone  string
}

// Bill is the provider's handle for a created bill.
type Bill struct {
	BillCode   string
	PaymentURL string
}

// Callback is the parsed form of an async payment notification.
type Callback struct {
	BillCode      string
	Status        BillStatus
	OrderId       string
	TransactionId string
}

// Gateway abstracts the payment provider so reconciliation logic can be
// exercised without live credentials.
type Gateway interface {
	CreateBill(ctx context.Context, req BillRequest) (*Bill, error)
	GetBillStatus(ctx context.Context, billCode string) (BillStatus, error)
}
