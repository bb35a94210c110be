package storage

import (
	"context"
	"time"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// GetTransaction retrieves a ledger entry by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByProjectID retrieves every ledger entry for a project.
	ListTransactionsByProjectID(ctx context.Context, projectID string) ([]models.Transaction, error)

	// ListTransactionsByBillCode retrieves the entries correlated to a gateway
	// bill code. A healthy bill code resolves to exactly two entries.
	ListTransactionsByBillCode(ctx context.Context, billCode string) ([]models.Transaction, error)

	// ListStalePendingDeposits retrieves pending gateway-correlated entries
	// older than maxAge, for the bill-expiry sweep.
	ListStalePendingDeposits(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error)
}

// LedgerManager defines the privileged write interface for the paired ledger.
// Entries are only ever created in pairs and only ever advanced together.
type LedgerManager interface {
	// CreateDepositPair writes the pending customer/handyman deposit entries
	// sharing billCode and transitions the project from agreed_scheduled to
	// awaiting_payment stamping depositAmount, all in one atomic batch.
	CreateDepositPair(ctx context.Context, project *models.Project, amount models.Money, billCode string) (customerTx, handymanTx *models.Transaction, err error)

	// ConfirmPairByIDs advances both legs of a pair to the given terminal
	// status. On completed it also moves the project into in_progress within
	// the same batch; on failed the project is offered the awaiting_payment
	// retry path.
	ConfirmPairByIDs(ctx context.Context, customerTxID, handymanTxID, projectID string, outcome models.TransactionStatus) error

	// ConfirmPairByBillCode resolves the pair through the gateway's bill code,
	// the only key an asynchronous callback carries. It is idempotent: a
	// duplicate confirmation of an already-settled bill code reports
	// applied=false with no error. Zero, one, or inconsistently-settled
	// entries fail with ErrLedgerPairMismatch.
	ConfirmPairByBillCode(ctx context.Context, billCode string, outcome models.TransactionStatus) (applied bool, err error)

	// CreatePayoutPair records the release of the held deposit to the handyman
	// when the customer confirms completion.
	CreatePayoutPair(ctx context.Context, project *models.Project) error

	// CreateRefundPair records an administrative refund of the deposit during
	// dispute remediation: customer-side refund, handyman-side refund_deduction.
	CreateRefundPair(ctx context.Context, project *models.Project) error
}

// LedgerStore combines the reader and manager interfaces.
type LedgerStore interface {
	LedgerReader
	LedgerManager
}
