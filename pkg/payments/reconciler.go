package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hafiz/handyman-marketplace/pkg/gateway"
	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// ErrDepositInFlight means a pending deposit pair already exists for the
// project. The outstanding bill has to settle or expire before a new one may
// be issued.
var ErrDepositInFlight = errors.New("a deposit bill is already pending for this project")

// Config carries the deposit pricing and bill lifetime knobs.
type Config struct {
	// DepositRatePercent is the slice of the agreed budget collected up front.
	DepositRatePercent int64
	// ServiceFee is a flat platform fee added on top of the deposit.
	ServiceFee models.Money
	// BillLifetime is how long an unpaid bill may stay pending before the
	// expiry sweep fails it.
	BillLifetime time.Duration
}

// Reconciler owns the money-movement side of the project lifecycle: issuing
// deposit bills and settling ledger pairs from gateway outcomes.
type Reconciler struct {
	Store   storage.Storage
	Gateway gateway.Gateway
	Sink    notify.Sink
	Config  Config
}

func NewReconciler(store storage.Storage, gw gateway.Gateway, sink notify.Sink, cfg Config) *Reconciler {
	return &Reconciler{
		Store:   store,
		Gateway: gw,
		Sink:    sink,
		Config:  cfg,
	}
}

// DepositFor computes the deposit owed for an agreed budget.
func (r *Reconciler) DepositFor(budget models.Money) models.Money {
	return budget.Percent(r.Config.DepositRatePercent).Add(r.Config.ServiceFee)
}

// InitiateDeposit creates a gateway bill for the project's deposit and records
// the pending ledger pair. The gateway call happens first so a provider outage
// leaves no stored state behind. A project whose previous bill failed or
// expired sits at awaiting_payment and may be re-billed, as long as no pending
// pair is still in flight.
func (r *Reconciler) InitiateDeposit(ctx context.Context, actor identity.Actor, projectID string) (*gateway.Bill, error) {
	project, err := r.Store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleCustomer || actor.ID != project.CustomerId {
		return nil, models.ErrUnauthorizedActor
	}
	switch project.Status {
	case models.StatusAgreedScheduled:
	case models.StatusAwaitingPayment:
		if err := r.ensureNoPendingDeposit(ctx, projectID); err != nil {
			return nil, err
		}
	default:
		return nil, &models.InvalidTransitionError{
			Current:   project.Status,
			Requested: models.StatusAwaitingPayment,
		}
	}
	if project.AgreedBudget == nil {
		return nil, fmt.Errorf("project %s has no agreed budget", projectID)
	}

	amount := r.DepositFor(*project.AgreedBudget)
	bill, err := r.Gateway.CreateBill(ctx, gateway.BillRequest{
		ProjectId:   project.Id,
		Title:       project.Title,
		Description: fmt.Sprintf("Deposit for %s", project.Title),
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	if _, _, err := r.Store.CreateDepositPair(ctx, project, amount, bill.BillCode); err != nil {
		return nil, err
	}

	r.post(ctx, project, fmt.Sprintf("Deposit of %s requested for %q.", amount, project.Title), map[string]string{
		"projectId": project.Id,
		"billCode":  bill.BillCode,
	})

	return bill, nil
}

// ensureNoPendingDeposit rejects re-billing while an earlier bill's pair is
// still pending settlement.
func (r *Reconciler) ensureNoPendingDeposit(ctx context.Context, projectID string) error {
	txns, err := r.Store.ListTransactionsByProjectID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to check for in-flight deposits on %s: %w", projectID, err)
	}
	for _, tx := range txns {
		if tx.Status != models.TxPending {
			continue
		}
		if tx.Type == models.TxTypeDepositPaid || tx.Type == models.TxTypeDepositReceived {
			return ErrDepositInFlight
		}
	}
	return nil
}

// MarkProcessing records that the customer has been handed off to the payment
// page. Safe to miss; the bill outcome is what settles the ledger.
func (r *Reconciler) MarkProcessing(ctx context.Context, projectID string) error {
	_, err := r.Store.TransitionProject(ctx, projectID,
		[]models.ProjectStatus{models.StatusAwaitingPayment},
		models.StatusPaymentProcessing, nil)
	return err
}

// ConfirmByTransactionIDs settles a known pair directly. Used by operator
// tooling when the bill code correlation is unavailable.
func (r *Reconciler) ConfirmByTransactionIDs(ctx context.Context, customerTxID, handymanTxID, projectID string, outcome models.TransactionStatus) error {
	return r.Store.ConfirmPairByIDs(ctx, customerTxID, handymanTxID, projectID, outcome)
}

// ConfirmByBillCode is the single settlement funnel for both the redirect
// check and the async gateway callback. Pending outcomes are a no-op; repeat
// confirmations of a settled bill are absorbed silently.
func (r *Reconciler) ConfirmByBillCode(ctx context.Context, billCode string, status gateway.BillStatus) (bool, error) {
	var outcome models.TransactionStatus
	switch status {
	case gateway.BillStatusSuccess:
		outcome = models.TxCompleted
	case gateway.BillStatusFailed:
		outcome = models.TxFailed
	case gateway.BillStatusPending:
		return false, nil
	default:
		return false, fmt.Errorf("unknown bill status %q", status)
	}

	applied, err := r.Store.ConfirmPairByBillCode(ctx, billCode, outcome)
	if err != nil {
		if errors.Is(err, storage.ErrLedgerPairMismatch) {
			slog.Error("Ledger pair mismatch during settlement, manual intervention required",
				"billCode", billCode, "outcome", outcome, "error", err)
		}
		return false, err
	}
	if !applied {
		slog.Info("Duplicate settlement ignored", "billCode", billCode, "outcome", outcome)
		return false, nil
	}

	if outcome == models.TxCompleted {
		r.notifySettled(ctx, billCode)
	}
	return true, nil
}

// VerifyRedirect resolves the bill's outcome when the customer lands back on
// the return URL. The gateway is polled with a short capped backoff because
// the provider can lag its own redirect.
func (r *Reconciler) VerifyRedirect(ctx context.Context, billCode string) (gateway.BillStatus, error) {
	var status gateway.BillStatus
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		status, err = r.Gateway.GetBillStatus(ctx, billCode)
		if err == nil {
			break
		}
		slog.Warn("Gateway status check failed, retrying", "billCode", billCode, "attempt", attempt, "error", err)
	}
	if err != nil {
		return "", err
	}

	if _, err := r.ConfirmByBillCode(ctx, billCode, status); err != nil {
		return "", err
	}
	return status, nil
}

// ExpireStaleBills fails every deposit pair whose bill has sat pending longer
// than the configured lifetime. Individual failures are logged and skipped so
// one poisoned pair cannot stall the sweep.
func (r *Reconciler) ExpireStaleBills(ctx context.Context) (int, error) {
	stale, err := r.Store.ListStalePendingDeposits(ctx, r.Config.BillLifetime)
	if err != nil {
		return 0, err
	}

	codes := map[string]bool{}
	for _, tx := range stale {
		if tx.ToyyibPayBillCode != "" {
			codes[tx.ToyyibPayBillCode] = true
		}
	}

	expired := 0
	for code := range codes {
		applied, err := r.Store.ConfirmPairByBillCode(ctx, code, models.TxFailed)
		if err != nil {
			slog.Error("Failed to expire stale bill", "billCode", code, "error", err)
			continue
		}
		if applied {
			slog.Info("Expired stale deposit bill", "billCode", code)
			expired++
		}
	}
	return expired, nil
}

func (r *Reconciler) notifySettled(ctx context.Context, billCode string) {
	txns, err := r.Store.ListTransactionsByBillCode(ctx, billCode)
	if err != nil || len(txns) == 0 {
		slog.Warn("Could not load settled pair for notification", "billCode", billCode, "error", err)
		return
	}
	project, err := r.Store.GetProject(ctx, txns[0].ProjectId)
	if err != nil {
		slog.Warn("Could not load project for notification", "projectId", txns[0].ProjectId, "error", err)
		return
	}
	r.post(ctx, project, fmt.Sprintf("Deposit received for %q. Work can begin.", project.Title), map[string]string{
		"projectId": project.Id,
		"billCode":  billCode,
	})
}

// post delivers a conversation message on a best-effort basis. Settlement
// never fails because a notification could not be queued.
func (r *Reconciler) post(ctx context.Context, project *models.Project, text string, metadata map[string]string) {
	key := notify.ConversationKey(project.CustomerId, project.HandymanId)
	if err := r.Sink.PostSystemMessage(ctx, key, text, metadata); err != nil {
		slog.Warn("Failed to post system message", "projectId", project.Id, "error", err)
	}
}
