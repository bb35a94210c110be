package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// ConfirmPairByIDs advances both legs of a ledger pair to the given terminal
// status. On success (completed) the project moves into in_progress inside the
// same batch; on failure the pair settles first and the project is then
// nudged back to awaiting_payment so the customer can retry.
func (s *Store) ConfirmPairByIDs(ctx context.Context, customerTxID, handymanTxID, projectID string, outcome models.TransactionStatus) error {
	if !outcome.Terminal() {
		return fmt.Errorf("confirmation requires a terminal status, got %q", outcome)
	}

	now := time.Now()
	items := []types.TransactWriteItem{
		pairLegUpdate(s.LedgerTableName, customerTxID, outcome, now),
		pairLegUpdate(s.LedgerTableName, handymanTxID, outcome, now),
	}

	if outcome == models.TxCompleted {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.ProjectsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: projectID}},
				UpdateExpression:    aws.String("SET #status = :inProgress, depositPaidAt = :now, updatedAt = :now"),
				ConditionExpression: aws.String("#status IN (:awaiting, :processing)"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":inProgress": &types.AttributeValueMemberS{Value: string(models.StatusInProgress)},
					":awaiting":   &types.AttributeValueMemberS{Value: string(models.StatusAwaitingPayment)},
					":processing": &types.AttributeValueMemberS{Value: string(models.StatusPaymentProcessing)},
					":now":        timeAV(now),
				},
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if conditionFailedAt(tce, 0) || conditionFailedAt(tce, 1) {
				return storage.ErrConcurrentUpdate
			}
			if len(items) > 2 && conditionFailedAt(tce, 2) {
				return s.explainTransitionFailure(ctx, projectID, models.StatusInProgress)
			}
		}
		return fmt.Errorf("failed to execute pair confirmation: %w", err)
	}

	// A failed payment releases the project back onto the retry path. This is
	// deliberately outside the batch above: the pair settling is the
	// authoritative outcome, the project nudge is recoverable.
	if outcome != models.TxCompleted {
		if _, err := s.TransitionProject(ctx, projectID, []models.ProjectStatus{models.StatusPaymentProcessing}, models.StatusAwaitingPayment, nil); err != nil {
			var ite *models.InvalidTransitionError
			if !errors.As(err, &ite) {
				return fmt.Errorf("pair settled %s but project retry transition failed: %w", outcome, err)
			}
			slog.Log(ctx, slog.LevelDebug, "project not in payment_processing after failed payment", "project_id", projectID, "current", ite.Current)
		}
	}

	return nil
}

// ConfirmPairByBillCode resolves a pair through the gateway's bill reference,
// the only key an asynchronous callback carries. Both the callback and the
// synchronous redirect check funnel through here, which makes the operation
// the single idempotent settlement point for a bill.
func (s *Store) ConfirmPairByBillCode(ctx context.Context, billCode string, outcome models.TransactionStatus) (bool, error) {
	entries, err := s.ListTransactionsByBillCode(ctx, billCode)
	if err != nil {
		return false, fmt.Errorf("failed to look up ledger entries for bill %s: %w", billCode, err)
	}

	if len(entries) != 2 {
		return false, fmt.Errorf("bill %s resolves to %d ledger entries: %w", billCode, len(entries), storage.ErrLedgerPairMismatch)
	}

	a, b := entries[0], entries[1]
	if a.Status.Terminal() && b.Status.Terminal() {
		if a.Status != b.Status {
			return false, fmt.Errorf("bill %s legs settled to %s and %s: %w", billCode, a.Status, b.Status, storage.ErrLedgerPairMismatch)
		}
		// Duplicate callback for a settled bill: a no-op, not an error.
		return false, nil
	}
	if a.Status.Terminal() != b.Status.Terminal() {
		return false, fmt.Errorf("bill %s has one settled and one pending leg: %w", billCode, storage.ErrLedgerPairMismatch)
	}

	customerTx, handymanTx := orderPair(a, b)
	if customerTx == nil {
		return false, fmt.Errorf("bill %s entries do not form a customer/handyman pair: %w", billCode, storage.ErrLedgerPairMismatch)
	}

	if err := s.ConfirmPairByIDs(ctx, customerTx.Id, handymanTx.Id, customerTx.ProjectId, outcome); err != nil {
		// Two callbacks for the same bill can race; the loser's leg conditions
		// fail against the winner's writes. If a re-read shows the pair already
		// settled at this same outcome, the loser is just a duplicate.
		if errors.Is(err, storage.ErrConcurrentUpdate) {
			settled, rereadErr := s.pairSettledAt(ctx, billCode, outcome)
			if rereadErr == nil && settled {
				return false, nil
			}
		}
		return false, err
	}
	return true, nil
}

// pairSettledAt reports whether both legs of the bill's pair already sit at
// the given terminal status.
func (s *Store) pairSettledAt(ctx context.Context, billCode string, outcome models.TransactionStatus) (bool, error) {
	entries, err := s.ListTransactionsByBillCode(ctx, billCode)
	if err != nil {
		return false, err
	}
	if len(entries) != 2 {
		return false, nil
	}
	return entries[0].Status == outcome && entries[1].Status == outcome, nil
}

// orderPair identifies the customer and handyman legs by entry type.
func orderPair(a, b models.Transaction) (customerTx, handymanTx *models.Transaction) {
	switch {
	case a.Type == models.TxTypeDepositPaid && b.Type == models.TxTypeDepositReceived:
		return &a, &b
	case b.Type == models.TxTypeDepositPaid && a.Type == models.TxTypeDepositReceived:
		return &b, &a
	default:
		return nil, nil
	}
}

func pairLegUpdate(table, txID string, outcome models.TransactionStatus, now time.Time) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(table),
			Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: txID}},
			UpdateExpression:    aws.String("SET #status = :outcome, updatedAt = :now"),
			ConditionExpression: aws.String("attribute_exists(id) AND #status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":outcome": &types.AttributeValueMemberS{Value: string(outcome)},
				":pending": &types.AttributeValueMemberS{Value: string(models.TxPending)},
				":now":     timeAV(now),
			},
		},
	}
}
