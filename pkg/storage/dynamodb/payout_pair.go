package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// CreatePayoutPair records the release of the held deposit to the handyman
// when the customer confirms completion. IDs are derived from the project so
// a retried confirmation cannot double-book the payout.
func (s *Store) CreatePayoutPair(ctx context.Context, project *models.Project) error {
	if project.DepositAmount == nil {
		return fmt.Errorf("project %s has no deposit to pay out", project.Id)
	}
	return s.createInternalPair(ctx, project, *project.DepositAmount,
		pairLeg{id: "payout#" + project.Id + "#customer", userID: project.CustomerId, otherID: project.HandymanId, txType: models.TxTypePayout},
		pairLeg{id: "payout#" + project.Id + "#handyman", userID: project.HandymanId, otherID: project.CustomerId, txType: models.TxTypePayout},
		fmt.Sprintf("Deposit released for completed project %s", project.Id),
	)
}

// CreateRefundPair records an administrative refund of the deposit during
// dispute remediation.
func (s *Store) CreateRefundPair(ctx context.Context, project *models.Project) error {
	if project.DepositAmount == nil {
		return fmt.Errorf("project %s has no deposit to refund", project.Id)
	}
	return s.createInternalPair(ctx, project, *project.DepositAmount,
		pairLeg{id: "refund#" + project.Id + "#customer", userID: project.CustomerId, otherID: project.HandymanId, txType: models.TxTypeRefund},
		pairLeg{id: "refund#" + project.Id + "#handyman", userID: project.HandymanId, otherID: project.CustomerId, txType: models.TxTypeRefundDeduction},
		fmt.Sprintf("Deposit refunded for project %s", project.Id),
	)
}

type pairLeg struct {
	id      string
	userID  string
	otherID string
	txType  models.TransactionType
}

// createInternalPair writes a non-gateway pair (no bill code) already in the
// completed state; these record internal movements of the held deposit.
func (s *Store) createInternalPair(ctx context.Context, project *models.Project, amount models.Money, first, second pairLeg, description string) error {
	now := time.Now()
	items := make([]types.TransactWriteItem, 0, 2)
	for _, leg := range []pairLeg{first, second} {
		tx := &models.Transaction{
			Id:           leg.id,
			ProjectId:    project.Id,
			UserId:       leg.userID,
			OtherPartyId: leg.otherID,
			Type:         leg.txType,
			Amount:       amount,
			Status:       models.TxCompleted,
			Description:  description,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		av, err := attributevalue.MarshalMap(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal %s ledger entry: %w", leg.txType, err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && (conditionFailedAt(tce, 0) || conditionFailedAt(tce, 1)) {
			// The pair was already recorded by an earlier attempt.
			return nil
		}
		return fmt.Errorf("failed to execute internal pair transaction: %w", err)
	}

	return nil
}
