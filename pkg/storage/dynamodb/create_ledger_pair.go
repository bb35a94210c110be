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
	"github.com/google/uuid"
	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// CreateDepositPair writes both legs of the deposit event and moves the
// project into awaiting_payment in one atomic batch. Nothing is written when
// any leg fails, so a crashed initiation leaves no orphan entry behind.
// A project already at awaiting_payment is accepted too: that is the re-bill
// after a failed or expired bill.
func (s *Store) CreateDepositPair(ctx context.Context, project *models.Project, amount models.Money, billCode string) (*models.Transaction, *models.Transaction, error) {
	if project.HandymanId == "" {
		return nil, nil, fmt.Errorf("project %s has no assigned handyman for a deposit", project.Id)
	}

	now := time.Now()
	description := fmt.Sprintf("Deposit for project %s", project.Id)

	customerTx := &models.Transaction{
		Id:                uuid.New().String(),
		ProjectId:         project.Id,
		UserId:            project.CustomerId,
		OtherPartyId:      project.HandymanId,
		Type:              models.TxTypeDepositPaid,
		Amount:            amount,
		Status:            models.TxPending,
		ToyyibPayBillCode: billCode,
		Description:       description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	handymanTx := &models.Transaction{
		Id:                uuid.New().String(),
		ProjectId:         project.Id,
		UserId:            project.HandymanId,
		OtherPartyId:      project.CustomerId,
		Type:              models.TxTypeDepositReceived,
		Amount:            amount,
		Status:            models.TxPending,
		ToyyibPayBillCode: billCode,
		Description:       description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	customerAV, err := attributevalue.MarshalMap(customerTx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal customer ledger entry: %w", err)
	}
	handymanAV, err := attributevalue.MarshalMap(handymanTx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal handyman ledger entry: %w", err)
	}
	amountAV, err := attributevalue.Marshal(amount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal deposit amount: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                customerAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                handymanAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.ProjectsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: project.Id}},
					UpdateExpression:    aws.String("SET #status = :awaiting, depositAmount = :amount, updatedAt = :now"),
					ConditionExpression: aws.String("#status IN (:agreed, :awaiting)"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":awaiting": &types.AttributeValueMemberS{Value: string(models.StatusAwaitingPayment)},
						":agreed":   &types.AttributeValueMemberS{Value: string(models.StatusAgreedScheduled)},
						":amount":   amountAV,
						":now":      timeAV(now),
					},
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && conditionFailedAt(tce, 2) {
			return nil, nil, s.explainTransitionFailure(ctx, project.Id, models.StatusAwaitingPayment)
		}
		return nil, nil, fmt.Errorf("failed to execute deposit-pair transaction: %w", err)
	}

	return customerTx, handymanTx, nil
}
