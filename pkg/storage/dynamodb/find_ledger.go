package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// GetTransaction retrieves a ledger entry by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: txID},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrTransactionNotFound
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}

	return &tx, nil
}

// ListTransactionsByProjectID retrieves every ledger entry for a project.
func (s *Store) ListTransactionsByProjectID(ctx context.Context, projectID string) ([]models.Transaction, error) {
	return s.queryLedger(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerByProjectGSI),
		KeyConditionExpression: aws.String("projectId = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: projectID},
		},
	})
}

// ListTransactionsByBillCode retrieves the entries correlated to a gateway
// bill code.
func (s *Store) ListTransactionsByBillCode(ctx context.Context, billCode string) ([]models.Transaction, error) {
	return s.queryLedger(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerByBillCodeGSI),
		KeyConditionExpression: aws.String("toyyibPayBillCode = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: billCode},
		},
	})
}

// ListStalePendingDeposits retrieves pending gateway-correlated entries older
// than maxAge. The expiry sweep resolves their bills to failed so an abandoned
// gateway page cannot park a project in payment limbo forever.
func (s *Store) ListStalePendingDeposits(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error) {
	cutoff := time.Now().Add(-maxAge)
	cutoffStr, err := cutoff.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	return s.queryLedger(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerByStatusGSI),
		KeyConditionExpression: aws.String("#status = :pending AND createdAt < :cutoff"),
		FilterExpression:       aws.String("attribute_exists(toyyibPayBillCode)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.TxPending)},
			":cutoff":  &types.AttributeValueMemberS{Value: string(cutoffStr)},
		},
	})
}

func (s *Store) queryLedger(ctx context.Context, input *dynamodb.QueryInput) ([]models.Transaction, error) {
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}

	var entries []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}
