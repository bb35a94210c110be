package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// WithdrawOffer sets a pending offer to withdrawn. The conditional check makes
// withdrawing an already-accepted (or otherwise settled) offer fail with
// ErrOfferNotPending. Withdrawal deliberately does not touch the project
// status or any sibling offer.
func (s *Store) WithdrawOffer(ctx context.Context, offerID string) error {
	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.OffersTableName),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: offerID}},
		UpdateExpression:    aws.String("SET #status = :withdrawn, updatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":withdrawn": &types.AttributeValueMemberS{Value: string(models.OfferWithdrawn)},
			":pending":   &types.AttributeValueMemberS{Value: string(models.OfferPending)},
			":now":       timeAV(time.Now()),
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrOfferNotPending
		}
		return fmt.Errorf("failed to withdraw offer %s: %w", offerID, err)
	}

	return nil
}
