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
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// CounterOffer atomically marks the original offer countered, creates the next
// round, and moves the project to in_negotiation. The attribute_not_exists
// guard on counterOfferId makes a second counter on the same offer impossible:
// a chain never branches.
func (s *Store) CounterOffer(ctx context.Context, original *models.Offer, counter *models.Offer) (*models.Offer, error) {
	if original.Status != models.OfferPending {
		return nil, storage.ErrOfferNotPending
	}

	now := time.Now()
	counter.Id = uuid.New().String()
	counter.ProjectId = original.ProjectId
	counter.HandymanId = original.HandymanId
	counter.CustomerId = original.CustomerId
	counter.Status = models.OfferPending
	counter.IsCounterOffer = true
	counter.ParentOfferId = original.Id
	counter.NegotiationRound = original.NegotiationRound + 1
	counter.CreatedAt = now
	counter.UpdatedAt = now

	counterAV, err := attributevalue.MarshalMap(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal counter offer: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Close out the original round. The chain-branch guard lives here.
				Update: &types.Update{
					TableName:           aws.String(s.OffersTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: original.Id}},
					UpdateExpression:    aws.String("SET #status = :countered, counterOfferId = :counterId, updatedAt = :now"),
					ConditionExpression: aws.String("#status = :pending AND attribute_not_exists(counterOfferId)"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":countered": &types.AttributeValueMemberS{Value: string(models.OfferCountered)},
						":pending":   &types.AttributeValueMemberS{Value: string(models.OfferPending)},
						":counterId": &types.AttributeValueMemberS{Value: counter.Id},
						":now":       timeAV(now),
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                counterAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.ProjectsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: original.ProjectId}},
					UpdateExpression:    aws.String("SET #status = :negotiating, updatedAt = :now"),
					ConditionExpression: aws.String("#status IN (:open, :hasOffers, :negotiating)"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":negotiating": &types.AttributeValueMemberS{Value: string(models.StatusInNegotiation)},
						":open":        &types.AttributeValueMemberS{Value: string(models.StatusOpen)},
						":hasOffers":   &types.AttributeValueMemberS{Value: string(models.StatusHasOffers)},
						":now":         timeAV(now),
					},
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if conditionFailedAt(tce, 0) {
				return nil, s.explainCounterFailure(ctx, original.Id)
			}
			if conditionFailedAt(tce, 2) {
				return nil, s.explainTransitionFailure(ctx, original.ProjectId, models.StatusInNegotiation)
			}
		}
		return nil, fmt.Errorf("failed to execute counter-offer transaction: %w", err)
	}

	return counter, nil
}

// explainCounterFailure distinguishes an offer that already left pending from
// one that was countered by a faster writer.
func (s *Store) explainCounterFailure(ctx context.Context, offerID string) error {
	offer, err := s.GetOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("counter rejected and re-read failed: %w", err)
	}
	if offer.CounterOfferId != "" {
		return storage.ErrOfferAlreadyCountered
	}
	return storage.ErrOfferNotPending
}
