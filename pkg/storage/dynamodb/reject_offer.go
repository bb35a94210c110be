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

// RejectOffer sets a pending offer to rejected. When it was the last pending
// offer on the project, the project reverts toward open in the same batch so
// new handymen can bid again.
func (s *Store) RejectOffer(ctx context.Context, offerID, reason string) error {
	offer, err := s.GetOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("failed to get offer for rejection: %w", err)
	}
	if offer.Status != models.OfferPending {
		return storage.ErrOfferNotPending
	}

	siblings, err := s.ListOffersByProjectID(ctx, offer.ProjectId)
	if err != nil {
		return fmt.Errorf("failed to list sibling offers: %w", err)
	}
	otherPending := false
	for _, sib := range siblings {
		if sib.Id != offerID && sib.Status == models.OfferPending {
			otherPending = true
			break
		}
	}

	now := time.Now()
	if reason == "" {
		reason = "offer rejected"
	}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(s.OffersTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: offerID}},
				UpdateExpression:    aws.String("SET #status = :rejected, rejectionReason = :reason, updatedAt = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":rejected": &types.AttributeValueMemberS{Value: string(models.OfferRejected)},
					":reason":   &types.AttributeValueMemberS{Value: reason},
					":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":now":      timeAV(now),
				},
			},
		},
	}

	// Last pending offer gone: the project is effectively open again.
	if !otherPending {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.ProjectsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: offer.ProjectId}},
				UpdateExpression:    aws.String("SET #status = :open, updatedAt = :now"),
				ConditionExpression: aws.String("#status IN (:hasOffers, :negotiating)"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":open":        &types.AttributeValueMemberS{Value: string(models.StatusOpen)},
					":hasOffers":   &types.AttributeValueMemberS{Value: string(models.StatusHasOffers)},
					":negotiating": &types.AttributeValueMemberS{Value: string(models.StatusInNegotiation)},
					":now":         timeAV(now),
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if conditionFailedAt(tce, 0) {
				return storage.ErrOfferNotPending
			}
			if len(items) > 1 && conditionFailedAt(tce, 1) {
				return storage.ErrConcurrentUpdate
			}
		}
		return fmt.Errorf("failed to execute reject-offer transaction: %w", err)
	}

	return nil
}
