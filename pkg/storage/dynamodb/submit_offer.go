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

// submittablePreStates are the project statuses a new first-round offer is
// legal from.
var submittablePreStates = []models.ProjectStatus{
	models.StatusOpen,
	models.StatusPendingHandymanReview,
	models.StatusHasOffers,
	models.StatusInNegotiation,
}

// SubmitOffer atomically creates a first-round offer and advances the project
// out of open. The project condition pins the exact status read beforehand, so
// a concurrent cancel or accept fails this batch cleanly.
func (s *Store) SubmitOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	project, err := s.GetProject(ctx, offer.ProjectId)
	if err != nil {
		return nil, fmt.Errorf("failed to get project for offer: %w", err)
	}

	legal := false
	for _, st := range submittablePreStates {
		if project.Status == st {
			legal = true
			break
		}
	}
	if !legal {
		return nil, &models.InvalidTransitionError{Current: project.Status, Requested: models.StatusHasOffers}
	}

	// Offers on a project already mid-negotiation keep it there; anything
	// earlier moves to has_offers.
	target := models.StatusHasOffers
	if project.Status == models.StatusInNegotiation {
		target = models.StatusInNegotiation
	}

	now := time.Now()
	offer.Id = uuid.New().String()
	offer.CustomerId = project.CustomerId
	offer.Status = models.OfferPending
	offer.NegotiationRound = 1
	offer.IsCounterOffer = false
	offer.CreatedAt = now
	offer.UpdatedAt = now

	offerAV, err := attributevalue.MarshalMap(offer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                offerAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.ProjectsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: project.Id}},
					UpdateExpression:    aws.String("SET #status = :target, updatedAt = :now"),
					ConditionExpression: aws.String("#status = :current"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":target":  &types.AttributeValueMemberS{Value: string(target)},
						":current": &types.AttributeValueMemberS{Value: string(project.Status)},
						":now":     timeAV(now),
					},
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && conditionFailedAt(tce, 1) {
			return nil, s.explainTransitionFailure(ctx, project.Id, target)
		}
		return nil, fmt.Errorf("failed to execute submit-offer transaction: %w", err)
	}

	return offer, nil
}

// conditionFailedAt reports whether the i-th item of a cancelled transaction
// failed its conditional check.
func conditionFailedAt(tce *types.TransactionCanceledException, i int) bool {
	if i >= len(tce.CancellationReasons) {
		return false
	}
	code := tce.CancellationReasons[i].Code
	return code != nil && *code == "ConditionalCheckFailed"
}
