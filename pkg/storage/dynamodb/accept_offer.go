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
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// acceptablePreStates are the project statuses an acceptance is legal from.
var acceptablePreStates = []models.ProjectStatus{
	models.StatusHasOffers,
	models.StatusInNegotiation,
	models.StatusPendingCustomerAcceptance,
}

// AcceptOffer performs the critical all-or-nothing batch of the negotiation
// protocol: accept the target offer, cascade rejection to every other
// still-pending offer on the project, and move the project to agreed_scheduled
// stamping handymanId, agreedBudget and acceptedOfferId. Every item carries a
// conditional check, so two racing accepts (or an accept racing a withdrawal)
// resolve to exactly one winner and a clean typed failure for the loser.
func (s *Store) AcceptOffer(ctx context.Context, offerID, projectID string) (*models.Offer, error) {
	offer, err := s.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offer for acceptance: %w", err)
	}
	if offer.ProjectId != projectID {
		return nil, fmt.Errorf("offer %s does not belong to project %s", offerID, projectID)
	}
	if offer.Status != models.OfferPending {
		return nil, storage.ErrOfferNotPending
	}

	siblings, err := s.ListOffersByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling offers: %w", err)
	}

	now := time.Now()
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(s.OffersTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: offerID}},
				UpdateExpression:    aws.String("SET #status = :accepted, updatedAt = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":accepted": &types.AttributeValueMemberS{Value: string(models.OfferAccepted)},
					":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":now":      timeAV(now),
				},
			},
		},
	}

	for _, sib := range siblings {
		if sib.Id == offerID || sib.Status != models.OfferPending {
			continue
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.OffersTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: sib.Id}},
				UpdateExpression:    aws.String("SET #status = :rejected, rejectionReason = :reason, updatedAt = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":rejected": &types.AttributeValueMemberS{Value: string(models.OfferRejected)},
					":reason":   &types.AttributeValueMemberS{Value: models.RejectionReasonSuperseded},
					":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":now":      timeAV(now),
				},
			},
		})
	}

	amountAV, err := attributevalue.Marshal(offer.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agreed budget: %w", err)
	}

	fromPlaceholders := make([]string, len(acceptablePreStates))
	projectValues := map[string]types.AttributeValue{
		":agreed":       &types.AttributeValueMemberS{Value: string(models.StatusAgreedScheduled)},
		":handymanId":   &types.AttributeValueMemberS{Value: offer.HandymanId},
		":agreedBudget": amountAV,
		":offerId":      &types.AttributeValueMemberS{Value: offerID},
		":now":          timeAV(now),
	}
	for i, st := range acceptablePreStates {
		p := fmt.Sprintf(":from%d", i)
		fromPlaceholders[i] = p
		projectValues[p] = &types.AttributeValueMemberS{Value: string(st)}
	}

	projectUpdateIdx := len(items)
	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.ProjectsTableName),
			Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: projectID}},
			UpdateExpression: aws.String(
				"SET #status = :agreed, handymanId = :handymanId, agreedBudget = :agreedBudget, acceptedOfferId = :offerId, acceptedAt = :now, updatedAt = :now"),
			ConditionExpression: aws.String(fmt.Sprintf("#status IN (%s)", joinPlaceholders(fromPlaceholders))),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: projectValues,
		},
	})

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			switch {
			case conditionFailedAt(tce, 0):
				// The target offer itself left pending first.
				return nil, storage.ErrOfferNotPending
			case conditionFailedAt(tce, projectUpdateIdx):
				return nil, s.explainTransitionFailure(ctx, projectID, models.StatusAgreedScheduled)
			default:
				// A sibling mutated between the read and the commit.
				return nil, storage.ErrConcurrentUpdate
			}
		}
		return nil, fmt.Errorf("failed to execute accept-offer transaction: %w", err)
	}

	offer.Status = models.OfferAccepted
	offer.UpdatedAt = now
	return offer, nil
}

func joinPlaceholders(ps []string) string {
	out := ""
	for i, p := range ps {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
