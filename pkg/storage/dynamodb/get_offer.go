package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// GetOffer retrieves an offer from DynamoDB by its ID.
func (s *Store) GetOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.OffersTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: offerID},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get offer from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrOfferNotFound
	}

	var offer models.Offer
	if err := attributevalue.UnmarshalMap(result.Item, &offer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer: %w", err)
	}

	return &offer, nil
}

// ListOffersByProjectID retrieves every offer on a project.
func (s *Store) ListOffersByProjectID(ctx context.Context, projectID string) ([]models.Offer, error) {
	return s.queryOffers(ctx, offersByProjectGSI, "projectId", projectID)
}

// ListOffersByHandymanID retrieves every offer a handyman has made.
func (s *Store) ListOffersByHandymanID(ctx context.Context, handymanID string) ([]models.Offer, error) {
	return s.queryOffers(ctx, offersByHandymanGSI, "handymanId", handymanID)
}

func (s *Store) queryOffers(ctx context.Context, index, keyAttr, keyValue string) ([]models.Offer, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :v", keyAttr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers by %s: %w", keyAttr, err)
	}

	var offers []models.Offer
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &offers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offers: %w", err)
	}

	return offers, nil
}
