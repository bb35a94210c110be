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

// GetProject retrieves a project from DynamoDB by its ID.
func (s *Store) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.ProjectsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: projectID},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get project from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrProjectNotFound
	}

	var project models.Project
	if err := attributevalue.UnmarshalMap(result.Item, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	return &project, nil
}

// ListProjectsByCustomerID retrieves all projects posted by a customer.
func (s *Store) ListProjectsByCustomerID(ctx context.Context, customerID string) ([]models.Project, error) {
	return s.queryProjects(ctx, projectsByCustomerGSI, "customerId", customerID)
}

// ListProjectsByHandymanID retrieves all projects assigned to a handyman.
func (s *Store) ListProjectsByHandymanID(ctx context.Context, handymanID string) ([]models.Project, error) {
	return s.queryProjects(ctx, projectsByHandymanGSI, "handymanId", handymanID)
}

func (s *Store) queryProjects(ctx context.Context, index, keyAttr, keyValue string) ([]models.Project, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.ProjectsTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :v", keyAttr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by %s: %w", keyAttr, err)
	}

	var projects []models.Project
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &projects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projects: %w", err)
	}

	return projects, nil
}
