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

// CreateProject creates a new project record in the open state.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	now := time.Now()
	project.Id = uuid.New().String()
	if project.Status == "" {
		project.Status = models.StatusOpen
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	projectAV, err := attributevalue.MarshalMap(project)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.ProjectsTableName),
		Item:                projectAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("project with ID %s already exists", project.Id)
		}
		return nil, fmt.Errorf("failed to create project in DynamoDB: %w", err)
	}

	return project, nil
}
