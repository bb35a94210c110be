package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// AppendSystemMessage durably stores one conversation message. The message ID
// carries over from the queue, so a redelivered record is dropped here instead
// of duplicating the message.
func (s *Store) AppendSystemMessage(ctx context.Context, msg *models.SystemMessage) error {
	msgAV, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal system message: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.MessagesTableName),
		Item:                msgAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil
		}
		return fmt.Errorf("failed to store system message: %w", err)
	}

	return nil
}
