package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
)

// SQSAPI is the subset of the SQS client the sink uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink implements Sink by queueing messages for the notifier worker.
type SQSSink struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSSink creates a new SQSSink.
func NewSQSSink(client SQSAPI, queueURL string) *SQSSink {
	return &SQSSink{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Sink = (*SQSSink)(nil)

// PostSystemMessage enqueues the message. The worker draining the queue owns
// the durable write into the conversation store.
func (s *SQSSink) PostSystemMessage(ctx context.Context, conversationKey, text string, metadata map[string]string) error {
	msg := Message{
		Id:              uuid.New().String(),
		ConversationKey: conversationKey,
		Text:            text,
		Metadata:        metadata,
		SentAt:          time.Now(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal system message for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send system message to SQS: %w", err)
	}

	return nil
}
