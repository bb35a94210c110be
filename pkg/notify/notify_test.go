package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestConversationKey(t *testing.T) {
	t.Run("orders participants deterministically", func(t *testing.T) {
		assert.Equal(t, "cust-1_handy-9", ConversationKey("handy-9", "cust-1"))
		assert.Equal(t, "cust-1_handy-9", ConversationKey("cust-1", "handy-9"))
	})
}

func TestSQSSink(t *testing.T) {
	t.Run("successfully enqueues message", func(t *testing.T) {
		client := &fakeSQS{}
		sink := NewSQSSink(client, "https://sqs.test/queue")

		err := sink.PostSystemMessage(context.Background(), "a_b", "Deposit received", map[string]string{"projectId": "p-1"})
		assert.Nil(t, err)
		assert.Equal(t, "https://sqs.test/queue", *client.input.QueueUrl)

		var msg Message
		err = json.Unmarshal([]byte(*client.input.MessageBody), &msg)
		assert.Nil(t, err)
		assert.Equal(t, "a_b", msg.ConversationKey)
		assert.Equal(t, "Deposit received", msg.Text)
		assert.Equal(t, "p-1", msg.Metadata["projectId"])
		assert.NotEmpty(t, msg.Id)
	})

	t.Run("returns error when SQS fails", func(t *testing.T) {
		client := &fakeSQS{err: errors.New("queue unavailable")}
		sink := NewSQSSink(client, "https://sqs.test/queue")

		err := sink.PostSystemMessage(context.Background(), "a_b", "hello", nil)
		assert.NotNil(t, err)
	})
}
