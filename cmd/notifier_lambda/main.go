package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
	dydbstore "github.com/hafiz/handyman-marketplace/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	projectsTable := os.Getenv("DYNAMODB_PROJECTS_TABLE_NAME")
	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	messagesTable := os.Getenv("DYNAMODB_MESSAGES_TABLE_NAME")

	if messagesTable == "" {
		log.Fatal("DYNAMODB_MESSAGES_TABLE_NAME environment variable not set")
	}

	store = dydbstore.New(dbClient, projectsTable, offersTable, ledgerTable, messagesTable)
}

// HandleRequest drains queued notifications into the conversations table.
// The SQS message id doubles as the stored message id, so redeliveries write
// the same record and collapse into a no-op.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var msg notify.Message
		if err := json.Unmarshal([]byte(message.Body), &msg); err != nil {
			log.Printf("ERROR: failed to unmarshal system message from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		record := &models.SystemMessage{
			Id:              message.MessageId,
			ConversationKey: msg.ConversationKey,
			Text:            msg.Text,
			Metadata:        msg.Metadata,
			SentAt:          msg.SentAt,
		}

		if err := store.AppendSystemMessage(ctx, record); err != nil {
			log.Printf("ERROR: failed to append system message %s: %v", message.MessageId, err)
			return err
		}

		log.Printf("Successfully delivered message %s to conversation %s", message.MessageId, msg.ConversationKey)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
