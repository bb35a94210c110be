package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/payments"
	dydbstore "github.com/hafiz/handyman-marketplace/pkg/storage/dynamodb"
)

var reconciler *payments.Reconciler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	sqsClient := sqs.NewFromConfig(cfg)

	sqsQueueURL := os.Getenv("SQS_NOTIFICATIONS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_NOTIFICATIONS_QUEUE_URL environment variable not set")
	}
	sink := notify.NewSQSSink(sqsClient, sqsQueueURL)

	projectsTable := os.Getenv("DYNAMODB_PROJECTS_TABLE_NAME")
	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	messagesTable := os.Getenv("DYNAMODB_MESSAGES_TABLE_NAME")
	store := dydbstore.New(dbClient, projectsTable, offersTable, ledgerTable, messagesTable)

	billLifetimeHours, err := strconv.ParseInt(envOr("BILL_LIFETIME_HOURS", "24"), 10, 64)
	if err != nil {
		log.Fatalf("invalid BILL_LIFETIME_HOURS: %v", err)
	}

	// The sweep never talks to the gateway; a bill that has not confirmed
	// within the lifetime is failed outright.
	reconciler = payments.NewReconciler(store, nil, sink, payments.Config{
		DepositRatePercent: 50,
		ServiceFee:         models.MoneyFromInt(0),
		BillLifetime:       time.Duration(billLifetimeHours) * time.Hour,
	})
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting expiry sweep for stale deposit bills...")

	expired, err := reconciler.ExpireStaleBills(ctx)
	if err != nil {
		log.Printf("ERROR: expiry sweep failed: %v", err)
		return err
	}

	log.Printf("Expiry sweep finished. Expired %d bills.", expired)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
