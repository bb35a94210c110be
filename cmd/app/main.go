package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/hafiz/handyman-marketplace/pkg/gateway"
	"github.com/hafiz/handyman-marketplace/pkg/handlers"
	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/middleware"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/offers"
	"github.com/hafiz/handyman-marketplace/pkg/payments"
	"github.com/hafiz/handyman-marketplace/pkg/projects"
	"github.com/hafiz/handyman-marketplace/pkg/reviews"
	dydbstore "github.com/hafiz/handyman-marketplace/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	projectsTable := os.Getenv("DYNAMODB_PROJECTS_TABLE_NAME")
	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	messagesTable := os.Getenv("DYNAMODB_MESSAGES_TABLE_NAME")

	if projectsTable == "" || offersTable == "" || ledgerTable == "" || messagesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	// SQS Client and notification sink
	sqsClient := sqs.NewFromConfig(cfg)
	sqsQueueURL := os.Getenv("SQS_NOTIFICATIONS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_NOTIFICATIONS_QUEUE_URL environment variable not set")
	}
	sink := notify.NewSQSSink(sqsClient, sqsQueueURL)

	// Create our storage implementation
	store := dydbstore.New(dbClient, projectsTable, offersTable, ledgerTable, messagesTable)

	// Payment gateway
	toyyibpay := gateway.NewToyyibPayClient(
		os.Getenv("TOYYIBPAY_BASE_URL"),
		os.Getenv("TOYYIBPAY_SECRET_KEY"),
		os.Getenv("TOYYIBPAY_CATEGORY_CODE"),
		os.Getenv("PAYMENT_RETURN_URL"),
		os.Getenv("PAYMENT_CALLBACK_URL"),
	)

	serviceFee, err := models.MoneyFromString(envOr("DEPOSIT_SERVICE_FEE", "0"))
	if err != nil {
		log.Fatalf("invalid DEPOSIT_SERVICE_FEE: %v", err)
	}
	depositRate, err := strconv.ParseInt(envOr("DEPOSIT_RATE_PERCENT", "50"), 10, 64)
	if err != nil {
		log.Fatalf("invalid DEPOSIT_RATE_PERCENT: %v", err)
	}
	billLifetimeHours, err := strconv.ParseInt(envOr("BILL_LIFETIME_HOURS", "24"), 10, 64)
	if err != nil {
		log.Fatalf("invalid BILL_LIFETIME_HOURS: %v", err)
	}
	reconciler := payments.NewReconciler(store, toyyibpay, sink, payments.Config{
		DepositRatePercent: depositRate,
		ServiceFee:         serviceFee,
		BillLifetime:       time.Duration(billLifetimeHours) * time.Hour,
	})

	// Create our handler
	handler := handlers.NewApiHandler(
		projects.NewService(store, sink, reviews.StaticChecker{}),
		offers.NewEngine(store, sink),
		reconciler,
		identity.HeaderResolver{},
	)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(slog.Default()))
	handler.Routes(router)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
