package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses. Mocked in
// tests (see mocks/).
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client            DynamoDBAPI
	ProjectsTableName string
	OffersTableName   string
	LedgerTableName   string
	MessagesTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, projectsTable, offersTable, ledgerTable, messagesTable string) *Store {
	return &Store{
		Client:            client,
		ProjectsTableName: projectsTable,
		OffersTableName:   offersTable,
		LedgerTableName:   ledgerTable,
		MessagesTableName: messagesTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Secondary index names. The camelCase attribute names follow the persisted
// field contract.
const (
	projectsByCustomerGSI = "customerId-index"
	projectsByHandymanGSI = "handymanId-index"
	offersByProjectGSI    = "projectId-index"
	offersByHandymanGSI   = "handymanId-index"
	ledgerByProjectGSI    = "projectId-index"
	ledgerByBillCodeGSI   = "toyyibPayBillCode-index"
	ledgerByStatusGSI     = "status-createdAt-index"
)
