package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
	"github.com/hafiz/handyman-marketplace/pkg/storage/dynamodb/mocks"
)

func ledgerPair(status models.TransactionStatus) (models.Transaction, models.Transaction) {
	customerTx := models.Transaction{
		Id:                "tx-c",
		ProjectId:         "proj-1",
		UserId:            "cust-1",
		OtherPartyId:      "handy-1",
		Type:              models.TxTypeDepositPaid,
		Amount:            models.MoneyFromInt(40),
		Status:            status,
		ToyyibPayBillCode: "bill-1",
	}
	handymanTx := models.Transaction{
		Id:                "tx-h",
		ProjectId:         "proj-1",
		UserId:            "handy-1",
		OtherPartyId:      "cust-1",
		Type:              models.TxTypeDepositReceived,
		Amount:            models.MoneyFromInt(40),
		Status:            status,
		ToyyibPayBillCode: "bill-1",
	}
	return customerTx, handymanTx
}

func pairQueryOutput(txns ...models.Transaction) *dynamodb.QueryOutput {
	items := make([]map[string]types.AttributeValue, len(txns))
	for i := range txns {
		items[i], _ = attributevalue.MarshalMap(&txns[i])
	}
	return &dynamodb.QueryOutput{Items: items}
}

func TestConfirmPairByIDs(t *testing.T) {
	t.Run("Completed Settles Pair And Starts Work", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		// Both legs plus the project move in one batch.
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := store.ConfirmPairByIDs(context.Background(), "tx-c", "tx-h", "proj-1", models.TxCompleted)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failed Settles Pair Then Reopens Payment", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		reopened := models.Project{Id: "proj-1", Status: models.StatusAwaitingPayment}
		reopenedAV, _ := attributevalue.MarshalMap(&reopened)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(&dynamodb.UpdateItemOutput{Attributes: reopenedAV}, nil).Once()

		err := store.ConfirmPairByIDs(context.Background(), "tx-c", "tx-h", "proj-1", models.TxFailed)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failed Tolerates Project Already Moved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{}).Once()

		cancelled := models.Project{Id: "proj-1", Status: models.StatusCancelled}
		cancelledAV, _ := attributevalue.MarshalMap(&cancelled)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: cancelledAV}, nil).Once()

		err := store.ConfirmPairByIDs(context.Background(), "tx-c", "tx-h", "proj-1", models.TxFailed)

		assert.NoError(t, err)
	})

	t.Run("Rejects Non-Terminal Outcome", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		err := store.ConfirmPairByIDs(context.Background(), "tx-c", "tx-h", "proj-1", models.TxPending)

		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Already Settled Leg Surfaces As Concurrent Update", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		tce := &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
			{Code: aws.String("None")},
		}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, tce).Once()

		err := store.ConfirmPairByIDs(context.Background(), "tx-c", "tx-h", "proj-1", models.TxCompleted)

		assert.ErrorIs(t, err, storage.ErrConcurrentUpdate)
	})
}

func TestConfirmPairByBillCode(t *testing.T) {
	t.Run("Settles A Pending Pair", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		customerTx, handymanTx := ledgerPair(models.TxPending)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(customerTx, handymanTx), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 3
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		applied, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.NoError(t, err)
		assert.True(t, applied)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Callback Is A No-Op", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		customerTx, handymanTx := ledgerPair(models.TxCompleted)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(customerTx, handymanTx), nil).Once()

		applied, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.NoError(t, err)
		assert.False(t, applied)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Racing Duplicate Collapses To A No-Op", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		// First read sees a pending pair, but a concurrent callback wins the
		// write. The re-read shows both legs already at the requested outcome.
		pendingC, pendingH := ledgerPair(models.TxPending)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(pendingC, pendingH), nil).Once()

		tce := &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
			{Code: aws.String("None")},
		}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, tce).Once()

		settledC, settledH := ledgerPair(models.TxCompleted)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(settledC, settledH), nil).Once()

		applied, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.NoError(t, err)
		assert.False(t, applied)
		mockClient.AssertExpectations(t)
	})

	t.Run("Racing Loser With Different Outcome Still Errors", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		pendingC, pendingH := ledgerPair(models.TxPending)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(pendingC, pendingH), nil).Once()

		tce := &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, tce).Once()

		settledC, settledH := ledgerPair(models.TxCompleted)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(settledC, settledH), nil).Once()

		_, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxFailed)

		assert.ErrorIs(t, err, storage.ErrConcurrentUpdate)
	})

	t.Run("Single Entry Is A Fatal Mismatch", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		customerTx, _ := ledgerPair(models.TxPending)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(customerTx), nil).Once()

		_, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.ErrorIs(t, err, storage.ErrLedgerPairMismatch)
	})

	t.Run("Half-Settled Pair Is A Fatal Mismatch", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		customerTx, handymanTx := ledgerPair(models.TxPending)
		handymanTx.Status = models.TxCompleted
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(customerTx, handymanTx), nil).Once()

		_, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.ErrorIs(t, err, storage.ErrLedgerPairMismatch)
	})

	t.Run("Legs Settled To Different Outcomes Is A Fatal Mismatch", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		customerTx, handymanTx := ledgerPair(models.TxCompleted)
		handymanTx.Status = models.TxFailed
		mockClient.On("Query", mock.Anything, mock.Anything).Return(pairQueryOutput(customerTx, handymanTx), nil).Once()

		_, err := store.ConfirmPairByBillCode(context.Background(), "bill-1", models.TxCompleted)

		assert.ErrorIs(t, err, storage.ErrLedgerPairMismatch)
	})
}
