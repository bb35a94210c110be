package dynamodb

import (
	"context"
	"errors"
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

func testStore(client *mocks.DynamoDBAPI) *Store {
	return &Store{
		Client:            client,
		ProjectsTableName: "projects",
		OffersTableName:   "offers",
		LedgerTableName:   "ledger",
		MessagesTableName: "messages",
	}
}

func TestSubmitOffer(t *testing.T) {
	project := &models.Project{
		Id:            "proj-1",
		CustomerId:    "cust-1",
		Title:         "Fix fence",
		InitialBudget: models.MoneyFromInt(100),
		Status:        models.StatusOpen,
	}
	newOffer := func() *models.Offer {
		return &models.Offer{
			ProjectId:  "proj-1",
			HandymanId: "handy-1",
			Amount:     models.MoneyFromInt(90),
			CreatedBy:  "handy-1",
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		projectAV, _ := attributevalue.MarshalMap(project)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: projectAV}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2 && in.TransactItems[0].Put != nil && in.TransactItems[1].Update != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		offer, err := store.SubmitOffer(context.Background(), newOffer())

		assert.NoError(t, err)
		assert.NotEmpty(t, offer.Id)
		assert.Equal(t, models.OfferPending, offer.Status)
		assert.Equal(t, 1, offer.NegotiationRound)
		assert.Equal(t, "cust-1", offer.CustomerId)
		mockClient.AssertExpectations(t)
	})

	t.Run("Project Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := store.SubmitOffer(context.Background(), newOffer())

		assert.ErrorIs(t, err, storage.ErrProjectNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Project Past Bidding", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		completed := *project
		completed.Status = models.StatusCompleted
		completedAV, _ := attributevalue.MarshalMap(&completed)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: completedAV}, nil).Once()

		_, err := store.SubmitOffer(context.Background(), newOffer())

		var transitionErr *models.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, models.StatusCompleted, transitionErr.Current)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Lost Race Against Concurrent Transition", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		projectAV, _ := attributevalue.MarshalMap(project)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: projectAV}, nil).Once()

		tce := &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, tce).Once()

		// The re-read reveals the project was cancelled underneath us.
		cancelled := *project
		cancelled.Status = models.StatusCancelled
		cancelledAV, _ := attributevalue.MarshalMap(&cancelled)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: cancelledAV}, nil).Once()

		_, err := store.SubmitOffer(context.Background(), newOffer())

		var transitionErr *models.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, models.StatusCancelled, transitionErr.Current)
		mockClient.AssertExpectations(t)
	})

	t.Run("Generic Transaction Failure", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		projectAV, _ := attributevalue.MarshalMap(project)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: projectAV}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		_, err := store.SubmitOffer(context.Background(), newOffer())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute submit-offer transaction")
	})
}
