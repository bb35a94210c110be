package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hafiz/handyman-marketplace/pkg/storage"
	"github.com/hafiz/handyman-marketplace/pkg/storage/dynamodb/mocks"
)

func TestWithdrawOffer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.AnythingOfType("*dynamodb.UpdateItemInput")).
			Return(&dynamodb.UpdateItemOutput{}, nil).Once()

		err := store.WithdrawOffer(context.Background(), "offer-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Accepted", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{}).Once()

		err := store.WithdrawOffer(context.Background(), "offer-1")

		assert.ErrorIs(t, err, storage.ErrOfferNotPending)
	})

	t.Run("Generic Failure", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := testStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		err := store.WithdrawOffer(context.Background(), "offer-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to withdraw offer")
	})
}
