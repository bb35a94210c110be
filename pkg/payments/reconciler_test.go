package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hafiz/handyman-marketplace/pkg/gateway"
	gatewaymocks "github.com/hafiz/handyman-marketplace/pkg/gateway/mocks"
	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
	"github.com/hafiz/handyman-marketplace/pkg/storage/mocks"
)

func testConfig() Config {
	return Config{
		DepositRatePercent: 50,
		ServiceFee:         models.MoneyFromInt(0),
		BillLifetime:       24 * time.Hour,
	}
}

func agreedProject() *models.Project {
	budget := models.MoneyFromInt(80)
	return &models.Project{
		Id:           "proj-1",
		CustomerId:   "cust-1",
		HandymanId:   "handy-1",
		Title:        "Repaint living room",
		Status:       models.StatusAgreedScheduled,
		AgreedBudget: &budget,
	}
}

func TestInitiateDeposit(t *testing.T) {
	customer := identity.Actor{ID: "cust-1", Role: identity.RoleCustomer}

	t.Run("successfully creates bill and deposit pair", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockGateway := &gatewaymocks.Gateway{}
		project := agreedProject()

		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(project, nil)
		mockGateway.On("CreateBill", mock.Anything, mock.MatchedBy(func(req gateway.BillRequest) bool {
			return req.ProjectId == "proj-1" && req.Amount.Cents() == 4000
		})).Return(&gateway.Bill{BillCode: "bill-1", PaymentURL: "https://pay/bill-1"}, nil)
		mockStorage.On("CreateDepositPair", mock.Anything, project, mock.Anything, "bill-1").
			Return(&models.Transaction{Id: "tx-c"}, &models.Transaction{Id: "tx-h"}, nil)

		r := NewReconciler(mockStorage, mockGateway, notify.NoopSink{}, testConfig())
		bill, err := r.InitiateDeposit(context.Background(), customer, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, "bill-1", bill.BillCode)
		mockStorage.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("gateway failure mutates nothing", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockGateway := &gatewaymocks.Gateway{}

		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(agreedProject(), nil)
		mockGateway.On("CreateBill", mock.Anything, mock.Anything).Return(nil, gateway.ErrGatewayUnavailable)

		r := NewReconciler(mockStorage, mockGateway, notify.NoopSink{}, testConfig())
		_, err := r.InitiateDeposit(context.Background(), customer, "proj-1")

		assert.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
		mockStorage.AssertNotCalled(t, "CreateDepositPair", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only the project's customer may pay", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(agreedProject(), nil)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		_, err := r.InitiateDeposit(context.Background(), identity.Actor{ID: "handy-1", Role: identity.RoleHandyman}, "proj-1")

		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})

	t.Run("rejects project not yet agreed", func(t *testing.T) {
		project := agreedProject()
		project.Status = models.StatusInNegotiation
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(project, nil)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		_, err := r.InitiateDeposit(context.Background(), customer, "proj-1")

		var transitionErr *models.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, models.StatusInNegotiation, transitionErr.Current)
	})

	t.Run("re-bills a project whose previous bill failed", func(t *testing.T) {
		project := agreedProject()
		project.Status = models.StatusAwaitingPayment
		mockStorage := &mocks.Storage{}
		mockGateway := &gatewaymocks.Gateway{}

		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(project, nil)
		mockStorage.On("ListTransactionsByProjectID", mock.Anything, "proj-1").Return([]models.Transaction{
			{Id: "tx-c", Type: models.TxTypeDepositPaid, Status: models.TxFailed, ToyyibPayBillCode: "bill-old"},
			{Id: "tx-h", Type: models.TxTypeDepositReceived, Status: models.TxFailed, ToyyibPayBillCode: "bill-old"},
		}, nil)
		mockGateway.On("CreateBill", mock.Anything, mock.Anything).
			Return(&gateway.Bill{BillCode: "bill-new", PaymentURL: "https://pay/bill-new"}, nil)
		mockStorage.On("CreateDepositPair", mock.Anything, project, mock.Anything, "bill-new").
			Return(&models.Transaction{Id: "tx-c2"}, &models.Transaction{Id: "tx-h2"}, nil)

		r := NewReconciler(mockStorage, mockGateway, notify.NoopSink{}, testConfig())
		bill, err := r.InitiateDeposit(context.Background(), customer, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, "bill-new", bill.BillCode)
		mockStorage.AssertExpectations(t)
		mockGateway.AssertExpectations(t)
	})

	t.Run("rejects re-billing while a bill is still pending", func(t *testing.T) {
		project := agreedProject()
		project.Status = models.StatusAwaitingPayment
		mockStorage := &mocks.Storage{}
		mockGateway := &gatewaymocks.Gateway{}

		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(project, nil)
		mockStorage.On("ListTransactionsByProjectID", mock.Anything, "proj-1").Return([]models.Transaction{
			{Id: "tx-c", Type: models.TxTypeDepositPaid, Status: models.TxPending, ToyyibPayBillCode: "bill-live"},
			{Id: "tx-h", Type: models.TxTypeDepositReceived, Status: models.TxPending, ToyyibPayBillCode: "bill-live"},
		}, nil)

		r := NewReconciler(mockStorage, mockGateway, notify.NoopSink{}, testConfig())
		_, err := r.InitiateDeposit(context.Background(), customer, "proj-1")

		assert.ErrorIs(t, err, ErrDepositInFlight)
		mockGateway.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything)
	})
}

func TestConfirmByBillCode(t *testing.T) {
	t.Run("pending outcome is a no-op", func(t *testing.T) {
		mockStorage := &mocks.Storage{}

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		applied, err := r.ConfirmByBillCode(context.Background(), "bill-1", gateway.BillStatusPending)

		assert.Nil(t, err)
		assert.False(t, applied)
		mockStorage.AssertNotCalled(t, "ConfirmPairByBillCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful payment settles the pair", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-1", models.TxCompleted).Return(true, nil)
		mockStorage.On("ListTransactionsByBillCode", mock.Anything, "bill-1").
			Return([]models.Transaction{{Id: "tx-c", ProjectId: "proj-1"}}, nil)
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(agreedProject(), nil)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		applied, err := r.ConfirmByBillCode(context.Background(), "bill-1", gateway.BillStatusSuccess)

		assert.Nil(t, err)
		assert.True(t, applied)
		mockStorage.AssertExpectations(t)
	})

	t.Run("duplicate settlement is absorbed", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-1", models.TxCompleted).Return(false, nil)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		applied, err := r.ConfirmByBillCode(context.Background(), "bill-1", gateway.BillStatusSuccess)

		assert.Nil(t, err)
		assert.False(t, applied)
	})

	t.Run("pair mismatch surfaces", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-1", models.TxFailed).
			Return(false, storage.ErrLedgerPairMismatch)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		_, err := r.ConfirmByBillCode(context.Background(), "bill-1", gateway.BillStatusFailed)

		assert.ErrorIs(t, err, storage.ErrLedgerPairMismatch)
	})
}

func TestVerifyRedirect(t *testing.T) {
	t.Run("retries gateway then settles", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockGateway := &gatewaymocks.Gateway{}

		mockGateway.On("GetBillStatus", mock.Anything, "bill-1").Return(gateway.BillStatus(""), gateway.ErrGatewayUnavailable).Once()
		mockGateway.On("GetBillStatus", mock.Anything, "bill-1").Return(gateway.BillStatusSuccess, nil).Once()
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-1", models.TxCompleted).Return(true, nil)
		mockStorage.On("ListTransactionsByBillCode", mock.Anything, "bill-1").
			Return([]models.Transaction{{Id: "tx-c", ProjectId: "proj-1"}}, nil)
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(agreedProject(), nil)

		r := NewReconciler(mockStorage, mockGateway, notify.NoopSink{}, testConfig())
		status, err := r.VerifyRedirect(context.Background(), "bill-1")

		assert.Nil(t, err)
		assert.Equal(t, gateway.BillStatusSuccess, status)
		mockGateway.AssertExpectations(t)
	})
}

func TestExpireStaleBills(t *testing.T) {
	t.Run("fails stale pairs and skips poisoned ones", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("ListStalePendingDeposits", mock.Anything, 24*time.Hour).Return([]models.Transaction{
			{Id: "tx-1", ToyyibPayBillCode: "bill-1"},
			{Id: "tx-2", ToyyibPayBillCode: "bill-1"},
			{Id: "tx-3", ToyyibPayBillCode: "bill-2"},
		}, nil)
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-1", models.TxFailed).Return(true, nil)
		mockStorage.On("ConfirmPairByBillCode", mock.Anything, "bill-2", models.TxFailed).
			Return(false, storage.ErrLedgerPairMismatch)

		r := NewReconciler(mockStorage, &gatewaymocks.Gateway{}, notify.NoopSink{}, testConfig())
		expired, err := r.ExpireStaleBills(context.Background())

		assert.Nil(t, err)
		assert.Equal(t, 1, expired)
		mockStorage.AssertExpectations(t)
	})
}
