package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/notify"
	"github.com/hafiz/handyman-marketplace/pkg/reviews"
	"github.com/hafiz/handyman-marketplace/pkg/storage/mocks"
)

var (
	customer = identity.Actor{ID: "cust-1", Role: identity.RoleCustomer}
	handyman = identity.Actor{ID: "handy-1", Role: identity.RoleHandyman}
	admin    = identity.Actor{ID: "admin-1", Role: identity.RoleAdmin}
)

func newService(store *mocks.Storage) *Service {
	return NewService(store, notify.NoopSink{}, reviews.StaticChecker{})
}

func projectInStatus(status models.ProjectStatus) *models.Project {
	budget := models.MoneyFromInt(80)
	deposit := models.MoneyFromInt(40)
	return &models.Project{
		Id:            "proj-1",
		CustomerId:    "cust-1",
		HandymanId:    "handy-1",
		Title:         "Tile the bathroom",
		InitialBudget: models.MoneyFromInt(100),
		AgreedBudget:  &budget,
		DepositAmount: &deposit,
		Status:        status,
	}
}

func TestCreate(t *testing.T) {
	t.Run("customer posts a project", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("CreateProject", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
			return p.CustomerId == "cust-1" && p.Status == models.StatusOpen
		})).Return(projectInStatus(models.StatusOpen), nil)

		project, err := newService(mockStorage).Create(context.Background(), customer, CreateRequest{
			Title:         "Tile the bathroom",
			InitialBudget: models.MoneyFromInt(100),
			IsNegotiable:  true,
		})

		assert.Nil(t, err)
		assert.Equal(t, "proj-1", project.Id)
		mockStorage.AssertExpectations(t)
	})

	t.Run("handymen cannot post projects", func(t *testing.T) {
		_, err := newService(&mocks.Storage{}).Create(context.Background(), handyman, CreateRequest{
			Title:         "Tile the bathroom",
			InitialBudget: models.MoneyFromInt(100),
		})
		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})

	t.Run("rejects empty title and non-positive budget", func(t *testing.T) {
		svc := newService(&mocks.Storage{})

		_, err := svc.Create(context.Background(), customer, CreateRequest{InitialBudget: models.MoneyFromInt(100)})
		assert.ErrorIs(t, err, ErrMissingTitle)

		_, err = svc.Create(context.Background(), customer, CreateRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})
}

func TestCancel(t *testing.T) {
	t.Run("customer cancels an open project", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		open := projectInStatus(models.StatusOpen)
		open.HandymanId = ""
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(open, nil)
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusOpen, models.StatusPendingHandymanReview},
			models.StatusCancelled, mock.Anything).
			Return(projectInStatus(models.StatusCancelled), nil)

		project, err := newService(mockStorage).Cancel(context.Background(), customer, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, models.StatusCancelled, project.Status)
	})

	t.Run("only the posting customer may cancel", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusOpen), nil)

		_, err := newService(mockStorage).Cancel(context.Background(), handyman, "proj-1")
		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})
}

func TestMarkComplete(t *testing.T) {
	t.Run("assigned handyman marks work done", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusInProgress}, models.StatusPendingCompletion, mock.Anything).
			Return(projectInStatus(models.StatusPendingCompletion), nil)

		project, err := newService(mockStorage).MarkComplete(context.Background(), handyman, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, models.StatusPendingCompletion, project.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("another handyman cannot mark it", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)

		_, err := newService(mockStorage).MarkComplete(context.Background(),
			identity.Actor{ID: "handy-2", Role: identity.RoleHandyman}, "proj-1")
		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})
}

func TestConfirmCompletion(t *testing.T) {
	t.Run("customer confirms and deposit is released", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		completed := projectInStatus(models.StatusCompleted)
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusPendingCompletion), nil)
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusPendingCompletion}, models.StatusCompleted, mock.Anything).
			Return(completed, nil)
		mockStorage.On("CreatePayoutPair", mock.Anything, completed).Return(nil)

		project, err := newService(mockStorage).ConfirmCompletion(context.Background(), customer, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, models.StatusCompleted, project.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("handyman cannot confirm their own work", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusPendingCompletion), nil)

		_, err := newService(mockStorage).ConfirmCompletion(context.Background(), handyman, "proj-1")

		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
		mockStorage.AssertNotCalled(t, "TransitionProject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockStorage.AssertNotCalled(t, "CreatePayoutPair", mock.Anything, mock.Anything)
	})
}

func TestDispute(t *testing.T) {
	t.Run("either party may dispute a live project", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			models.StatusesAllowing(models.StatusDisputed), models.StatusDisputed, mock.Anything).
			Return(projectInStatus(models.StatusDisputed), nil)

		project, err := newService(mockStorage).Dispute(context.Background(), handyman, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, models.StatusDisputed, project.Status)
	})

	t.Run("strangers cannot dispute", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)

		_, err := newService(mockStorage).Dispute(context.Background(),
			identity.Actor{ID: "stranger", Role: identity.RoleCustomer}, "proj-1")
		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})
}

func TestAdjustment(t *testing.T) {
	t.Run("handyman requests and customer approves a revised budget", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		revised := models.MoneyFromInt(120)

		inProgress := projectInStatus(models.StatusInProgress)
		adjusted := projectInStatus(models.StatusRequiresAdjustment)
		adjusted.AdjustedBudget = &revised

		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(inProgress, nil).Once()
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusInProgress}, models.StatusRequiresAdjustment, mock.Anything).
			Return(adjusted, nil)

		svc := newService(mockStorage)
		project, err := svc.RequestAdjustment(context.Background(), handyman, "proj-1", revised)
		assert.Nil(t, err)
		assert.Equal(t, models.StatusRequiresAdjustment, project.Status)

		resumed := projectInStatus(models.StatusInProgress)
		resumed.AgreedBudget = &revised
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(adjusted, nil).Once()
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusRequiresAdjustment}, models.StatusInProgress, mock.Anything).
			Return(resumed, nil)

		project, err = svc.ApproveAdjustment(context.Background(), customer, "proj-1")
		assert.Nil(t, err)
		assert.Equal(t, "120", project.AgreedBudget.String())
	})
}

func TestRefundDeposit(t *testing.T) {
	t.Run("admin refunds a disputed project", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		disputed := projectInStatus(models.StatusDisputed)
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(disputed, nil)
		mockStorage.On("CreateRefundPair", mock.Anything, disputed).Return(nil)
		mockStorage.On("TransitionProject", mock.Anything, "proj-1",
			[]models.ProjectStatus{models.StatusDisputed}, models.StatusCancelled, mock.Anything).
			Return(projectInStatus(models.StatusCancelled), nil)

		project, err := newService(mockStorage).RefundDeposit(context.Background(), admin, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, models.StatusCancelled, project.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("non-admins cannot refund", func(t *testing.T) {
		_, err := newService(&mocks.Storage{}).RefundDeposit(context.Background(), customer, "proj-1")
		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
	})

	t.Run("refund requires a disputed project", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)

		_, err := newService(mockStorage).RefundDeposit(context.Background(), admin, "proj-1")

		var transitionErr *models.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		mockStorage.AssertNotCalled(t, "CreateRefundPair", mock.Anything, mock.Anything)
	})
}

func TestGet(t *testing.T) {
	t.Run("customer sees the payment prompt label", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusAwaitingPayment), nil)

		view, err := newService(mockStorage).Get(context.Background(), customer, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, "requires_payment", view.DisplayStatus)
	})

	t.Run("handyman sees the canonical status", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusAwaitingPayment), nil)

		view, err := newService(mockStorage).Get(context.Background(), handyman, "proj-1")

		assert.Nil(t, err)
		assert.Equal(t, "awaiting_payment", view.DisplayStatus)
	})

	t.Run("completed project reports whether the actor reviewed it", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusCompleted), nil)

		svc := NewService(mockStorage, notify.NoopSink{}, reviews.StaticChecker{
			Reviewed: map[string]bool{"cust-1/proj-1": true},
		})

		view, err := svc.Get(context.Background(), customer, "proj-1")
		assert.Nil(t, err)
		assert.True(t, view.HasReviewed)
	})
}

func TestTransactions(t *testing.T) {
	entries := []models.Transaction{
		{Id: "tx-c", ProjectId: "proj-1", Type: models.TxTypeDepositPaid},
		{Id: "tx-h", ProjectId: "proj-1", Type: models.TxTypeDepositReceived},
	}

	t.Run("parties see the project ledger", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)
		mockStorage.On("ListTransactionsByProjectID", mock.Anything, "proj-1").Return(entries, nil)

		txns, err := newService(mockStorage).Transactions(context.Background(), handyman, "proj-1")

		assert.Nil(t, err)
		assert.Len(t, txns, 2)
	})

	t.Run("outsiders are rejected before the ledger is read", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusInProgress), nil)

		_, err := newService(mockStorage).Transactions(context.Background(), identity.Actor{ID: "cust-9", Role: identity.RoleCustomer}, "proj-1")

		assert.ErrorIs(t, err, models.ErrUnauthorizedActor)
		mockStorage.AssertNotCalled(t, "ListTransactionsByProjectID", mock.Anything, mock.Anything)
	})

	t.Run("admins may audit any ledger", func(t *testing.T) {
		mockStorage := &mocks.Storage{}
		mockStorage.On("GetProject", mock.Anything, "proj-1").Return(projectInStatus(models.StatusDisputed), nil)
		mockStorage.On("ListTransactionsByProjectID", mock.Anything, "proj-1").Return(entries, nil)

		_, err := newService(mockStorage).Transactions(context.Background(), identity.Actor{ID: "admin-1", Role: identity.RoleAdmin}, "proj-1")

		assert.Nil(t, err)
	})
}
