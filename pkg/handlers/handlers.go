package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hafiz/handyman-marketplace/pkg/gateway"
	"github.com/hafiz/handyman-marketplace/pkg/identity"
	"github.com/hafiz/handyman-marketplace/pkg/models"
	"github.com/hafiz/handyman-marketplace/pkg/offers"
	"github.com/hafiz/handyman-marketplace/pkg/payments"
	"github.com/hafiz/handyman-marketplace/pkg/projects"
	"github.com/hafiz/handyman-marketplace/pkg/storage"
)

// ApiHandler exposes the marketplace over HTTP.
// It holds our application's dependencies, including the service layer.
type ApiHandler struct {
	Projects *projects.Service
	Offers   *offers.Engine
	Payments *payments.Reconciler
	Identity identity.Resolver
}

// NewApiHandler creates a new ApiHandler with its service dependencies.
func NewApiHandler(projectsSvc *projects.Service, offersEngine *offers.Engine, reconciler *payments.Reconciler, resolver identity.Resolver) *ApiHandler {
	return &ApiHandler{
		Projects: projectsSvc,
		Offers:   offersEngine,
		Payments: reconciler,
		Identity: resolver,
	}
}

// Routes mounts every handler on a chi router.
func (h *ApiHandler) Routes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.CreateProject)
		r.Get("/", h.ListProjects)
		r.Route("/{projectId}", func(r chi.Router) {
			r.Get("/", h.GetProject)
			r.Post("/cancel", h.CancelProject)
			r.Post("/complete", h.MarkProjectComplete)
			r.Post("/confirm", h.ConfirmProjectCompletion)
			r.Post("/dispute", h.DisputeProject)
			r.Post("/adjustment", h.RequestAdjustment)
			r.Post("/adjustment/approve", h.ApproveAdjustment)
			r.Post("/refund", h.RefundDeposit)
			r.Get("/offers", h.ListProjectOffers)
			r.Get("/negotiations", h.GetNegotiationHistory)
			r.Get("/transactions", h.ListProjectTransactions)
			r.Post("/deposit", h.InitiateDeposit)
			r.Post("/deposit/processing", h.MarkDepositProcessing)
		})
	})

	r.Route("/offers", func(r chi.Router) {
		r.Post("/", h.SubmitOffer)
		r.Route("/{offerId}", func(r chi.Router) {
			r.Get("/", h.GetOffer)
			r.Post("/counter", h.CounterOffer)
			r.Post("/accept", h.AcceptOffer)
			r.Post("/reject", h.RejectOffer)
			r.Post("/withdraw", h.WithdrawOffer)
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/return", h.PaymentReturn)
		r.Post("/callback", h.PaymentCallback)
	})
}

// CreateProject handles the logic for posting a new project.
func (h *ApiHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req projects.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	project, err := h.Projects.Create(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// ListProjects returns the calling actor's projects.
func (h *ApiHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	views, err := h.Projects.ListForActor(r.Context(), actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetProject returns one project decorated for the calling actor.
func (h *ApiHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	view, err := h.Projects.Get(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ApiHandler) CancelProject(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.Cancel)
}

func (h *ApiHandler) MarkProjectComplete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.MarkComplete)
}

func (h *ApiHandler) ConfirmProjectCompletion(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.ConfirmCompletion)
}

func (h *ApiHandler) DisputeProject(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.Dispute)
}

func (h *ApiHandler) ApproveAdjustment(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.ApproveAdjustment)
}

func (h *ApiHandler) RefundDeposit(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.Projects.RefundDeposit)
}

// RequestAdjustment handles a handyman's mid-job budget revision.
func (h *ApiHandler) RequestAdjustment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount models.Money `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	project, err := h.Projects.RequestAdjustment(r.Context(), actor, chi.URLParam(r, "projectId"), req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// SubmitOffer handles a handyman's first-round offer.
func (h *ApiHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req offers.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	offer, err := h.Offers.Submit(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// GetOffer returns a single offer to one of its parties.
func (h *ApiHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	offer, err := h.Offers.Get(r.Context(), actor, chi.URLParam(r, "offerId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// CounterOffer handles the next negotiation round on an existing offer.
func (h *ApiHandler) CounterOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req offers.CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	counter, err := h.Offers.Counter(r.Context(), actor, chi.URLParam(r, "offerId"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, counter)
}

// AcceptOffer locks in an offer and schedules the project.
func (h *ApiHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	accepted, err := h.Offers.Accept(r.Context(), actor, chi.URLParam(r, "offerId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accepted)
}

// RejectOffer declines an offer with an optional reason.
func (h *ApiHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	// An empty body is fine; the reason is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.Offers.Reject(r.Context(), actor, chi.URLParam(r, "offerId"), req.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WithdrawOffer retracts a handyman's pending offer.
func (h *ApiHandler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.Offers.Withdraw(r.Context(), actor, chi.URLParam(r, "offerId")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProjectOffers returns every offer on a project, all rounds included.
func (h *ApiHandler) ListProjectOffers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	projectOffers, err := h.Offers.ListForProject(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectOffers)
}

// GetNegotiationHistory returns the reconstructed negotiation chains.
func (h *ApiHandler) GetNegotiationHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	chains, err := h.Offers.History(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chains)
}

// ListProjectTransactions returns the project's ledger entries.
func (h *ApiHandler) ListProjectTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	txns, err := h.Projects.Transactions(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

// InitiateDeposit creates the gateway bill and pending ledger pair, returning
// the payment URL the customer is sent to.
func (h *ApiHandler) InitiateDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	bill, err := h.Payments.InitiateDeposit(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"billCode":   bill.BillCode,
		"paymentUrl": bill.PaymentURL,
	})
}

// MarkDepositProcessing records the hand-off to the payment page.
func (h *ApiHandler) MarkDepositProcessing(w http.ResponseWriter, r *http.Request) {
	if err := h.Payments.MarkProcessing(r.Context(), chi.URLParam(r, "projectId")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PaymentReturn handles the customer landing back from the gateway. The bill's
// real outcome is verified against the provider, never trusted from the URL.
func (h *ApiHandler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	billCode := r.URL.Query().Get("billcode")
	if billCode == "" {
		http.Error(w, "Missing billcode", http.StatusBadRequest)
		return
	}

	status, err := h.Payments.VerifyRedirect(r.Context(), billCode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"billCode": billCode,
		"status":   string(status),
	})
}

// PaymentCallback handles the asynchronous gateway notification. Settlement
// is idempotent, so redelivered callbacks collapse to a no-op.
func (h *ApiHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid callback form: %v", err), http.StatusBadRequest)
		return
	}

	cb, err := gateway.ParseCallback(r.PostForm)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid callback: %v", err), http.StatusBadRequest)
		return
	}

	if _, err := h.Payments.ConfirmByBillCode(r.Context(), cb.BillCode, cb.Status); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// lifecycle wraps the one-argument project transitions that share a shape.
func (h *ApiHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor identity.Actor, projectID string) (*models.Project, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	project, err := op(r.Context(), actor, chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ApiHandler) actor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, err := h.Identity.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return identity.Actor{}, false
	}
	return actor, true
}

// writeError maps domain errors onto HTTP status codes.
func (h *ApiHandler) writeError(w http.ResponseWriter, err error) {
	var transitionErr *models.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		http.Error(w, transitionErr.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrUnauthorizedActor):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, storage.ErrProjectNotFound),
		errors.Is(err, storage.ErrOfferNotFound),
		errors.Is(err, storage.ErrTransactionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrOfferNotPending),
		errors.Is(err, storage.ErrOfferAlreadyCountered),
		errors.Is(err, storage.ErrConcurrentUpdate),
		errors.Is(err, payments.ErrDepositInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, offers.ErrInvalidAmount),
		errors.Is(err, projects.ErrMissingTitle),
		errors.Is(err, projects.ErrInvalidBudget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gateway.ErrGatewayUnavailable):
		http.Error(w, "Payment gateway unavailable, try again shortly", http.StatusBadGateway)
	case errors.Is(err, storage.ErrLedgerPairMismatch):
		http.Error(w, "Ledger inconsistency detected", http.StatusInternalServerError)
	default:
		http.Error(w, fmt.Sprintf("Internal error: %v", err), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
