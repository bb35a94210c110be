package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	statusCodeSuccess = "1"
	statusCodePending = "2"
	statusCodeFailed  = "3"
)

// ToyyibPayClient talks to the ToyyibPay REST API. All endpoints are form
// POSTs that answer with JSON arrays.
type ToyyibPayClient struct {
	HTTPClient   *http.Client
	BaseURL      string
	SecretKey    string
	CategoryCode string
	ReturnURL    string
	CallbackURL  string
}

// NewToyyibPayClient creates a client against the given base URL, e.g.
// https://toyyibpay.com or the dev sandbox.
func NewToyyibPayClient(baseURL, secretKey, categoryCode, returnURL, callbackURL string) *ToyyibPayClient {
	return &ToyyibPayClient{
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		BaseURL:      strings.TrimRight(baseURL, "/"),
		SecretKey:    secretKey,
		CategoryCode: categoryCode,
		ReturnURL:    returnURL,
		CallbackURL:  callbackURL,
	}
}

// Make sure we conform to the interface
var _ Gateway = (*ToyyibPayClient)(nil)

type createBillResponse struct {
	BillCode string `json:"BillCode"`
}

// CreateBill issues a new bill for the deposit amount. Amounts are sent in
// cents per the provider contract.
func (c *ToyyibPayClient) CreateBill(ctx context.Context, req BillRequest) (*Bill, error) {
	form := url.Values{}
	form.Set("userSecretKey", c.SecretKey)
	form.Set("categoryCode", c.CategoryCode)
	form.Set("billName", req.Title)
	form.Set("billDescription", req.Description)
	form.Set("billPriceSetting", "1")
	form.Set("billPayorInfo", "1")
	form.Set("billAmount", fmt.Sprintf("%d", req.Amount.Cents()))
	form.Set("billReturnUrl", c.ReturnURL)
	form.Set("billCallbackUrl", c.CallbackURL)
	form.Set("billExternalReferenceNo", req.ProjectId)
	form.Set("billTo", req.PayerName)
	form.Set("billEmail", req.PayerEmail)
	form.Set("billPhone", req.PayerPhone)

	var bills []createBillResponse
	if err := c.postForm(ctx, "/index.php/api/createBill", form, &bills); err != nil {
		return nil, err
	}
	if len(bills) == 0 || bills[0].BillCode == "" {
		slog.Error("Gateway returned no bill code", "projectId", req.ProjectId)
		return nil, fmt.Errorf("%w: empty createBill response", ErrGatewayUnavailable)
	}

	code := bills[0].BillCode
	return &Bill{
		BillCode:   code,
		PaymentURL: c.BaseURL + "/" + code,
	}, nil
}

type billTransaction struct {
	BillPaymentStatus string `json:"billpaymentStatus"`
}

// GetBillStatus polls the provider for the bill's payment outcome. A bill
// with no transactions yet is reported as pending.
func (c *ToyyibPayClient) GetBillStatus(ctx context.Context, billCode string) (BillStatus, error) {
	form := url.Values{}
	form.Set("userSecretKey", c.SecretKey)
	form.Set("billCode", billCode)

	var txns []billTransaction
	if err := c.postForm(ctx, "/index.php/api/getBillTransactions", form, &txns); err != nil {
		return "", err
	}
	if len(txns) == 0 {
		return BillStatusPending, nil
	}

	// The latest attempt decides. Any successful attempt wins outright.
	latest := txns[len(txns)-1].BillPaymentStatus
	for _, tx := range txns {
		if tx.BillPaymentStatus == statusCodeSuccess {
			return BillStatusSuccess, nil
		}
	}
	switch latest {
	case statusCodePending:
		return BillStatusPending, nil
	case statusCodeFailed:
		return BillStatusFailed, nil
	default:
		slog.Warn("Unknown bill payment status from gateway", "billCode", billCode, "status", latest)
		return BillStatusPending, nil
	}
}

func (c *ToyyibPayClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrGatewayUnavailable, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", ErrGatewayUnavailable, path, err)
	}
	return nil
}

// ParseCallback decodes the async notification form ToyyibPay posts after a
// payment attempt. status_id 1 is success, 2 pending, 3 failed.
func ParseCallback(form url.Values) (*Callback, error) {
	billCode := form.Get("billcode")
	if billCode == "" {
		return nil, fmt.Errorf("callback missing billcode")
	}

	var status BillStatus
	switch form.Get("status_id") {
	case statusCodeSuccess:
		status = BillStatusSuccess
	case statusCodePending:
		status = BillStatusPending
	case statusCodeFailed:
		status = BillStatusFailed
	default:
		return nil, fmt.Errorf("callback has unknown status_id %q", form.Get("status_id"))
	}

	return &Callback{
		BillCode:      billCode,
		Status:        status,
		OrderId:       form.Get("order_id"),
		TransactionId: form.Get("transaction_id"),
	}, nil
}
