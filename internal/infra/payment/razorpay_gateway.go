package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"premium-gallery/internal/domain/ports/adapter"
)

// RazorpayDirectGateway implements RazorpayGateway using direct HTTP calls
// against the Razorpay REST API with basic auth.
type RazorpayDirectGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayDirectGateway creates a new direct Razorpay gateway.
func NewRazorpayDirectGateway(keyID, keySecret string) *RazorpayDirectGateway {
	return &RazorpayDirectGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   "https://api.razorpay.com/v1",
		client:    &http.Client{},
	}
}

type razorpayOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"` // auto capture
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements RazorpayGateway.CreateOrder.
func (g *RazorpayDirectGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*adapter.RazorpayOrder, error) {
	jsonData, err := json.Marshal(razorpayOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp razorpayErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("razorpay error: status %d, code %s, description: %s",
			resp.StatusCode, errResp.Error.Code, errResp.Error.Description)
	}

	var order adapter.RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	return &order, nil
}

// FetchPayment implements RazorpayGateway.FetchPayment. The returned record
// is the provider's source of truth for capture status and amount.
func (g *RazorpayDirectGateway) FetchPayment(ctx context.Context, paymentID string) (*adapter.RazorpayPayment, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp razorpayErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("razorpay error: status %d, code %s, description: %s",
			resp.StatusCode, errResp.Error.Code, errResp.Error.Description)
	}

	var p adapter.RazorpayPayment
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	return &p, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the
// key secret and compares it to the submitted signature in constant time.
func (g *RazorpayDirectGateway) VerifySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(g.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

var _ adapter.RazorpayGateway = (*RazorpayDirectGateway)(nil)
