package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"member-grants-platform/internal/config"
	"member-grants-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*RESTGateway)(nil)

// RESTGateway talks to a hosted-checkout payment provider over JSON.
// The provider issues a transaction reference and a redirect URL on request,
// and answers status queries by reference.
type RESTGateway struct {
	provider   string
	merchantID string
	baseURL    string
	client     *http.Client
}

func NewRESTGateway(cfg *config.PaymentConfig) *RESTGateway {
	return &RESTGateway{
		provider:   cfg.Provider,
		merchantID: cfg.MerchantID,
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *RESTGateway) Name() string { return g.provider }

type requestResponse struct {
	Data struct {
		Code           int    `json:"code"`
		Message        string `json:"message"`
		TransactionRef string `json:"transaction_ref"`
		PaymentURL     string `json:"payment_url"`
	} `json:"data"`
	Errors []interface{} `json:"errors"`
}

type verifyResponse struct {
	Data struct {
		Code           int    `json:"code"`
		Status         string `json:"status"`
		TransactionRef string `json:"transaction_ref"`
		AmountCents    int64  `json:"amount_cents"`
	} `json:"data"`
	Errors []interface{} `json:"errors"`
}

func (g *RESTGateway) post(ctx context.Context, path string, payload map[string]interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	return nil
}

func (g *RESTGateway) RequestPayment(ctx context.Context, amountCents int64, currency, description, callbackURL string) (string, string, error) {
	payload := map[string]interface{}{
		"merchant_id":  g.merchantID,
		"amount_cents": amountCents,
		"currency":     currency,
		"description":  description,
		"callback_url": callbackURL,
	}

	var response requestResponse
	if err := g.post(ctx, "/request.json", payload, &response); err != nil {
		return "", "", err
	}
	if response.Data.Code != 100 {
		return "", "", fmt.Errorf("%s error: code %d, message: %s", g.provider, response.Data.Code, response.Data.Message)
	}
	if len(response.Errors) > 0 {
		errorBytes, _ := json.Marshal(response.Errors)
		return "", "", fmt.Errorf("%s errors: %s", g.provider, string(errorBytes))
	}
	return response.Data.TransactionRef, response.Data.PaymentURL, nil
}

func (g *RESTGateway) VerifyPayment(ctx context.Context, transactionRef string, expectedAmountCents int64) (string, error) {
	payload := map[string]interface{}{
		"merchant_id":     g.merchantID,
		"transaction_ref": transactionRef,
		"amount_cents":    expectedAmountCents,
	}

	var response verifyResponse
	if err := g.post(ctx, "/verify.json", payload, &response); err != nil {
		return "", err
	}
	if len(response.Errors) > 0 {
		errorBytes, _ := json.Marshal(response.Errors)
		return "", fmt.Errorf("%s errors: %s", g.provider, string(errorBytes))
	}
	if response.Data.AmountCents != 0 && response.Data.AmountCents != expectedAmountCents {
		return "", fmt.Errorf("%s: amount mismatch: expected %d got %d", g.provider, expectedAmountCents, response.Data.AmountCents)
	}
	return response.Data.Status, nil
}
