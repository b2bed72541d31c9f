// Package payments talks to the payment provider. Client speaks the provider's REST API;
// Sandbox is an in-process stand-in for local runs and tests.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"compliance/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultBaseURL = "https://api.razorpay.com/v1"
	DefaultTimeout = 10 * time.Second

	maxRetries = 3
)

var _ ports.PaymentProvider = &Client{}

// Client is a PaymentProvider backed by the provider's REST API. Every call is bounded by the
// client timeout; timeouts, 429 and 5xx responses are retried with exponential backoff. All
// failures wrap ports.ErrProviderUnavailable.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

func NewClient(cfg ClientConfig, httpClient *http.Client) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("payment provider key id and secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		httpClient: httpClient,
		logger:     slog.Default().With("component", "payment-provider"),
	}, nil
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (p paymentResponse) toPort() ports.ProviderPayment {
	return ports.ProviderPayment{ID: p.ID, OrderID: p.OrderID, Amount: p.Amount, Currency: p.Currency, Status: p.Status}
}

func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (ports.ProviderOrder, error) {
	body, err := json.Marshal(orderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return ports.ProviderOrder{}, fmt.Errorf("encode order request: %w", err)
	}

	var resp orderResponse
	if err = c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return ports.ProviderOrder{}, err
	}
	return ports.ProviderOrder{
		ID:       resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Receipt:  resp.Receipt,
		Status:   resp.Status,
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (ports.ProviderPayment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, &resp); err != nil {
		return ports.ProviderPayment{}, err
	}
	return resp.toPort(), nil
}

func (c *Client) FetchOrderPayments(ctx context.Context, providerOrderID string) ([]ports.ProviderPayment, error) {
	var resp struct {
		Items []paymentResponse `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(providerOrderID)+"/payments", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]ports.ProviderPayment, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, item.toPort())
	}
	return out, nil
}

func (c *Client) VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool {
	return verify(c.keySecret, []byte(providerOrderID+"|"+paymentID), signature)
}

func (c *Client) PublicKey() string {
	return c.keyID
}

// do performs one API call with retries and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = 200 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, maxRetries), ctx)

	operation := func() error {
		return c.attempt(ctx, method, path, body, out)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("payment provider call failed, retrying", "method", method, "path", path, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ports.ErrProviderUnavailable, method, path, err)
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("provider returned %s", resp.Status)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return backoff.Permanent(fmt.Errorf("provider returned %s: %s", resp.Status, bytes.TrimSpace(msg)))
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
