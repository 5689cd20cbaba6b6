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
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// GatewayError signals a failed interaction with the external payment
// processor. It is never retried by the adapter; the caller decides.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %v", e.Err)
	}
	return fmt.Sprintf("payment gateway: status %d: %s", e.Status, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Client exposes the two operations the workflow needs from the processor.
type Client interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receiptRef string) (*model.PaymentIntent, error)
	VerifyConfirmation(confirmation model.PaymentConfirmation) (valid bool, transactionRef string)
}

// HTTPClient implements Client via the processor's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	keyID      string
	keySecret  []byte
	httpClient *http.Client
	logger     *slog.Logger
}

type intentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// intentResponse mirrors the JSON payload of the processor's order-creation API.
type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// NewHTTPClient creates a gateway client with the given request timeout.
func NewHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: []byte(keySecret),
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateIntent registers a checkout attempt with the processor and returns
// its opaque order id. Timeouts surface as GatewayError, not as an outcome.
func (c *HTTPClient) CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receiptRef string) (*model.PaymentIntent, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/orders")

	payload, err := json.Marshal(intentRequest{Amount: amountMinorUnits, Currency: currency, Receipt: receiptRef})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, string(c.keySecret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &GatewayError{Err: err}
		}
		var data intentResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, &GatewayError{Err: err}
		}
		if data.ID == "" {
			return nil, &GatewayError{Status: resp.StatusCode, Message: "gateway returned empty order id"}
		}
		return &model.PaymentIntent{
			GatewayOrderID: data.ID,
			Amount:         amountMinorUnits,
			Currency:       currency,
			ReceiptRef:     receiptRef,
		}, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("payment intent request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, &GatewayError{Status: resp.StatusCode, Message: string(body)}
	}
}

// VerifyConfirmation recomputes the HMAC-SHA256 signature over
// gatewayOrderID|paymentID and compares it against the client-supplied one.
// A mismatch is a rejection, never an error: the client cannot be trusted
// to self-report payment success.
func (c *HTTPClient) VerifyConfirmation(confirmation model.PaymentConfirmation) (bool, string) {
	if confirmation.GatewayOrderID == "" || confirmation.PaymentID == "" || confirmation.Signature == "" {
		return false, ""
	}

	mac := hmac.New(sha256.New, c.keySecret)
	mac.Write([]byte(confirmation.GatewayOrderID + "|" + confirmation.PaymentID))
	expected := mac.Sum(nil)

	supplied, err := hex.DecodeString(confirmation.Signature)
	if err != nil {
		return false, ""
	}
	if !hmac.Equal(expected, supplied) {
		return false, ""
	}
	return true, confirmation.PaymentID
}
