// Package payment implements the payment processor client: checkout-session
// creation over HTTP and webhook signature verification.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"bazaar/config"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultRequestTimeout = 10 * time.Second

// client implements the service.PaymentGateway interface.
type client struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	successURL    string
	cancelURL     string
	tolerance     time.Duration
	httpClient    *http.Client
	now           func() time.Time
}

// NewClient is the constructor for the payment gateway client.
func NewClient(cfg *config.Config) (service.PaymentGateway, error) {
	gatewayCfg := cfg.PaymentGateway
	if gatewayCfg == nil {
		return nil, errors.New("payment gateway is not configured")
	}
	if gatewayCfg.WebhookSecret == "" {
		return nil, errors.New("payment gateway webhook secret is not configured")
	}

	timeout := gatewayCfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &client{
		baseURL:       gatewayCfg.BaseURL,
		apiKey:        gatewayCfg.APIKey,
		webhookSecret: gatewayCfg.WebhookSecret,
		successURL:    gatewayCfg.SuccessURL,
		cancelURL:     gatewayCfg.CancelURL,
		tolerance:     gatewayCfg.SignatureTolerance,
		httpClient:    &http.Client{Timeout: timeout},
		now:           time.Now,
	}, nil
}

// createSessionRequest is the wire shape of a checkout-session creation call.
// Order, buyer and asset ids ride in metadata and come back on webhook events.
type createSessionRequest struct {
	ItemTitle  string            `json:"item_title"`
	Amount     decimal.Decimal   `json:"amount"`
	BuyerEmail string            `json:"buyer_email"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession asks the processor for a hosted checkout session.
func (c *client) CreateCheckoutSession(ctx context.Context, input service.CheckoutSessionInput) (*service.CheckoutSession, error) {
	body, err := json.Marshal(createSessionRequest{
		ItemTitle:  input.ItemTitle,
		Amount:     input.Amount,
		BuyerEmail: input.BuyerEmail,
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
		Metadata: map[string]string{
			"order_id": input.OrderID.String(),
			"buyer_id": input.BuyerID.String(),
			"asset_id": input.AssetID.String(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode checkout session request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build checkout session request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewExternalDependencyError("payment gateway", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, domainerrors.NewExternalDependencyError("payment gateway",
			errors.Errorf("create session returned %d: %s", resp.StatusCode, respBody))
	}

	var sessionResp createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return nil, domainerrors.NewExternalDependencyError("payment gateway",
			errors.Wrap(err, "failed to decode create session response"))
	}

	return &service.CheckoutSession{
		SessionID: sessionResp.ID,
		URL:       sessionResp.URL,
	}, nil
}

// webhookEnvelope is the wire shape of a processor event. The raw bytes are
// verified before this struct ever exists.
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		SessionID     string            `json:"session_id"`
		PaymentIntent string            `json:"payment_intent"`
		Amount        decimal.Decimal   `json:"amount"`
		Metadata      map[string]string `json:"metadata"`
	} `json:"data"`
}

// VerifyWebhook checks the signature header against the exact payload bytes
// and decodes the event only once authenticity is established.
func (c *client) VerifyWebhook(payload []byte, signatureHeader string) (*service.WebhookEvent, error) {
	if err := verifySignature(payload, signatureHeader, c.webhookSecret, c.tolerance, c.now()); err != nil {
		return nil, domainerrors.ErrWebhookSignature.WithDetails(err.Error())
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, domainerrors.ErrWebhookSignature.WithDetails("payload is not valid JSON")
	}

	event := &service.WebhookEvent{
		ID:   envelope.ID,
		Type: envelope.Type,
		Data: service.WebhookEventData{
			SessionID: envelope.Data.SessionID,
			IntentID:  envelope.Data.PaymentIntent,
			Amount:    envelope.Data.Amount,
		},
	}

	// A missing or malformed order id is not a verification failure; the
	// state machine treats it as an unknown order and acknowledges anyway.
	if raw, ok := envelope.Data.Metadata["order_id"]; ok {
		if orderID, err := uuid.Parse(raw); err == nil {
			event.Data.OrderID = orderID
		}
	}

	return event, nil
}
