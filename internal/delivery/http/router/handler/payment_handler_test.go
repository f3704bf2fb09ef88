package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWebhookUsecase struct {
	mock.Mock
}

func (m *mockWebhookUsecase) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	args := m.Called(ctx, payload, signatureHeader)

	return args.Error(0)
}

type mockCheckoutUsecase struct {
	mock.Mock
}

func (m *mockCheckoutUsecase) CreateCheckout(ctx context.Context, buyerID, assetID uuid.UUID) (*usecase.CheckoutResult, error) {
	args := m.Called(ctx, buyerID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.CheckoutResult), args.Error(1)
}

func TestPaymentHandler_Webhook(t *testing.T) {
	t.Parallel()

	t.Run("passes the raw body and signature through unchanged", func(t *testing.T) {
		t.Parallel()

		webhookUC := new(mockWebhookUsecase)
		h := NewPaymentHandler(new(mockCheckoutUsecase), webhookUC)

		// Key order and whitespace must survive to the verifier byte for byte.
		body := `{"type": "checkout.session.completed",  "id":"evt_1"}`
		webhookUC.On("HandleEvent", mock.Anything, []byte(body), "t=123,v1=abc").Return(nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(body))
		req.Header.Set(SignatureHeader, "t=123,v1=abc")
		rec := httptest.NewRecorder()

		err := h.Webhook(e.NewContext(req, rec))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp["received"])
		webhookUC.AssertExpectations(t)
	})

	t.Run("propagates a signature rejection", func(t *testing.T) {
		t.Parallel()

		webhookUC := new(mockWebhookUsecase)
		h := NewPaymentHandler(new(mockCheckoutUsecase), webhookUC)

		webhookUC.On("HandleEvent", mock.Anything, mock.Anything, "").
			Return(domainerrors.ErrWebhookSignature)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		err := h.Webhook(e.NewContext(req, rec))

		assert.ErrorIs(t, err, domainerrors.ErrWebhookSignature)
	})
}
