package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
	"github.com/relaypoint/relaypoint/internal/usecase/mocks"
)

func TestPaymentHandler_Webhook(t *testing.T) {
	credits := 0
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			credits++
			assert.Equal(t, "acc-1", input.AccountID)
			assert.Equal(t, domain.DirectionCredit, input.Direction)
			assert.Equal(t, "payment", input.Reason)

			return &domain.Account{ID: "acc-1"}, &domain.LedgerEntry{ID: "entry-1", Amount: input.Amount}, nil
		},
	}

	h := NewPaymentHandler(ledger, mocks.NewMockIdempotencyStore(), "", time.Hour, zerolog.Nop())

	payload := `{"event_id": "evt-1", "account_id": "acc-1", "amount": "75"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, credits)

	// Redelivery of the same event is acknowledged but not credited.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec = httptest.NewRecorder()
	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, credits)
	assert.Contains(t, rec.Body.String(), "already processed")
}

func TestPaymentHandler_WebhookSignature(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			return &domain.Account{ID: input.AccountID}, &domain.LedgerEntry{Amount: input.Amount}, nil
		},
	}

	h := NewPaymentHandler(ledger, mocks.NewMockIdempotencyStore(), "gateway-secret", time.Hour, zerolog.Nop())

	payload := `{"event_id": "evt-9", "account_id": "acc-1", "amount": "75"}`

	mac := hmac.New(sha256.New, []byte("gateway-secret"))
	mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	req.Header.Set("X-Webhook-Signature", signature)
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing or wrong signature is rejected before any crediting.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec = httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	req.Header.Set("X-Webhook-Signature", "deadbeef")
	rec = httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentHandler_WebhookValidation(t *testing.T) {
	h := NewPaymentHandler(&stubLedgerService{}, mocks.NewMockIdempotencyStore(), "", time.Hour, zerolog.Nop())

	tests := []struct {
		name    string
		payload string
	}{
		{"missing event id", `{"account_id": "acc-1", "amount": "75"}`},
		{"missing account id", `{"event_id": "evt-2", "amount": "75"}`},
		{"malformed json", `{"event_id": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(tt.payload))
			rec := httptest.NewRecorder()
			h.Webhook(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPaymentHandler_WebhookCreditFailure(t *testing.T) {
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			return nil, nil, domain.ErrAccountNotFound
		},
	}

	h := NewPaymentHandler(ledger, mocks.NewMockIdempotencyStore(), "", time.Hour, zerolog.Nop())

	payload := `{"event_id": "evt-3", "account_id": "ghost", "amount": "75"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// A transient credit failure must not leave the event marked as
// processed, or the gateway's retry would be acknowledged without
// ever crediting the account.
func TestPaymentHandler_WebhookRetriesAfterCreditFailure(t *testing.T) {
	credits := 0
	failFirst := true
	ledger := &stubLedgerService{
		applyFunc: func(ctx context.Context, input usecase.BalanceChangeInput) (*domain.Account, *domain.LedgerEntry, error) {
			if failFirst {
				failFirst = false
				return nil, nil, errors.New("connection reset by peer")
			}

			credits++
			return &domain.Account{ID: input.AccountID}, &domain.LedgerEntry{ID: "entry-1", Amount: input.Amount}, nil
		},
	}

	h := NewPaymentHandler(ledger, mocks.NewMockIdempotencyStore(), "", time.Hour, zerolog.Nop())

	payload := `{"event_id": "evt-4", "account_id": "acc-1", "amount": "75"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)

	require.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, credits)

	// The gateway redelivers the same event; this time the credit
	// must go through instead of being dropped as a duplicate.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec = httptest.NewRecorder()
	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, credits)

	// A third delivery after success is back to normal deduplication.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(payload))
	rec = httptest.NewRecorder()
	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, credits)
	assert.Contains(t, rec.Body.String(), "already processed")
}
