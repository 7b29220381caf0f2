package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// signatureHeader carries the gateway's HMAC-SHA256 of the raw body.
const signatureHeader = "X-Webhook-Signature"

// PaymentHandler handles payment gateway webhooks: signature
// verification, deduplication, and crediting.
type PaymentHandler struct {
	ledger      LedgerService
	idempotency usecase.IdempotencyStore
	secret      string
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler. An empty secret
// disables signature verification.
func NewPaymentHandler(ledger LedgerService, idempotency usecase.IdempotencyStore, secret string, ttl time.Duration, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		ledger:      ledger,
		idempotency: idempotency,
		secret:      secret,
		ttl:         ttl,
		logger:      logger,
	}
}

// Webhook credits an account from a gateway confirmation. Redelivered
// events are acknowledged without crediting twice.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body", err.Error())
		return
	}

	if h.secret != "" && !h.verifySignature(body, r.Header.Get(signatureHeader)) {
		h.logger.Warn().Msg("payment webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var req dto.PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fresh, err := h.idempotency.MarkProcessed(r.Context(), req.EventID, h.ttl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "idempotency check failed", err.Error())
		return
	}

	if !fresh {
		h.logger.Info().
			Str("event_id", req.EventID).
			Msg("duplicate payment event ignored")

		writeJSON(w, http.StatusOK, map[string]string{"status": "already processed"})
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "payment"
	}

	account, entry, err := h.ledger.ApplyBalanceChange(r.Context(), usecase.BalanceChangeInput{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Direction:    domain.DirectionCredit,
		Reason:       reason,
		Actor:        req.AccountID,
		ActorIsAdmin: false,
	})
	if err != nil {
		// Release the claim so the gateway's redelivery is not
		// swallowed as a duplicate of a credit that never happened.
		if clearErr := h.idempotency.Clear(r.Context(), req.EventID); clearErr != nil {
			h.logger.Warn().
				Err(clearErr).
				Str("event_id", req.EventID).
				Msg("failed to release idempotency key")
		}

		writeError(w, mapDomainError(err), "payment credit failed", err.Error())
		return
	}

	h.logger.Info().
		Str("event_id", req.EventID).
		Str("account_id", account.ID).
		Str("amount", entry.Amount.String()).
		Msg("payment credited")

	writeJSON(w, http.StatusOK, dto.BalanceChangeResponse{
		Account: dto.AccountFromDomain(account),
		Entry:   dto.EntryFromDomain(entry),
	})
}

func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
