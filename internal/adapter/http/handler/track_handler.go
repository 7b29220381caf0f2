package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relaypoint/relaypoint/internal/adapter/http/dto"
	"github.com/relaypoint/relaypoint/internal/domain"
)

// TrackService resolves public tracking lookups.
type TrackService interface {
	Track(ctx context.Context, trackingNumber string) (*domain.Package, error)
}

// QRGenerator renders content as a PNG QR code.
type QRGenerator interface {
	EncodePNG(content string) ([]byte, error)
}

// TrackHandler handles public tracking lookups.
type TrackHandler struct {
	packages TrackService
	qr       QRGenerator
	baseURL  string
}

// NewTrackHandler creates a new TrackHandler. baseURL is the public
// address encoded into QR codes.
func NewTrackHandler(packages TrackService, qr QRGenerator, baseURL string) *TrackHandler {
	return &TrackHandler{packages: packages, qr: qr, baseURL: baseURL}
}

// Track looks up a package by tracking number.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		writeError(w, http.StatusBadRequest, "missing tracking number", "")
		return
	}

	pkg, err := h.packages.Track(r.Context(), trackingNumber)
	if err != nil {
		writeError(w, mapDomainError(err), "tracking lookup failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PackageFromDomain(pkg))
}

// TrackQR returns a PNG QR code linking to the tracking page.
func (h *TrackHandler) TrackQR(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")
	if trackingNumber == "" {
		writeError(w, http.StatusBadRequest, "missing tracking number", "")
		return
	}

	// 404 for unknown numbers before rendering anything
	if _, err := h.packages.Track(r.Context(), trackingNumber); err != nil {
		writeError(w, mapDomainError(err), "tracking lookup failed", err.Error())
		return
	}

	png, err := h.qr.EncodePNG(fmt.Sprintf("%s/api/v1/track/%s", h.baseURL, trackingNumber))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render QR code", err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
