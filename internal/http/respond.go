// Package http exposes the ledger store as a JSON API.
//
// Every response uses the same envelope: {"code": <status>, "message": ...,
// "data": ...}. Ledger sentinel errors map to 409 (balance conflicts), 404
// (missing envelopes) or 422 (validation).
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"billetera/internal/core"
	"billetera/internal/log"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	write(w, r, status, Envelope{Code: status, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	write(w, r, status, Envelope{Code: status, Message: message})
}

func write(w http.ResponseWriter, r *http.Request, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Encode response failed", log.FieldError, err)
	}
}

// statusFor maps a ledger error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrInsufficientEnvelopeBalance),
		errors.Is(err, core.ErrDuplicatePhone):
		return http.StatusConflict
	case errors.Is(err, core.ErrEnvelopeNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrMissingPhone),
		errors.Is(err, core.ErrMissingName),
		errors.Is(err, core.ErrMissingMatchPhone),
		errors.Is(err, core.ErrMissingCredentials):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondLedgerError writes err with its mapped status. Internal errors are
// logged and reported without detail.
func respondLedgerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		fields := log.NewFields().WithOperation(op).WithError(err)
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", fields.ToSlice()...)
		respondError(w, r, status, "internal error")
		return
	}
	respondError(w, r, status, err.Error())
}
