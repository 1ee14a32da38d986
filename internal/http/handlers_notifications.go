package http

import (
	"net/http"
	"time"

	"billetera/internal/ledger"
)

// maxBiometricLatency bounds how long a single request may hold a handler.
const maxBiometricLatency = 5 * time.Second

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, "ok", map[string]any{
		"notifications": s.store.Notifications(),
		"unread":        s.store.UnreadCount(),
	})
}

func (s *Server) handleAddNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item := s.store.AddNotification(sanitizeInput(req.Title), sanitizeInput(req.Message), req.Category)
	respondJSON(w, r, http.StatusCreated, "Notification added", item)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.store.ClearNotifications()
	respondJSON(w, r, http.StatusOK, "Notifications cleared", nil)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	s.store.MarkAllNotificationsRead()
	respondJSON(w, r, http.StatusOK, "Notifications read", map[string]int{"unread": s.store.UnreadCount()})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	s.store.MarkNotificationRead(r.PathValue("id"))
	respondJSON(w, r, http.StatusOK, "Notification read", map[string]int{"unread": s.store.UnreadCount()})
}

func (s *Server) handleToggleRead(w http.ResponseWriter, r *http.Request) {
	s.store.ToggleNotificationRead(r.PathValue("id"))
	respondJSON(w, r, http.StatusOK, "Notification updated", map[string]int{"unread": s.store.UnreadCount()})
}

// handleBiometric runs one simulated scan. The body is optional; an empty
// body uses the default latency and a random outcome.
func (s *Server) handleBiometric(w http.ResponseWriter, r *http.Request) {
	var req biometricRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	latency := time.Duration(req.LatencyMS) * time.Millisecond
	if latency < 0 || latency > maxBiometricLatency {
		respondError(w, r, http.StatusUnprocessableEntity, "latency_ms must be between 0 and 5000")
		return
	}
	attempt := s.store.SimulateBiometricValidation(ledger.BiometricRequest{
		Latency:       latency,
		ExpectedMatch: req.ExpectedMatch,
		Label:         sanitizeInput(req.Label),
		Device:        sanitizeInput(req.Device),
	})
	respondJSON(w, r, http.StatusOK, string(attempt.Result), map[string]any{
		"attempt":    attempt,
		"registered": s.store.BiometricRegistered(),
	})
}
