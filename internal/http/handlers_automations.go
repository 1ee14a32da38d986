package http

import (
	"net/http"

	"billetera/internal/ledger"
	"billetera/internal/log"
)

func (s *Server) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, "ok", s.store.Automations())
}

// handleCreateAutomation creates an active rule unless "active": false is sent.
func (s *Server) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	var req automationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	rule, err := s.store.CreateAutomationRule(ledger.AutomationDraft{
		Title:      sanitizeInput(req.Title),
		MatchPhone: sanitizeInput(req.MatchPhone),
		EnvelopeID: sanitizeInput(req.EnvelopeID),
		Active:     active,
	})
	if err != nil {
		respondLedgerError(w, r, log.OpCreate, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, "Automation created", rule)
}

func (s *Server) handleUpdateAutomation(w http.ResponseWriter, r *http.Request) {
	var req automationPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rule, err := s.store.UpdateAutomationRule(r.PathValue("id"), ledger.AutomationUpdate{
		Title:      sanitizePtr(req.Title),
		MatchPhone: sanitizePtr(req.MatchPhone),
		EnvelopeID: sanitizePtr(req.EnvelopeID),
		Active:     req.Active,
	})
	if err != nil {
		respondLedgerError(w, r, log.OpUpdate, err)
		return
	}
	if rule == nil {
		respondError(w, r, http.StatusNotFound, "automation not found")
		return
	}
	respondJSON(w, r, http.StatusOK, "Automation updated", rule)
}

func (s *Server) handleRemoveAutomation(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveAutomationRule(r.PathValue("id"))
	respondJSON(w, r, http.StatusOK, "Automation removed", nil)
}
