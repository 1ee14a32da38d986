package http

import (
	"net/http"

	"billetera/internal/core"
	"billetera/internal/ledger"
	"billetera/internal/log"
)

// envelopeView adds the derived goal progress to an envelope.
type envelopeView struct {
	core.Envelope
	Progress float64 `json:"progress"`
}

func viewEnvelope(e core.Envelope) envelopeView {
	return envelopeView{Envelope: e, Progress: e.Progress()}
}

func (s *Server) handleListEnvelopes(w http.ResponseWriter, r *http.Request) {
	envelopes := s.store.Envelopes()
	views := make([]envelopeView, len(envelopes))
	for i, e := range envelopes {
		views[i] = viewEnvelope(e)
	}
	respondJSON(w, r, http.StatusOK, "ok", map[string]any{
		"envelopes": views,
		"total":     s.store.TotalEnvelopeBalance(),
	})
}

func (s *Server) handleCreateEnvelope(w http.ResponseWriter, r *http.Request) {
	var req envelopeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.store.CreateEnvelope(ledger.EnvelopeDraft{
		Name:         sanitizeInput(req.Name),
		Color:        sanitizeInput(req.Color),
		TargetAmount: req.TargetAmount,
		Description:  sanitizeInput(req.Description),
	})
	if err != nil {
		respondLedgerError(w, r, log.OpCreate, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, "Envelope created", viewEnvelope(e))
}

func (s *Server) handleUpdateEnvelope(w http.ResponseWriter, r *http.Request) {
	var req envelopePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.store.UpdateEnvelope(r.PathValue("id"), ledger.EnvelopeUpdate{
		Name:         sanitizePtr(req.Name),
		Color:        sanitizePtr(req.Color),
		TargetAmount: req.TargetAmount,
		ClearTarget:  req.ClearTarget,
		Description:  sanitizePtr(req.Description),
	})
	if err != nil {
		respondLedgerError(w, r, log.OpUpdate, err)
		return
	}
	if e == nil {
		respondError(w, r, http.StatusNotFound, core.ErrEnvelopeNotFound.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, "Envelope updated", viewEnvelope(*e))
}

func (s *Server) handleRemoveEnvelope(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveEnvelope(r.PathValue("id"))
	respondJSON(w, r, http.StatusOK, "Envelope removed", nil)
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("id")
	err := s.store.AllocateToEnvelope(id, req.Amount, ledger.AllocateOptions{AllowNegative: req.AllowNegative})
	if err != nil {
		respondLedgerError(w, r, log.OpAllocate, err)
		return
	}
	e, ok := s.store.Envelope(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, core.ErrEnvelopeNotFound.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, "Envelope updated", viewEnvelope(e))
}
