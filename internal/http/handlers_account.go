package http

import (
	"net/http"

	"billetera/internal/core"
	"billetera/internal/ledger"
	"billetera/internal/log"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, "ok", s.store.Snapshot())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !s.store.Login(sanitizeInput(req.ID), sanitizeInput(req.Phone), sanitizePtr(req.IDType)) {
		respondError(w, r, http.StatusUnprocessableEntity, core.ErrMissingCredentials.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, "Logged in", s.store.User())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout()
	respondJSON(w, r, http.StatusOK, "Logged out", nil)
}

func (s *Server) handleSendTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.store.SendTransfer(ledger.TransferDraft{
		ContactName: sanitizeInput(req.ContactName),
		Phone:       sanitizeInput(req.Phone),
		Amount:      req.Amount,
		Note:        sanitizeInput(req.Note),
	})
	if err != nil {
		respondLedgerError(w, r, log.OpTransfer, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, "Transfer sent", rec)
}

func (s *Server) handleInboundTransfer(w http.ResponseWriter, r *http.Request) {
	var req inboundTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.store.RecordInboundTransfer(ledger.InboundTransferDraft{
		SenderName:  sanitizeInput(req.SenderName),
		SenderPhone: sanitizeInput(req.SenderPhone),
		Amount:      req.Amount,
		Note:        sanitizeInput(req.Note),
	})
	if err != nil {
		respondLedgerError(w, r, log.OpInbound, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, "Transfer received", rec)
}

func (s *Server) handleRecharge(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.store.MakeRecharge(ledger.RechargeDraft{
		Provider: sanitizeInput(req.Provider),
		Phone:    sanitizeInput(req.Phone),
		Amount:   req.Amount,
	})
	if err != nil {
		respondLedgerError(w, r, log.OpRecharge, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, "Recharge completed", rec)
}
