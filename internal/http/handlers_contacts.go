package http

import (
	"net/http"
	"strings"

	"billetera/internal/core"
	"billetera/internal/ledger"
	"billetera/internal/log"
)

// handleListContacts returns the directory. ?sort=name or ?sort=favorites
// return a sorted copy; the default is most recently used first.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts := s.store.Contacts()
	switch strings.ToLower(r.URL.Query().Get("sort")) {
	case "", "recent":
	case "name":
		contacts = core.SortContactsByName(contacts)
	case "favorites":
		contacts = core.SortFavoritesFirst(contacts)
	default:
		respondError(w, r, http.StatusBadRequest, "sort must be one of recent, name, favorites")
		return
	}
	respondJSON(w, r, http.StatusOK, "ok", contacts)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.store.AddContact(ledger.ContactDraft{
		Name:     sanitizeInput(req.Name),
		Phone:    sanitizeInput(req.Phone),
		Color:    sanitizeInput(req.Color),
		Favorite: req.Favorite,
	})
	if err != nil {
		respondLedgerError(w, r, log.OpCreate, err)
		return
	}
	respondJSON(w, r, http.StatusOK, "Contact saved", c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.store.UpdateContact(r.PathValue("id"), ledger.ContactUpdate{
		Name:     sanitizePtr(req.Name),
		Phone:    sanitizePtr(req.Phone),
		Color:    sanitizePtr(req.Color),
		Favorite: req.Favorite,
	})
	if err != nil {
		respondLedgerError(w, r, log.OpUpdate, err)
		return
	}
	if c == nil {
		respondError(w, r, http.StatusNotFound, "contact not found")
		return
	}
	respondJSON(w, r, http.StatusOK, "Contact updated", c)
}

// handleRemoveContact succeeds for unknown ids as well.
func (s *Server) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveContact(r.PathValue("id"))
	respondJSON(w, r, http.StatusOK, "Contact removed", nil)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.ToggleFavoriteContact(id)
	c, ok := s.store.Contact(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, "contact not found")
		return
	}
	respondJSON(w, r, http.StatusOK, "Contact updated", c)
}
