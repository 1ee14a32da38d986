package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"billetera/internal/core"
	"billetera/internal/journal"
	"billetera/internal/log"
)

// activityReadTimeout keeps a slow journal from hanging the request.
const activityReadTimeout = 5 * time.Second

type activityPage struct {
	Events []core.Event   `json:"events"`
	Kind   core.EventKind `json:"kind,omitempty"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
}

// handleActivity lists journaled events, newest first, optionally only those
// of ?kind=. Total always counts the whole journal. The journal is written
// asynchronously, so a page may lag the ledger by one flush interval plus the
// cache TTL.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		respondError(w, r, http.StatusServiceUnavailable, "activity journal unavailable")
		return
	}
	limit := journal.ClampLimit(queryLimit(r, journal.DefaultListLimit))
	kind := core.EventKind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if kind != "" && !kind.IsValid() {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown event kind %q", kind))
		return
	}

	page, err := s.getActivity(r.Context(), kind, limit)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Activity read failed",
			log.FieldError, err, "limit", limit, log.FieldEventKind, kind)
		respondError(w, r, statusFor(err), "activity journal unavailable")
		return
	}
	respondJSON(w, r, http.StatusOK, "ok", page)
}

func (s *Server) getActivity(ctx context.Context, kind core.EventKind, limit int) (activityPage, error) {
	key := string(kind) + ":" + strconv.Itoa(limit)
	if page, found := s.activityCache.Get(key); found {
		log.FromContext(ctx).DebugContext(ctx, "Activity cache hit", "limit", limit, log.FieldEventKind, kind)
		return page, nil
	}

	v, err, _ := s.activityGroup.Do(key, func() (any, error) {
		cctx, cancel := context.WithTimeout(ctx, activityReadTimeout)
		defer cancel()

		var (
			events []core.Event
			err    error
		)
		if kind == "" {
			events, err = s.activity.ListEvents(cctx, limit)
		} else {
			events, err = s.activity.ListEventsByKind(cctx, kind, limit)
		}
		if err != nil {
			return activityPage{}, fmt.Errorf("list events (kind=%q, limit=%d): %w", kind, limit, err)
		}
		total, err := s.activity.CountEvents(cctx)
		if err != nil {
			return activityPage{}, fmt.Errorf("count events: %w", err)
		}
		page := activityPage{Events: events, Kind: kind, Total: total, Limit: limit}
		s.activityCache.Set(key, page)
		return page, nil
	})
	if err != nil {
		return activityPage{}, err
	}
	return v.(activityPage), nil
}
