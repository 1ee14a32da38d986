package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"billetera/internal/cache"
	"billetera/internal/journal"
	"billetera/internal/ledger"
	"billetera/internal/log"

	"golang.org/x/sync/singleflight"
)

const (
	activityCacheSize    = 32
	activityCacheCleanup = time.Minute
	readTimeout          = 10 * time.Second
	writeTimeout         = 15 * time.Second
)

// Server serves the ledger store over HTTP.
type Server struct {
	http.Server
	store    *ledger.Store
	activity journal.Reader
	logger   *log.Logger

	activityCache *cache.LRUCache[activityPage]
	activityGroup singleflight.Group
	caches        *cache.Manager
	started       time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. activity may
// be nil, in which case /api/activity reports the journal as unavailable.
func NewServer(addr string, store *ledger.Store, activity journal.Reader, cacheTTL time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		store:         store,
		activity:      activity,
		logger:        logger.WithComponent(log.ComponentHTTP),
		activityCache: cache.NewLRUCache[activityPage](activityCacheSize, cacheTTL),
		caches:        cache.NewManager(logger),
		started:       time.Now(),
	}
	s.caches.Register(s.activityCache)
	s.caches.StartCleanup(activityCacheCleanup)

	s.routes(mux)
	s.Handler = log.Middleware(logger)(secureHeaders(mux))
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/session/login", s.handleLogin)
	mux.HandleFunc("POST /api/session/logout", s.handleLogout)

	mux.HandleFunc("POST /api/transfers", s.handleSendTransfer)
	mux.HandleFunc("POST /api/transfers/inbound", s.handleInboundTransfer)
	mux.HandleFunc("POST /api/recharges", s.handleRecharge)

	mux.HandleFunc("GET /api/contacts", s.handleListContacts)
	mux.HandleFunc("POST /api/contacts", s.handleAddContact)
	mux.HandleFunc("PATCH /api/contacts/{id}", s.handleUpdateContact)
	mux.HandleFunc("DELETE /api/contacts/{id}", s.handleRemoveContact)
	mux.HandleFunc("POST /api/contacts/{id}/favorite", s.handleToggleFavorite)

	mux.HandleFunc("GET /api/envelopes", s.handleListEnvelopes)
	mux.HandleFunc("POST /api/envelopes", s.handleCreateEnvelope)
	mux.HandleFunc("PATCH /api/envelopes/{id}", s.handleUpdateEnvelope)
	mux.HandleFunc("DELETE /api/envelopes/{id}", s.handleRemoveEnvelope)
	mux.HandleFunc("POST /api/envelopes/{id}/allocate", s.handleAllocate)

	mux.HandleFunc("GET /api/automations", s.handleListAutomations)
	mux.HandleFunc("POST /api/automations", s.handleCreateAutomation)
	mux.HandleFunc("PATCH /api/automations/{id}", s.handleUpdateAutomation)
	mux.HandleFunc("DELETE /api/automations/{id}", s.handleRemoveAutomation)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/notifications", s.handleAddNotification)
	mux.HandleFunc("DELETE /api/notifications", s.handleClearNotifications)
	mux.HandleFunc("POST /api/notifications/read-all", s.handleMarkAllRead)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("POST /api/notifications/{id}/toggle", s.handleToggleRead)

	mux.HandleFunc("POST /api/biometric", s.handleBiometric)
	mux.HandleFunc("GET /api/activity", s.handleActivity)
}

// Shutdown stops the cache cleanup routine and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// secureHeaders sets the response headers every JSON endpoint carries.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, "ok", map[string]any{
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"journal": s.activity != nil,
	})
}
