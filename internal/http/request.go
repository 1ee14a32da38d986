package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"billetera/internal/core"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 64 << 10

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON object into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON payload: trailing data")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// sanitizeInput removes control characters (except tab and newlines) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

// queryLimit parses ?limit=, falling back to def for missing or invalid values.
func queryLimit(r *http.Request, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

type (
	loginRequest struct {
		ID     string  `json:"id"`
		Phone  string  `json:"phone"`
		IDType *string `json:"id_type"`
	}

	transferRequest struct {
		ContactName string     `json:"contact_name"`
		Phone       string     `json:"phone"`
		Amount      core.Money `json:"amount"`
		Note        string     `json:"note"`
	}

	inboundTransferRequest struct {
		SenderName  string     `json:"sender_name"`
		SenderPhone string     `json:"sender_phone"`
		Amount      core.Money `json:"amount"`
		Note        string     `json:"note"`
	}

	rechargeRequest struct {
		Provider string     `json:"provider"`
		Phone    string     `json:"phone"`
		Amount   core.Money `json:"amount"`
	}

	contactRequest struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Color    string `json:"color"`
		Favorite *bool  `json:"favorite"`
	}

	contactPatchRequest struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Color    *string `json:"color"`
		Favorite *bool   `json:"favorite"`
	}

	envelopeRequest struct {
		Name         string      `json:"name"`
		Color        string      `json:"color"`
		TargetAmount *core.Money `json:"target_amount"`
		Description  string      `json:"description"`
	}

	envelopePatchRequest struct {
		Name         *string     `json:"name"`
		Color        *string     `json:"color"`
		TargetAmount *core.Money `json:"target_amount"`
		ClearTarget  bool        `json:"clear_target"`
		Description  *string     `json:"description"`
	}

	allocateRequest struct {
		Amount        core.Money `json:"amount"`
		AllowNegative bool       `json:"allow_negative"`
	}

	automationRequest struct {
		Title      string `json:"title"`
		MatchPhone string `json:"match_phone"`
		EnvelopeID string `json:"envelope_id"`
		Active     *bool  `json:"active"`
	}

	automationPatchRequest struct {
		Title      *string `json:"title"`
		MatchPhone *string `json:"match_phone"`
		EnvelopeID *string `json:"envelope_id"`
		Active     *bool   `json:"active"`
	}

	notificationRequest struct {
		Title    string                    `json:"title"`
		Message  string                    `json:"message"`
		Category core.NotificationCategory `json:"category"`
	}

	biometricRequest struct {
		LatencyMS     int    `json:"latency_ms"`
		ExpectedMatch bool   `json:"expected_match"`
		Label         string `json:"label"`
		Device        string `json:"device"`
	}
)
