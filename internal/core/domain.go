package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Outbound TransferDirection = "outbound"
	Inbound  TransferDirection = "inbound"
)

const (
	CategoryTransfer NotificationCategory = "transfer"
	CategoryRecharge NotificationCategory = "recharge"
	CategorySecurity NotificationCategory = "security"
	CategoryGeneral  NotificationCategory = "general"
)

const (
	BiometricSuccess  BiometricResult = "success"
	BiometricMismatch BiometricResult = "mismatch"
	BiometricTimeout  BiometricResult = "timeout"
)

type (
	TransferDirection    string
	NotificationCategory string
	BiometricResult      string

	Money struct {
		Cents int64
	}

	UserProfile struct {
		Name         string `json:"name"`
		GovernmentID string `json:"government_id"`
		Phone        string `json:"phone"`
		Color        string `json:"color"`
		IDType       string `json:"id_type"`
	}

	Contact struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		Phone      string     `json:"phone"` // Unique key for upserts
		Color      string     `json:"color"`
		Favorite   bool       `json:"favorite"`
		LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	}

	TransferRecord struct {
		ID               string            `json:"id"`
		ContactName      string            `json:"contact_name"`
		Phone            string            `json:"phone"`
		Amount           Money             `json:"amount"`
		Note             string            `json:"note,omitempty"`
		CreatedAt        time.Time         `json:"created_at"`
		Direction        TransferDirection `json:"direction"`
		LinkedEnvelopeID string            `json:"linked_envelope_id,omitempty"` // Empty when no automation routed the amount
	}

	RechargeRecord struct {
		ID        string    `json:"id"`
		Provider  string    `json:"provider"`
		Phone     string    `json:"phone"`
		Amount    Money     `json:"amount"`
		CreatedAt time.Time `json:"created_at"`
	}

	Envelope struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Color        string    `json:"color"`
		Balance      Money     `json:"balance"`
		TargetAmount *Money    `json:"target_amount,omitempty"`
		Description  string    `json:"description,omitempty"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	AutomationRule struct {
		ID              string     `json:"id"`
		Title           string     `json:"title"`
		MatchPhone      string     `json:"match_phone"`
		EnvelopeID      string     `json:"envelope_id"`
		Active          bool       `json:"active"`
		LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	}

	NotificationItem struct {
		ID        string               `json:"id"`
		Title     string               `json:"title"`
		Message   string               `json:"message"`
		Timestamp time.Time            `json:"timestamp"`
		Read      bool                 `json:"read"`
		Category  NotificationCategory `json:"category"`
	}

	BiometricAttempt struct {
		ID        string          `json:"id"`
		Label     string          `json:"label"`
		Result    BiometricResult `json:"result"`
		Timestamp time.Time       `json:"timestamp"`
		Device    string          `json:"device"`
	}
)

var (
	ErrInvalidAmount               = errors.New("invalid amount")
	ErrInsufficientFunds           = errors.New("insufficient funds")
	ErrMissingPhone                = errors.New("missing phone")
	ErrMissingName                 = errors.New("missing name")
	ErrMissingMatchPhone           = errors.New("missing match phone")
	ErrMissingCredentials          = errors.New("missing id or phone")
	ErrInvalidTarget               = errors.New("invalid target amount")
	ErrEnvelopeNotFound            = errors.New("envelope not found")
	ErrInsufficientEnvelopeBalance = errors.New("insufficient envelope balance")
	ErrDuplicatePhone              = errors.New("phone already belongs to another contact")
)

// Validate checks that the amount can be moved: strictly positive cents.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// CheckedAdd returns m + o, or ErrInvalidAmount when the sum does not fit
// in int64 cents.
func (m Money) CheckedAdd(o Money) (Money, error) {
	if (o.Cents > 0 && m.Cents > math.MaxInt64-o.Cents) ||
		(o.Cents < 0 && m.Cents < math.MinInt64-o.Cents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: m.Cents + o.Cents}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (d TransferDirection) IsValid() bool {
	return d == Outbound || d == Inbound
}

// IsValid returns true for the four known notification categories.
func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryTransfer, CategoryRecharge, CategorySecurity, CategoryGeneral:
		return true
	default:
		return false
	}
}

// Progress returns how much of the target has been reached, clamped to [0, 1].
// Envelopes without a positive target report 0.
func (e Envelope) Progress() float64 {
	if e.TargetAmount == nil || e.TargetAmount.Cents <= 0 {
		return 0
	}
	p := float64(e.Balance.Cents) / float64(e.TargetAmount.Cents)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ValidateTarget rejects negative goal amounts. A nil target is valid.
func ValidateTarget(target *Money) error {
	if target != nil && target.Cents < 0 {
		return ErrInvalidTarget
	}
	return nil
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
