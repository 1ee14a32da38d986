package ledger

import (
	"time"

	"billetera/internal/core"
)

// Request types for store operations. Pointer fields are optional: nil means
// "not provided" and leaves the stored value untouched.
type (
	TransferDraft struct {
		ContactName string
		Phone       string
		Amount      core.Money
		Note        string
	}

	InboundTransferDraft struct {
		SenderName  string
		SenderPhone string
		Amount      core.Money
		Note        string
	}

	RechargeDraft struct {
		Provider string
		Phone    string
		Amount   core.Money
	}

	ContactDraft struct {
		Name     string
		Phone    string
		Color    string
		Favorite *bool
	}

	ContactUpdate struct {
		Name     *string
		Phone    *string
		Color    *string
		Favorite *bool
	}

	EnvelopeDraft struct {
		Name         string
		Color        string
		TargetAmount *core.Money
		Description  string
	}

	EnvelopeUpdate struct {
		Name         *string
		Color        *string
		TargetAmount *core.Money
		ClearTarget  bool
		Description  *string
	}

	AllocateOptions struct {
		AllowNegative bool
	}

	AutomationDraft struct {
		Title      string
		MatchPhone string
		EnvelopeID string
		Active     bool
	}

	AutomationUpdate struct {
		Title      *string
		MatchPhone *string
		EnvelopeID *string
		Active     *bool
	}

	BiometricRequest struct {
		Latency       time.Duration // zero means DefaultBiometricLatency
		ExpectedMatch bool
		Label         string
		Device        string
	}
)

// State is a deep copy of the store's read surface.
type State struct {
	Balance              core.Money              `json:"balance"`
	InitialBalance       core.Money              `json:"initial_balance"`
	IsAuthenticated      bool                    `json:"is_authenticated"`
	User                 core.UserProfile        `json:"user"`
	Contacts             []core.Contact          `json:"contacts"`
	Transfers            []core.TransferRecord   `json:"transfers"`
	Recharges            []core.RechargeRecord   `json:"recharges"`
	Envelopes            []core.Envelope         `json:"envelopes"`
	Automations          []core.AutomationRule   `json:"automations"`
	Notifications        []core.NotificationItem `json:"notifications"`
	BiometricRegistered  bool                    `json:"biometric_registered"`
	BiometricAttempts    []core.BiometricAttempt `json:"biometric_attempts"`
	TotalEnvelopeBalance core.Money              `json:"total_envelope_balance"`
	UnreadNotifications  int                     `json:"unread_notifications"`
}
