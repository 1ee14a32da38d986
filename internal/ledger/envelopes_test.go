package ledger

import (
	"errors"
	"math"
	"testing"

	"billetera/internal/core"
)

func TestEnvelopeExample(t *testing.T) {
	s, _ := newTestStore(t)

	env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Renta", TargetAmount: moneyOf(10000000)})
	if err != nil {
		t.Fatalf("CreateEnvelope: %v", err)
	}
	if env.Balance.Cents != 0 || env.Color != envelopePalette[0] {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if err := s.AllocateToEnvelope(env.ID, cents(2500000), AllocateOptions{}); err != nil {
		t.Fatalf("AllocateToEnvelope: %v", err)
	}

	got, ok := s.Envelope(env.ID)
	if !ok || got.Balance != cents(2500000) {
		t.Fatalf("envelope balance = %s", got.Balance)
	}
	if got.Progress() != 0.25 {
		t.Fatalf("progress = %v", got.Progress())
	}
	if s.Balance() != DefaultInitialBalance {
		t.Fatalf("allocation must not touch the top-level balance")
	}
	if s.TotalEnvelopeBalance() != cents(2500000) {
		t.Fatalf("total = %s", s.TotalEnvelopeBalance())
	}
}

func TestCreateEnvelopeValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   EnvelopeDraft
		wantErr error
	}{
		{name: "blank name", draft: EnvelopeDraft{Name: "  "}, wantErr: core.ErrMissingName},
		{name: "negative target", draft: EnvelopeDraft{Name: "Viaje", TargetAmount: moneyOf(-1)}, wantErr: core.ErrInvalidTarget},
		{name: "zero target", draft: EnvelopeDraft{Name: "Viaje", TargetAmount: moneyOf(0)}},
		{name: "no target", draft: EnvelopeDraft{Name: "Viaje"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			_, err := s.CreateEnvelope(tt.draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			wantLen := 1
			if tt.wantErr != nil {
				wantLen = 0
			}
			if len(s.Envelopes()) != wantLen {
				t.Fatalf("envelopes = %d", len(s.Envelopes()))
			}
		})
	}
}

func TestAllocateToEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		amount  int64
		opts    AllocateOptions
		wantErr error
		wantBal int64
	}{
		{name: "deposit", amount: 500, wantBal: 500},
		{name: "withdraw", start: 1000, amount: -400, wantBal: 600},
		{name: "withdraw all", start: 1000, amount: -1000, wantBal: 0},
		{name: "overdraw rejected", start: 1000, amount: -1001, wantErr: core.ErrInsufficientEnvelopeBalance, wantBal: 1000},
		{name: "overdraw allowed", start: 1000, amount: -1500, opts: AllocateOptions{AllowNegative: true}, wantBal: -500},
		{name: "zero", start: 1000, amount: 0, wantErr: core.ErrInvalidAmount, wantBal: 1000},
		{name: "overflow", start: math.MaxInt64 - 10, amount: 11, wantErr: core.ErrInvalidAmount, wantBal: math.MaxInt64 - 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if tt.start > 0 {
				if err := s.AllocateToEnvelope(env.ID, cents(tt.start), AllocateOptions{}); err != nil {
					t.Fatalf("seed allocation: %v", err)
				}
			}
			err = s.AllocateToEnvelope(env.ID, cents(tt.amount), tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			got, _ := s.Envelope(env.ID)
			if got.Balance.Cents != tt.wantBal {
				t.Fatalf("balance = %d, want %d", got.Balance.Cents, tt.wantBal)
			}
		})
	}
}

func TestAllocateUnknownEnvelope(t *testing.T) {
	s, sink := newTestStore(t)
	err := s.AllocateToEnvelope("missing", cents(100), AllocateOptions{})
	if !errors.Is(err, core.ErrEnvelopeNotFound) {
		t.Fatalf("err = %v, want ErrEnvelopeNotFound", err)
	}
	if sink.batchCount() != 0 {
		t.Fatalf("failed allocation emitted events")
	}
}

func TestUpdateEnvelope(t *testing.T) {
	s, _ := newTestStore(t)
	env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Viaje", TargetAmount: moneyOf(1000), Description: "Playa"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.UpdateEnvelope(env.ID, EnvelopeUpdate{Name: strPtr("Vacaciones"), TargetAmount: moneyOf(5000)})
	if err != nil || got == nil {
		t.Fatalf("update: %v %v", got, err)
	}
	if got.Name != "Vacaciones" || got.TargetAmount.Cents != 5000 || got.Description != "Playa" {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if !got.UpdatedAt.After(env.UpdatedAt) {
		t.Fatalf("UpdatedAt not refreshed")
	}

	got, _ = s.UpdateEnvelope(env.ID, EnvelopeUpdate{ClearTarget: true})
	if got.TargetAmount != nil {
		t.Fatalf("target not cleared")
	}

	if _, err := s.UpdateEnvelope(env.ID, EnvelopeUpdate{Name: strPtr(" ")}); !errors.Is(err, core.ErrMissingName) {
		t.Fatalf("err = %v, want ErrMissingName", err)
	}
	if _, err := s.UpdateEnvelope(env.ID, EnvelopeUpdate{TargetAmount: moneyOf(-3)}); !errors.Is(err, core.ErrInvalidTarget) {
		t.Fatalf("err = %v, want ErrInvalidTarget", err)
	}
	if got, err := s.UpdateEnvelope("missing", EnvelopeUpdate{Name: strPtr("x")}); got != nil || err != nil {
		t.Fatalf("unknown id should be lenient, got %v %v", got, err)
	}
}

func TestRemoveEnvelopeKeepsLinkedReferences(t *testing.T) {
	s, _ := newTestStore(t)
	env, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Renta"})
	if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: env.ID, Active: true}); err != nil {
		t.Fatalf("rule: %v", err)
	}
	rec, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(5000)})
	if err != nil {
		t.Fatalf("inbound: %v", err)
	}

	s.RemoveEnvelope(env.ID)
	s.RemoveEnvelope(env.ID)

	if _, ok := s.Envelope(rec.LinkedEnvelopeID); ok {
		t.Fatalf("removed envelope still resolves")
	}
	if s.Transfers()[0].LinkedEnvelopeID != env.ID {
		t.Fatalf("historical link must be kept")
	}
	if len(s.Automations()) != 1 {
		t.Fatalf("rules are left in place")
	}

	// The orphaned rule is skipped.
	rec, err = s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(5000)})
	if err != nil || rec.LinkedEnvelopeID != "" {
		t.Fatalf("orphaned rule fired: %+v %v", rec, err)
	}
}
