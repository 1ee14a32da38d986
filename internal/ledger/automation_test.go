package ledger

import (
	"errors"
	"testing"

	"billetera/internal/core"
)

func TestAutomationExample(t *testing.T) {
	s, sink := newTestStore(t)
	env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	if err != nil {
		t.Fatalf("create envelope: %v", err)
	}
	rule, err := s.CreateAutomationRule(AutomationDraft{Title: "Mesada", MatchPhone: " 7000-0000 ", EnvelopeID: env.ID, Active: true})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if rule.MatchPhone != "7000-0000" || rule.LastTriggeredAt != nil {
		t.Fatalf("unexpected rule %+v", rule)
	}

	rec, err := s.RecordInboundTransfer(InboundTransferDraft{SenderName: "Mamá", SenderPhone: "7000-0000", Amount: cents(500000)})
	if err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if rec.LinkedEnvelopeID != env.ID {
		t.Fatalf("linked envelope = %q", rec.LinkedEnvelopeID)
	}
	got, _ := s.Envelope(env.ID)
	if got.Balance != cents(500000) {
		t.Fatalf("envelope balance = %s", got.Balance)
	}
	if r := s.Automations()[0]; r.LastTriggeredAt == nil {
		t.Fatalf("LastTriggeredAt not set")
	}

	feed := s.Notifications()
	if feed[0].Title != "Automatización aplicada" || feed[0].Category != core.CategoryGeneral {
		t.Fatalf("unexpected notification %+v", feed[0])
	}
	if feed[1].Title != "Transferencia recibida" {
		t.Fatalf("transfer notification missing: %+v", feed[1])
	}

	kinds := sink.kinds()
	if kinds[len(kinds)-1] != core.EventAutomationTriggered {
		t.Fatalf("unexpected events %v", kinds)
	}
}

func TestAutomationOnlyFiresForExactActiveMatch(t *testing.T) {
	s, _ := newTestStore(t)
	env, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	rule, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: env.ID, Active: true})
	if err != nil {
		t.Fatalf("rule: %v", err)
	}

	for _, phone := range []string{"7000-00001", "7000", "8000-0000"} {
		if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: phone, Amount: cents(100)}); err != nil {
			t.Fatalf("inbound: %v", err)
		}
	}
	if got, _ := s.Envelope(env.ID); got.Balance.Cents != 0 {
		t.Fatalf("non-matching phones fired: %s", got.Balance)
	}

	if _, err := s.SendTransfer(TransferDraft{Phone: "7000-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got, _ := s.Envelope(env.ID); got.Balance.Cents != 0 {
		t.Fatalf("outbound transfer fired a rule")
	}

	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if _, err := s.UpdateAutomationRule(rule.ID, AutomationUpdate{Active: boolPtr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if got, _ := s.Envelope(env.ID); got.Balance.Cents != 100 {
		t.Fatalf("balance = %s, deactivation must stop firing and keep history", got.Balance)
	}
}

func TestAutomationFanOut(t *testing.T) {
	s, _ := newTestStore(t)
	first, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Uno"})
	second, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Dos"})
	for _, id := range []string{first.ID, second.ID} {
		if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: id, Active: true}); err != nil {
			t.Fatalf("rule: %v", err)
		}
	}

	rec, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(3000)})
	if err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if rec.LinkedEnvelopeID != first.ID {
		t.Fatalf("link should point at the first rule's envelope")
	}
	for _, id := range []string{first.ID, second.ID} {
		if got, _ := s.Envelope(id); got.Balance != cents(3000) {
			t.Fatalf("envelope %s balance = %s, want full amount", id, got.Balance)
		}
	}
	if s.Balance() != DefaultInitialBalance.Add(cents(3000)) {
		t.Fatalf("balance = %s", s.Balance())
	}
}

func TestCreateAutomationRuleValidation(t *testing.T) {
	s, sink := newTestStore(t)
	env, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	batches := sink.batchCount()

	if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: " ", EnvelopeID: env.ID}); !errors.Is(err, core.ErrMissingMatchPhone) {
		t.Fatalf("err = %v, want ErrMissingMatchPhone", err)
	}
	if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: "missing"}); !errors.Is(err, core.ErrEnvelopeNotFound) {
		t.Fatalf("err = %v, want ErrEnvelopeNotFound", err)
	}
	if len(s.Automations()) != 0 || sink.batchCount() != batches {
		t.Fatalf("failed creation changed state")
	}
}

func TestUpdateAndRemoveAutomationRule(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.CreateEnvelope(EnvelopeDraft{Name: "A"})
	b, _ := s.CreateEnvelope(EnvelopeDraft{Name: "B"})
	rule, _ := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: a.ID, Active: true})

	got, err := s.UpdateAutomationRule(rule.ID, AutomationUpdate{EnvelopeID: strPtr(b.ID), Title: strPtr("Nuevo")})
	if err != nil || got == nil || got.EnvelopeID != b.ID || got.Title != "Nuevo" {
		t.Fatalf("update: %+v %v", got, err)
	}
	if _, err := s.UpdateAutomationRule(rule.ID, AutomationUpdate{EnvelopeID: strPtr("missing")}); !errors.Is(err, core.ErrEnvelopeNotFound) {
		t.Fatalf("err = %v, want ErrEnvelopeNotFound", err)
	}
	if _, err := s.UpdateAutomationRule(rule.ID, AutomationUpdate{MatchPhone: strPtr("")}); !errors.Is(err, core.ErrMissingMatchPhone) {
		t.Fatalf("err = %v, want ErrMissingMatchPhone", err)
	}
	if got, err := s.UpdateAutomationRule("missing", AutomationUpdate{Active: boolPtr(true)}); got != nil || err != nil {
		t.Fatalf("unknown rule should be lenient")
	}

	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	s.RemoveAutomationRule(rule.ID)
	s.RemoveAutomationRule(rule.ID)
	if len(s.Automations()) != 0 {
		t.Fatalf("rule not removed")
	}
	if got, _ := s.Envelope(b.ID); got.Balance.Cents != 100 {
		t.Fatalf("removal must not undo past allocations")
	}
}

func TestDigitsMatcher(t *testing.T) {
	tests := []struct {
		pattern, phone string
		want           bool
	}{
		{"8890-1122", "88901122", true},
		{"8890 1122", " 8890-1122 ", true},
		{"8890-1122", "8890-1123", false},
		{"---", "", false},
	}
	for _, tt := range tests {
		if got := (DigitsMatcher{}).Match(tt.pattern, tt.phone); got != tt.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", tt.pattern, tt.phone, got, tt.want)
		}
	}

	m, err := GetMatcher("digits")
	if err != nil {
		t.Fatalf("digits matcher missing: %v", err)
	}
	s, _ := newTestStore(t, WithMatcher(m))
	env, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "7000-0000", EnvelopeID: env.ID, Active: true}); err != nil {
		t.Fatalf("rule: %v", err)
	}
	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "70000000", Amount: cents(100)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if got, _ := s.Envelope(env.ID); got.Balance.Cents != 100 {
		t.Fatalf("digits matcher not used, envelope balance = %d", got.Balance.Cents)
	}
}

type suffixMatcher struct{}

func (suffixMatcher) Match(pattern, phone string) bool {
	return len(phone) >= len(pattern) && phone[len(phone)-len(pattern):] == pattern
}

func TestMatcherRegistry(t *testing.T) {
	if _, err := GetMatcher("exact"); err != nil {
		t.Fatalf("exact matcher missing: %v", err)
	}
	if _, err := GetMatcher("regex"); err == nil {
		t.Fatalf("expected error for unknown matcher")
	}
	RegisterMatcher("suffix", suffixMatcher{})
	m, err := GetMatcher("suffix")
	if err != nil {
		t.Fatalf("GetMatcher: %v", err)
	}

	s, _ := newTestStore(t, WithMatcher(m))
	env, _ := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	if _, err := s.CreateAutomationRule(AutomationDraft{MatchPhone: "0000", EnvelopeID: env.ID, Active: true}); err != nil {
		t.Fatalf("rule: %v", err)
	}
	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderPhone: "7000-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}
	if got, _ := s.Envelope(env.ID); got.Balance.Cents != 100 {
		t.Fatalf("custom matcher not used")
	}
}
