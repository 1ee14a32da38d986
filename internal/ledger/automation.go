package ledger

import (
	"fmt"
	"strings"
	"time"

	"billetera/internal/core"
	"billetera/internal/log"
)

// Matcher decides whether a rule's match pattern applies to a sender phone.
type Matcher interface {
	Match(pattern, phone string) bool
}

// ExactPhoneMatcher matches when both phones are equal after trimming.
type ExactPhoneMatcher struct{}

// Match implements Matcher.
func (ExactPhoneMatcher) Match(pattern, phone string) bool {
	return phoneKey(pattern) != "" && phoneKey(pattern) == phoneKey(phone)
}

// DigitsMatcher compares only the digits of both phones, so "8890-1122"
// matches "8890 1122" and "88901122".
type DigitsMatcher struct{}

// Match implements Matcher.
func (DigitsMatcher) Match(pattern, phone string) bool {
	p := digitsOnly(pattern)
	return p != "" && p == digitsOnly(phone)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchers maps strategy names to implementations.
var matchers = map[string]Matcher{
	"exact":  ExactPhoneMatcher{},
	"digits": DigitsMatcher{},
}

// GetMatcher returns the matcher registered under name.
func GetMatcher(name string) (Matcher, error) {
	m, ok := matchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown automation matcher: %s", name)
	}
	return m, nil
}

// RegisterMatcher adds a matching strategy. Not safe for concurrent use with GetMatcher.
func RegisterMatcher(name string, m Matcher) {
	matchers[name] = m
}

// CreateAutomationRule stores a rule routing inbound transfers from
// MatchPhone into EnvelopeID, which must exist.
func (s *Store) CreateAutomationRule(d AutomationDraft) (core.AutomationRule, error) {
	var out core.AutomationRule
	err := s.commit(func() error {
		match := phoneKey(d.MatchPhone)
		if match == "" {
			return core.ErrMissingMatchPhone
		}
		env, ok := s.envelopes[d.EnvelopeID]
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrEnvelopeNotFound, d.EnvelopeID)
		}
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = fmt.Sprintf("%s → %s", match, env.Name)
		}
		r := &core.AutomationRule{
			ID:         s.newID(),
			Title:      title,
			MatchPhone: match,
			EnvelopeID: env.ID,
			Active:     d.Active,
		}
		s.automations = append(s.automations, r)
		s.notify("Automatización creada",
			fmt.Sprintf("Los depósitos de %s irán al sobre %s.", match, env.Name),
			core.CategoryGeneral)
		s.record(core.EventAutomationCreated, r.ID, match, 0, env.ID)
		out = copyRule(r)
		return nil
	})
	if err != nil {
		return core.AutomationRule{}, err
	}
	s.logger.WithComponent(log.ComponentAutomation).Info("Automation rule created",
		log.FieldRuleID, out.ID, log.FieldEnvelopeID, out.EnvelopeID, log.FieldPhone, out.MatchPhone)
	return out, nil
}

// UpdateAutomationRule applies a partial update. Unknown ids return nil, nil.
// Turning a rule inactive stops future matches; past allocations stay.
func (s *Store) UpdateAutomationRule(id string, u AutomationUpdate) (*core.AutomationRule, error) {
	var out *core.AutomationRule
	err := s.commit(func() error {
		r := s.findRule(id)
		if r == nil {
			return nil
		}
		if u.MatchPhone != nil && phoneKey(*u.MatchPhone) == "" {
			return core.ErrMissingMatchPhone
		}
		if u.EnvelopeID != nil {
			if _, ok := s.envelopes[*u.EnvelopeID]; !ok {
				return fmt.Errorf("%w: %s", core.ErrEnvelopeNotFound, *u.EnvelopeID)
			}
		}
		if u.Title != nil && !core.Blank(*u.Title) {
			r.Title = strings.TrimSpace(*u.Title)
		}
		if u.MatchPhone != nil {
			r.MatchPhone = phoneKey(*u.MatchPhone)
		}
		if u.EnvelopeID != nil {
			r.EnvelopeID = *u.EnvelopeID
		}
		if u.Active != nil {
			r.Active = *u.Active
		}
		s.record(core.EventAutomationUpdated, r.ID, r.MatchPhone, 0, fmt.Sprintf("active=%t", r.Active))
		v := copyRule(r)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveAutomationRule deletes a rule; unknown ids are ignored.
func (s *Store) RemoveAutomationRule(id string) {
	_ = s.commit(func() error {
		for i, r := range s.automations {
			if r.ID == id {
				s.automations = append(s.automations[:i], s.automations[i+1:]...)
				s.record(core.EventAutomationRemoved, id, r.MatchPhone, 0, r.EnvelopeID)
				return nil
			}
		}
		return nil
	})
}

func (s *Store) findRule(id string) *core.AutomationRule {
	for _, r := range s.automations {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// checkAutomationCredits reports ErrInvalidAmount when crediting amount to an
// envelope targeted by a matching rule would overflow its balance. Envelopes
// hit by several rules are checked against the accumulated sum.
func (s *Store) checkAutomationCredits(phone string, amount core.Money) error {
	projected := make(map[string]core.Money)
	for _, r := range s.automations {
		if !r.Active || !s.matcher.Match(r.MatchPhone, phone) {
			continue
		}
		env, ok := s.envelopes[r.EnvelopeID]
		if !ok {
			continue
		}
		cur, seen := projected[env.ID]
		if !seen {
			cur = env.Balance
		}
		next, err := cur.CheckedAdd(amount)
		if err != nil {
			return fmt.Errorf("%w: envelope %s would overflow", err, env.Name)
		}
		projected[env.ID] = next
	}
	return nil
}

// applyAutomations deposits amount into the envelope of every active rule
// matching phone, in creation order. Each rule receives the full amount.
// Rules whose envelope was removed are skipped. It returns the first envelope
// credited and the number of rules fired. Caller holds the write lock and has
// run checkAutomationCredits.
func (s *Store) applyAutomations(phone string, amount core.Money, at time.Time) (string, int) {
	var (
		linked string
		fired  int
	)
	alog := s.logger.WithComponent(log.ComponentAutomation)
	for _, r := range s.automations {
		if !r.Active || !s.matcher.Match(r.MatchPhone, phone) {
			continue
		}
		env, ok := s.envelopes[r.EnvelopeID]
		if !ok {
			alog.Warn("Automation rule targets a removed envelope",
				log.FieldRuleID, r.ID, log.FieldEnvelopeID, r.EnvelopeID)
			continue
		}
		env.Balance = env.Balance.Add(amount)
		env.UpdatedAt = at
		r.LastTriggeredAt = timePtr(at)
		fired++
		if linked == "" {
			linked = env.ID
		}
		s.notify("Automatización aplicada",
			fmt.Sprintf("%s de %s se asignaron al sobre %s.", s.money(amount), phone, env.Name),
			core.CategoryGeneral)
		s.record(core.EventAutomationTriggered, r.ID, phone, amount.Cents, env.ID)
		alog.Debug("Automation rule fired",
			log.FieldRuleID, r.ID, log.FieldEnvelopeID, env.ID, log.FieldAmountCents, amount.Cents)
	}
	return linked, fired
}
