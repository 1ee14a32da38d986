package ledger

import "billetera/internal/core"

// Snapshot returns a consistent copy of everything the store exposes.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Balance:              s.balance,
		InitialBalance:       s.initialBalance,
		IsAuthenticated:      s.authenticated,
		User:                 s.user,
		Contacts:             s.contacts.contacts(),
		Transfers:            s.transfers.all(),
		Recharges:            s.recharges.all(),
		Envelopes:            s.envelopeList(),
		Automations:          s.automationList(),
		Notifications:        s.notifications.all(),
		BiometricRegistered:  s.biometricRegistered,
		BiometricAttempts:    s.biometricAttempts.all(),
		TotalEnvelopeBalance: s.totalEnvelopeBalance(),
		UnreadNotifications:  s.unreadCount(),
	}
}

func (s *Store) Balance() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

func (s *Store) InitialBalance() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialBalance
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) User() core.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Contacts returns the directory in most-recently-used order.
func (s *Store) Contacts() []core.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contacts.contacts()
}

// Contact looks a contact up by id.
func (s *Store) Contact(id string) (core.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.contacts.get(id); c != nil {
		return copyContact(c), true
	}
	return core.Contact{}, false
}

func (s *Store) Transfers() []core.TransferRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transfers.all()
}

func (s *Store) Recharges() []core.RechargeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recharges.all()
}

// Envelopes returns envelopes in creation order.
func (s *Store) Envelopes() []core.Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.envelopeList()
}

// Envelope resolves an id, including ids kept by historical transfers after
// the envelope was removed; those simply report false.
func (s *Store) Envelope(id string) (core.Envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.envelopes[id]; ok {
		return copyEnvelope(e), true
	}
	return core.Envelope{}, false
}

// TotalEnvelopeBalance sums all envelope balances. It is informational and
// is never reconciled against Balance.
func (s *Store) TotalEnvelopeBalance() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalEnvelopeBalance()
}

func (s *Store) Automations() []core.AutomationRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.automationList()
}

func (s *Store) Notifications() []core.NotificationItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications.all()
}

// UnreadCount returns how many notifications are still unread.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount()
}

func (s *Store) BiometricRegistered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.biometricRegistered
}

func (s *Store) BiometricAttempts() []core.BiometricAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.biometricAttempts.all()
}

func (s *Store) envelopeList() []core.Envelope {
	out := make([]core.Envelope, 0, len(s.envelopeOrder))
	for _, id := range s.envelopeOrder {
		out = append(out, copyEnvelope(s.envelopes[id]))
	}
	return out
}

func (s *Store) automationList() []core.AutomationRule {
	out := make([]core.AutomationRule, 0, len(s.automations))
	for _, r := range s.automations {
		out = append(out, copyRule(r))
	}
	return out
}

func (s *Store) totalEnvelopeBalance() core.Money {
	var total core.Money
	for _, e := range s.envelopes {
		total = total.Add(e.Balance)
	}
	return total
}

func (s *Store) unreadCount() int {
	n := 0
	s.notifications.each(func(item *core.NotificationItem) {
		if !item.Read {
			n++
		}
	})
	return n
}

func copyEnvelope(e *core.Envelope) core.Envelope {
	out := *e
	out.TargetAmount = moneyPtr(e.TargetAmount)
	return out
}

func copyContact(c *core.Contact) core.Contact {
	out := *c
	out.LastUsedAt = clonePtr(c.LastUsedAt)
	return out
}

func copyRule(r *core.AutomationRule) core.AutomationRule {
	out := *r
	out.LastTriggeredAt = clonePtr(r.LastTriggeredAt)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
