// Package ledger implements the client-side financial ledger: balance,
// transfer and recharge history, contact directory, envelopes, automation
// rules, notification feed and the biometric simulation.
//
// A Store is an explicit state container. Every exported mutation runs as one
// step under the store's lock, so readers never observe a half-applied
// composite such as a debited balance without its transfer record.
package ledger

import (
	"math/rand"
	"sync"
	"time"

	"billetera/internal/core"
	"billetera/internal/format"
	"billetera/internal/log"

	"github.com/google/uuid"
)

// EventSink receives the events of committed operations. Enqueue must not
// block; the store calls it after releasing its lock.
type EventSink interface {
	Enqueue(events ...core.Event)
}

// Store owns all ledger state. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	now       func() time.Time
	sleep     func(time.Duration)
	rng       *rand.Rand
	newID     func() string
	logger    *log.Logger
	sink      EventSink
	formatter format.Formatter
	matcher   Matcher

	seed seed

	initialBalance      core.Money
	balance             core.Money
	authenticated       bool
	user                core.UserProfile
	contacts            *directory
	transfers           *capped[core.TransferRecord]
	recharges           *capped[core.RechargeRecord]
	envelopes           map[string]*core.Envelope
	envelopeOrder       []string
	automations         []*core.AutomationRule
	notifications       *capped[core.NotificationItem]
	biometricRegistered bool
	biometricAttempts   *capped[core.BiometricAttempt]

	// events collected during the current write transaction
	pending []core.Event
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSleep overrides the delay used by the biometric simulation.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Store) { s.sleep = sleep }
}

// WithRand sets the pseudo-random source for colors and biometric outcomes.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger; the ledger component name is applied.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSink forwards committed events, typically to the activity journal.
func WithSink(sink EventSink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithFormatter sets the amount formatter used in notification messages.
func WithFormatter(f format.Formatter) Option {
	return func(s *Store) { s.formatter = f }
}

// WithMatcher sets the strategy deciding whether an automation rule applies.
func WithMatcher(m Matcher) Option {
	return func(s *Store) { s.matcher = m }
}

// WithInitialBalance overrides the seeded opening balance.
func WithInitialBalance(m core.Money) Option {
	return func(s *Store) { s.seed.balance = m }
}

// WithProfile overrides the seeded user profile.
func WithProfile(p core.UserProfile) Option {
	return func(s *Store) { s.seed.user = p }
}

// New builds a store in its seeded, logged-out state.
func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		sleep:     time.Sleep,
		newID:     uuid.NewString,
		formatter: format.Default,
		matcher:   ExactPhoneMatcher{},
		seed: seed{
			balance: DefaultInitialBalance,
			user:    DefaultProfile,
		},
		transfers:         newCapped[core.TransferRecord](TransferHistoryLimit),
		recharges:         newCapped[core.RechargeRecord](RechargeHistoryLimit),
		notifications:     newCapped[core.NotificationItem](NotificationLimit),
		biometricAttempts: newCapped[core.BiometricAttempt](BiometricAttemptLimit),
		contacts:          newDirectory(),
		envelopes:         make(map[string]*core.Envelope),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)

	s.seed.materialize(s.now())
	s.initialBalance = s.seed.balance
	s.balance = s.seed.balance
	s.user = s.seed.user
	s.resetSession()
	return s
}

// resetSession restores histories, contacts and notifications to the seed.
// Caller holds the write lock (or owns the store exclusively).
func (s *Store) resetSession() {
	s.transfers.reset(s.seed.transfers)
	s.recharges.reset(s.seed.recharges)
	s.notifications.reset(s.seed.notifications)
	s.contacts.reset(s.seed.contacts)
}

// commit runs fn under the write lock and publishes the events it recorded
// once the lock is released. Events of a failed fn are discarded; every fn
// validates before it mutates.
func (s *Store) commit(fn func() error) error {
	s.mu.Lock()
	err := fn()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.sink != nil && len(events) > 0 {
		s.sink.Enqueue(events...)
	}
	return nil
}

// record queues an event for the current transaction. Caller holds the write lock.
func (s *Store) record(kind core.EventKind, entityID, phone string, amountCents int64, detail string) {
	s.pending = append(s.pending, core.Event{
		ID:          s.newID(),
		Kind:        kind,
		OccurredAt:  s.now(),
		EntityID:    entityID,
		Phone:       phone,
		AmountCents: amountCents,
		Detail:      detail,
	})
}

func (s *Store) money(m core.Money) string {
	return s.formatter.Format(m)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func moneyPtr(m *core.Money) *core.Money {
	return clonePtr(m)
}
