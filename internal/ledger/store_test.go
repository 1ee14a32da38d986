package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"billetera/internal/core"
)

var testEpoch = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// recordingSink collects enqueued batches.
type recordingSink struct {
	mu      sync.Mutex
	batches [][]core.Event
}

func (r *recordingSink) Enqueue(events ...core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]core.Event(nil), events...))
}

func (r *recordingSink) kinds() []core.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.EventKind
	for _, b := range r.batches {
		for _, e := range b {
			out = append(out, e.Kind)
		}
	}
	return out
}

func (r *recordingSink) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	clock := &testClock{now: testEpoch}
	base := []Option{
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(7))),
		WithSleep(func(time.Duration) {}),
		WithIDGenerator(sequentialIDs()),
		WithSink(sink),
	}
	return New(append(base, opts...)...), sink
}

func cents(c int64) core.Money {
	return core.Money{Cents: c}
}

func TestNewStoreSeed(t *testing.T) {
	s, sink := newTestStore(t)

	if s.IsAuthenticated() {
		t.Fatalf("new store must start logged out")
	}
	if got := s.Balance(); got != DefaultInitialBalance {
		t.Fatalf("balance = %s, want %s", got, DefaultInitialBalance)
	}
	if got := s.InitialBalance(); got != DefaultInitialBalance {
		t.Fatalf("initial balance = %s", got)
	}
	if n := len(s.Contacts()); n != 3 {
		t.Fatalf("expected 3 seed contacts, got %d", n)
	}
	if n := len(s.Transfers()); n != 2 {
		t.Fatalf("expected 2 seed transfers, got %d", n)
	}
	if n := len(s.Recharges()); n != 1 {
		t.Fatalf("expected 1 seed recharge, got %d", n)
	}
	if got := s.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
	if sink.batchCount() != 0 {
		t.Fatalf("seeding must not emit events")
	}
}

func TestStoresAreIndependent(t *testing.T) {
	a, _ := newTestStore(t)
	b, _ := newTestStore(t)

	if _, err := a.SendTransfer(TransferDraft{ContactName: "Ana", Phone: "8888-0000", Amount: cents(100)}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if b.Balance() != DefaultInitialBalance {
		t.Fatalf("second store changed: %s", b.Balance())
	}
}

func TestOptionsOverrideSeed(t *testing.T) {
	profile := DefaultProfile
	profile.Name = "Ana Solís"
	s, _ := newTestStore(t, WithInitialBalance(cents(1000)), WithProfile(profile))

	if s.Balance() != cents(1000) || s.InitialBalance() != cents(1000) {
		t.Fatalf("unexpected balances %s/%s", s.Balance(), s.InitialBalance())
	}
	if s.User().Name != "Ana Solís" {
		t.Fatalf("profile not applied: %+v", s.User())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Viaje", TargetAmount: &core.Money{Cents: 5000}})
	if err != nil {
		t.Fatalf("create envelope: %v", err)
	}

	snap := s.Snapshot()
	snap.Contacts[0].Name = "changed"
	snap.Envelopes[0].TargetAmount.Cents = 1
	snap.Notifications[0].Read = true

	if s.Contacts()[0].Name == "changed" {
		t.Fatalf("snapshot shares contacts")
	}
	got, _ := s.Envelope(env.ID)
	if got.TargetAmount.Cents != 5000 {
		t.Fatalf("snapshot shares envelope target")
	}
	if s.Notifications()[0].Read {
		t.Fatalf("snapshot shares notifications")
	}
	if snap.UnreadNotifications != 2 {
		t.Fatalf("unread in snapshot = %d", snap.UnreadNotifications)
	}

	seeded := *s.Contacts()[0].LastUsedAt
	*snap.Contacts[0].LastUsedAt = time.Unix(0, 0)
	if got := *s.Contacts()[0].LastUsedAt; !got.Equal(seeded) {
		t.Fatalf("snapshot shares contact timestamp: %v", got)
	}
	c, ok := s.Contact(snap.Contacts[0].ID)
	if !ok {
		t.Fatalf("contact %s missing", snap.Contacts[0].ID)
	}
	*c.LastUsedAt = time.Unix(0, 0)
	s.Logout()
	if got := *s.Contacts()[0].LastUsedAt; !got.Equal(seeded) {
		t.Fatalf("seed timestamp mutated through a read: %v", got)
	}
}

func TestAutomationReadsDoNotShareTimestamps(t *testing.T) {
	s, _ := newTestStore(t)
	env, err := s.CreateEnvelope(EnvelopeDraft{Name: "Ahorro"})
	if err != nil {
		t.Fatalf("create envelope: %v", err)
	}
	if _, err := s.CreateAutomationRule(AutomationDraft{Title: "Mesada", MatchPhone: "7000-0000", EnvelopeID: env.ID, Active: true}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := s.RecordInboundTransfer(InboundTransferDraft{SenderName: "Mamá", SenderPhone: "7000-0000", Amount: cents(1000)}); err != nil {
		t.Fatalf("inbound: %v", err)
	}

	rules := s.Automations()
	if rules[0].LastTriggeredAt == nil {
		t.Fatalf("rule not triggered")
	}
	want := *rules[0].LastTriggeredAt
	*rules[0].LastTriggeredAt = time.Unix(0, 0)
	if got := *s.Automations()[0].LastTriggeredAt; !got.Equal(want) {
		t.Fatalf("automation list shares timestamp: %v", got)
	}
}

func TestConcurrentTransfersKeepBalanceConsistent(t *testing.T) {
	s, _ := newTestStore(t, WithInitialBalance(cents(100000)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.SendTransfer(TransferDraft{Phone: fmt.Sprintf("6000-%04d", i%5), Amount: cents(1000)})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	if got := s.Balance(); got != cents(50000) {
		t.Fatalf("balance = %s, want 500.00", got)
	}
	if n := len(s.Transfers()); n != TransferHistoryLimit {
		t.Fatalf("transfers = %d, want %d", n, TransferHistoryLimit)
	}
	phones := map[string]bool{}
	for _, c := range s.Contacts() {
		if phones[c.Phone] {
			t.Fatalf("duplicate phone %s", c.Phone)
		}
		phones[c.Phone] = true
	}
}
