package ledger

// History caps, newest entries first.
const (
	TransferHistoryLimit     = 20
	RechargeHistoryLimit     = 20
	NotificationLimit        = 30
	BiometricAttemptLimit    = 5
	contactFavoriteBootstrap = 3
)

// capped is a newest-first list truncated on every insert. Eviction always
// removes from the tail, i.e. the oldest insertion.
type capped[T any] struct {
	items []T
	limit int
}

func newCapped[T any](limit int) *capped[T] {
	return &capped[T]{items: make([]T, 0, limit), limit: limit}
}

// prepend inserts v at the front and returns how many entries were evicted.
func (c *capped[T]) prepend(v T) int {
	c.items = append(c.items, v)
	copy(c.items[1:], c.items[:len(c.items)-1])
	c.items[0] = v
	return c.truncate()
}

func (c *capped[T]) truncate() int {
	if len(c.items) <= c.limit {
		return 0
	}
	evicted := len(c.items) - c.limit
	var zero T
	for i := c.limit; i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = c.items[:c.limit]
	return evicted
}

// reset replaces the content with a copy of items, applying the cap.
func (c *capped[T]) reset(items []T) {
	c.items = append(make([]T, 0, c.limit), items...)
	c.truncate()
}

// find returns a pointer into the backing slice for in-place edits.
func (c *capped[T]) find(match func(*T) bool) *T {
	for i := range c.items {
		if match(&c.items[i]) {
			return &c.items[i]
		}
	}
	return nil
}

func (c *capped[T]) each(fn func(*T)) {
	for i := range c.items {
		fn(&c.items[i])
	}
}

func (c *capped[T]) clear() {
	c.items = c.items[:0]
}

func (c *capped[T]) len() int {
	return len(c.items)
}

func (c *capped[T]) all() []T {
	return append([]T(nil), c.items...)
}
