package ledger

import (
	"strings"

	"billetera/internal/core"
)

// AddNotification appends an item to the feed. Title and message are trimmed
// and an empty or unknown category becomes general.
func (s *Store) AddNotification(title, message string, category core.NotificationCategory) core.NotificationItem {
	var out core.NotificationItem
	_ = s.commit(func() error {
		if !category.IsValid() {
			category = core.CategoryGeneral
		}
		out = s.notify(strings.TrimSpace(title), strings.TrimSpace(message), category)
		s.record(core.EventNotificationAdded, out.ID, "", 0, string(category))
		return nil
	})
	return out
}

// notify prepends a notification as a side effect of another operation.
// Caller holds the write lock.
func (s *Store) notify(title, message string, category core.NotificationCategory) core.NotificationItem {
	n := core.NotificationItem{
		ID:        s.newID(),
		Title:     title,
		Message:   message,
		Timestamp: s.now(),
		Category:  category,
	}
	s.notifications.prepend(n)
	return n
}

// MarkNotificationRead marks one item as read; unknown ids are ignored.
func (s *Store) MarkNotificationRead(id string) {
	_ = s.commit(func() error {
		if n := s.findNotification(id); n != nil && !n.Read {
			n.Read = true
			s.record(core.EventNotificationsRead, id, "", 0, "")
		}
		return nil
	})
}

// ToggleNotificationRead flips the read flag of one item.
func (s *Store) ToggleNotificationRead(id string) {
	_ = s.commit(func() error {
		if n := s.findNotification(id); n != nil {
			n.Read = !n.Read
			s.record(core.EventNotificationsRead, id, "", 0, "toggle")
		}
		return nil
	})
}

// MarkAllNotificationsRead marks the whole feed as read.
func (s *Store) MarkAllNotificationsRead() {
	_ = s.commit(func() error {
		changed := 0
		s.notifications.each(func(n *core.NotificationItem) {
			if !n.Read {
				n.Read = true
				changed++
			}
		})
		if changed > 0 {
			s.record(core.EventNotificationsRead, "", "", int64(changed), "all")
		}
		return nil
	})
}

// ClearNotifications empties the feed.
func (s *Store) ClearNotifications() {
	_ = s.commit(func() error {
		n := s.notifications.len()
		if n == 0 {
			return nil
		}
		s.notifications.clear()
		s.record(core.EventNotificationsCleared, "", "", int64(n), "")
		return nil
	})
}

func (s *Store) findNotification(id string) *core.NotificationItem {
	return s.notifications.find(func(n *core.NotificationItem) bool { return n.ID == id })
}
