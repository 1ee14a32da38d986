package ledger

import (
	"strings"

	"billetera/internal/core"
	"billetera/internal/log"
)

// AddContact creates a contact or, when the phone is already known, updates
// the provided fields, refreshes LastUsedAt and moves it to the front.
func (s *Store) AddContact(d ContactDraft) (core.Contact, error) {
	var out core.Contact
	err := s.commit(func() error {
		phone := phoneKey(d.Phone)
		if phone == "" {
			return core.ErrMissingPhone
		}
		favorite := false
		if d.Favorite != nil {
			favorite = *d.Favorite
		}
		c := s.upsertContact(phone, contactPatch{
			name:     strings.TrimSpace(d.Name),
			color:    strings.TrimSpace(d.Color),
			favorite: d.Favorite,
		}, favorite)
		out = copyContact(c)
		return nil
	})
	if err != nil {
		return core.Contact{}, err
	}
	return out, nil
}

// UpdateContact edits fields in place without changing recency. It returns
// nil, nil for an unknown id. Moving a contact to a phone owned by another
// contact fails with ErrDuplicatePhone.
func (s *Store) UpdateContact(id string, u ContactUpdate) (*core.Contact, error) {
	var out *core.Contact
	err := s.commit(func() error {
		c := s.contacts.get(id)
		if c == nil {
			return nil
		}
		if u.Phone != nil {
			phone := phoneKey(*u.Phone)
			if phone == "" {
				return core.ErrMissingPhone
			}
			if other := s.contacts.byPhoneKey(phone); other != nil && other.ID != id {
				return core.ErrDuplicatePhone
			}
		}
		if u.Name != nil && !core.Blank(*u.Name) {
			c.Name = strings.TrimSpace(*u.Name)
		}
		if u.Color != nil && !core.Blank(*u.Color) {
			c.Color = strings.TrimSpace(*u.Color)
		}
		if u.Favorite != nil {
			c.Favorite = *u.Favorite
		}
		if u.Phone != nil {
			s.contacts.rekey(id, *u.Phone)
		}
		s.record(core.EventContactUpdated, c.ID, c.Phone, 0, c.Name)
		v := copyContact(c)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveContact deletes a contact; unknown ids are ignored.
func (s *Store) RemoveContact(id string) {
	_ = s.commit(func() error {
		c := s.contacts.get(id)
		if c == nil {
			return nil
		}
		phone := c.Phone
		s.contacts.remove(id)
		s.record(core.EventContactRemoved, id, phone, 0, "")
		return nil
	})
}

// ToggleFavoriteContact flips the favorite flag; unknown ids are ignored.
func (s *Store) ToggleFavoriteContact(id string) {
	_ = s.commit(func() error {
		c := s.contacts.get(id)
		if c == nil {
			return nil
		}
		c.Favorite = !c.Favorite
		s.record(core.EventContactUpdated, c.ID, c.Phone, 0, "favorite")
		return nil
	})
}

// RecordContactUsage upserts the contact for phone as a side effect of other
// flows. Blank phones are ignored.
func (s *Store) RecordContactUsage(phone string, name *string) {
	_ = s.commit(func() error {
		if phoneKey(phone) == "" {
			return nil
		}
		s.useContact(phone, name)
		return nil
	})
}

type contactPatch struct {
	name     string
	color    string
	favorite *bool
}

// useContact is the passive upsert shared by transfers and RecordContactUsage:
// a new contact becomes a favorite only while the directory is still small.
// Caller holds the write lock.
func (s *Store) useContact(phone string, name *string) *core.Contact {
	patch := contactPatch{}
	if name != nil {
		patch.name = strings.TrimSpace(*name)
	}
	return s.upsertContact(phone, patch, s.contacts.len() < contactFavoriteBootstrap)
}

// upsertContact applies patch to the contact keyed by phone, creating it at
// the front when missing. favoriteIfNew is only used on creation.
// Caller holds the write lock.
func (s *Store) upsertContact(phone string, patch contactPatch, favoriteIfNew bool) *core.Contact {
	phone = phoneKey(phone)
	now := s.now()
	if c := s.contacts.byPhoneKey(phone); c != nil {
		if patch.name != "" {
			c.Name = patch.name
		}
		if patch.color != "" {
			c.Color = patch.color
		}
		if patch.favorite != nil {
			c.Favorite = *patch.favorite
		}
		c.LastUsedAt = timePtr(now)
		s.contacts.touch(c.ID)
		s.record(core.EventContactUpserted, c.ID, c.Phone, 0, c.Name)
		return c
	}

	name := patch.name
	if name == "" {
		name = phoneKey(phone)
	}
	color := patch.color
	if color == "" {
		color = contactPalette[s.rng.Intn(len(contactPalette))]
	}
	c := s.contacts.pushFront(core.Contact{
		ID:         s.newID(),
		Name:       name,
		Phone:      phone,
		Color:      color,
		Favorite:   favoriteIfNew,
		LastUsedAt: timePtr(now),
	})
	s.record(core.EventContactUpserted, c.ID, c.Phone, 0, c.Name)
	s.logger.Debug("Contact created", log.FieldContactID, c.ID, log.FieldPhone, c.Phone)
	return c
}
