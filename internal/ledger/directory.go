package ledger

import (
	"container/list"
	"strings"

	"billetera/internal/core"
)

// directory keeps contacts unique by phone in most-recently-used order.
// The list front is the most recent contact; both indexes point at list elements.
type directory struct {
	order   *list.List
	byPhone map[string]*list.Element
	byID    map[string]*list.Element
}

func newDirectory() *directory {
	return &directory{
		order:   list.New(),
		byPhone: make(map[string]*list.Element),
		byID:    make(map[string]*list.Element),
	}
}

func phoneKey(phone string) string {
	return strings.TrimSpace(phone)
}

func (d *directory) len() int {
	return d.order.Len()
}

func (d *directory) byPhoneKey(phone string) *core.Contact {
	if elem, ok := d.byPhone[phoneKey(phone)]; ok {
		return elem.Value.(*core.Contact)
	}
	return nil
}

func (d *directory) get(id string) *core.Contact {
	if elem, ok := d.byID[id]; ok {
		return elem.Value.(*core.Contact)
	}
	return nil
}

// pushFront inserts a new contact. Callers check the phone is not indexed yet.
func (d *directory) pushFront(c core.Contact) *core.Contact {
	c.Phone = phoneKey(c.Phone)
	stored := &c
	elem := d.order.PushFront(stored)
	d.byPhone[c.Phone] = elem
	d.byID[c.ID] = elem
	return stored
}

// pushBack is used for seeding, where the input is already in recency order.
func (d *directory) pushBack(c core.Contact) {
	c = copyContact(&c)
	c.Phone = phoneKey(c.Phone)
	elem := d.order.PushBack(&c)
	d.byPhone[c.Phone] = elem
	d.byID[c.ID] = elem
}

func (d *directory) touch(id string) {
	if elem, ok := d.byID[id]; ok {
		d.order.MoveToFront(elem)
	}
}

func (d *directory) remove(id string) bool {
	elem, ok := d.byID[id]
	if !ok {
		return false
	}
	c := elem.Value.(*core.Contact)
	delete(d.byID, id)
	delete(d.byPhone, c.Phone)
	d.order.Remove(elem)
	return true
}

// rekey moves a contact to a new phone. The caller has validated uniqueness.
func (d *directory) rekey(id, phone string) {
	elem, ok := d.byID[id]
	if !ok {
		return
	}
	c := elem.Value.(*core.Contact)
	delete(d.byPhone, c.Phone)
	c.Phone = phoneKey(phone)
	d.byPhone[c.Phone] = elem
}

func (d *directory) reset(seed []core.Contact) {
	d.order.Init()
	d.byPhone = make(map[string]*list.Element, len(seed))
	d.byID = make(map[string]*list.Element, len(seed))
	for _, c := range seed {
		d.pushBack(c)
	}
}

// contacts returns copies in recency order.
func (d *directory) contacts() []core.Contact {
	out := make([]core.Contact, 0, d.order.Len())
	for elem := d.order.Front(); elem != nil; elem = elem.Next() {
		out = append(out, copyContact(elem.Value.(*core.Contact)))
	}
	return out
}
