package ledger

import (
	"fmt"
	"strings"

	"billetera/internal/core"
	"billetera/internal/log"
)

// CreateEnvelope adds a named sub-balance starting at zero.
func (s *Store) CreateEnvelope(d EnvelopeDraft) (core.Envelope, error) {
	var out core.Envelope
	err := s.commit(func() error {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return core.ErrMissingName
		}
		if err := core.ValidateTarget(d.TargetAmount); err != nil {
			return err
		}
		color := strings.TrimSpace(d.Color)
		if color == "" {
			color = envelopePalette[len(s.envelopeOrder)%len(envelopePalette)]
		}
		e := &core.Envelope{
			ID:           s.newID(),
			Name:         name,
			Color:        color,
			TargetAmount: moneyPtr(d.TargetAmount),
			Description:  strings.TrimSpace(d.Description),
			UpdatedAt:    s.now(),
		}
		s.envelopes[e.ID] = e
		s.envelopeOrder = append(s.envelopeOrder, e.ID)

		msg := fmt.Sprintf("Creaste el sobre %s.", name)
		if e.TargetAmount != nil && e.TargetAmount.Cents > 0 {
			msg = fmt.Sprintf("Creaste el sobre %s con una meta de %s.", name, s.money(*e.TargetAmount))
		}
		s.notify("Sobre creado", msg, core.CategoryGeneral)
		s.record(core.EventEnvelopeCreated, e.ID, "", 0, name)
		out = copyEnvelope(e)
		return nil
	})
	if err != nil {
		return core.Envelope{}, err
	}
	s.logger.Info("Envelope created", log.FieldEnvelopeID, out.ID, log.FieldOperation, log.OpCreate)
	return out, nil
}

// UpdateEnvelope applies a partial update. Unknown ids return nil, nil.
func (s *Store) UpdateEnvelope(id string, u EnvelopeUpdate) (*core.Envelope, error) {
	var out *core.Envelope
	err := s.commit(func() error {
		e, ok := s.envelopes[id]
		if !ok {
			return nil
		}
		if u.Name != nil && core.Blank(*u.Name) {
			return core.ErrMissingName
		}
		if err := core.ValidateTarget(u.TargetAmount); err != nil {
			return err
		}
		if u.Name != nil {
			e.Name = strings.TrimSpace(*u.Name)
		}
		if u.Color != nil && !core.Blank(*u.Color) {
			e.Color = strings.TrimSpace(*u.Color)
		}
		switch {
		case u.ClearTarget:
			e.TargetAmount = nil
		case u.TargetAmount != nil:
			e.TargetAmount = moneyPtr(u.TargetAmount)
		}
		if u.Description != nil {
			e.Description = strings.TrimSpace(*u.Description)
		}
		e.UpdatedAt = s.now()
		s.record(core.EventEnvelopeUpdated, e.ID, "", 0, e.Name)
		v := copyEnvelope(e)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveEnvelope deletes the envelope. Transfers keep their LinkedEnvelopeID
// and automation rules keep their EnvelopeID; both resolve to not-found.
func (s *Store) RemoveEnvelope(id string) {
	_ = s.commit(func() error {
		e, ok := s.envelopes[id]
		if !ok {
			return nil
		}
		delete(s.envelopes, id)
		for i, eid := range s.envelopeOrder {
			if eid == id {
				s.envelopeOrder = append(s.envelopeOrder[:i], s.envelopeOrder[i+1:]...)
				break
			}
		}
		s.record(core.EventEnvelopeRemoved, id, "", e.Balance.Cents, e.Name)
		return nil
	})
}

// AllocateToEnvelope moves a signed amount into (positive) or out of
// (negative) an envelope. The top-level balance is not touched: envelopes are
// a view over money already received, and callers that want the deposit to
// come out of the available balance validate that themselves.
func (s *Store) AllocateToEnvelope(id string, amount core.Money, opts AllocateOptions) error {
	var after core.Money
	err := s.commit(func() error {
		e, ok := s.envelopes[id]
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrEnvelopeNotFound, id)
		}
		if amount.Cents == 0 {
			return core.ErrInvalidAmount
		}
		next, err := e.Balance.CheckedAdd(amount)
		if err != nil {
			return err
		}
		if next.IsNegative() && !opts.AllowNegative {
			return fmt.Errorf("%w: %s has %s", core.ErrInsufficientEnvelopeBalance, e.Name, e.Balance)
		}
		e.Balance = next
		e.UpdatedAt = s.now()
		after = next

		title, verb := "Sobre actualizado", "Asignaste"
		shown := amount
		if amount.IsNegative() {
			verb = "Retiraste"
			shown = core.Money{Cents: -amount.Cents}
		}
		s.notify(title, fmt.Sprintf("%s %s en el sobre %s.", verb, s.money(shown), e.Name), core.CategoryGeneral)
		s.record(core.EventEnvelopeAllocated, e.ID, "", amount.Cents, e.Name)
		return nil
	})
	if err != nil {
		s.logger.Warn("Envelope allocation rejected",
			log.FieldEnvelopeID, id, log.FieldAmountCents, amount.Cents, log.FieldError, err)
		return err
	}
	s.logger.Info("Envelope allocation applied",
		log.FieldOperation, log.OpAllocate, log.FieldEnvelopeID, id,
		log.FieldAmountCents, amount.Cents, log.FieldBalance, after.Cents)
	return nil
}
