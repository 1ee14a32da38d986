package ledger

import (
	"fmt"
	"strings"

	"billetera/internal/core"
	"billetera/internal/log"
)

// Login is a local, non-cryptographic gate. It fails when id or phone is blank
// after trimming; otherwise it authenticates the session and updates the
// profile fields that were supplied.
func (s *Store) Login(id, phone string, idType *string) bool {
	id, phone = strings.TrimSpace(id), strings.TrimSpace(phone)
	err := s.commit(func() error {
		if id == "" || phone == "" {
			return core.ErrMissingCredentials
		}
		s.authenticated = true
		s.user.GovernmentID = id
		s.user.Phone = phone
		if idType != nil && !core.Blank(*idType) {
			s.user.IDType = strings.TrimSpace(*idType)
		}
		s.record(core.EventLogin, id, phone, 0, s.user.IDType)
		return nil
	})
	if err != nil {
		s.logger.Debug("Login rejected", log.FieldOperation, log.OpLogin, log.FieldError, err)
		return false
	}
	s.logger.Info("Session started", log.FieldOperation, log.OpLogin, log.FieldPhone, phone)
	return true
}

// Logout ends the session and resets the balance, transfers, recharges,
// contacts and notifications to their seed. Envelopes, automation rules,
// biometric state and the profile survive.
func (s *Store) Logout() {
	_ = s.commit(func() error {
		s.authenticated = false
		s.balance = s.initialBalance
		s.resetSession()
		s.record(core.EventLogout, "", "", s.balance.Cents, "")
		return nil
	})
	s.logger.Info("Session reset", log.FieldOperation, log.OpLogout)
}

// SendTransfer debits the balance and records an outbound transfer. The
// contact for the phone is upserted and a transfer notification appended,
// all in one step.
func (s *Store) SendTransfer(d TransferDraft) (core.TransferRecord, error) {
	var rec core.TransferRecord
	err := s.commit(func() error {
		if err := d.Amount.Validate(); err != nil {
			return err
		}
		if d.Amount.Cents > s.balance.Cents {
			return fmt.Errorf("%w: need %s, available %s", core.ErrInsufficientFunds, d.Amount, s.balance)
		}
		phone := phoneKey(d.Phone)
		if phone == "" {
			return core.ErrMissingPhone
		}
		var patchName *string
		name := strings.TrimSpace(d.ContactName)
		if name == "" {
			name = phone
		} else {
			patchName = &name
		}

		now := s.now()
		s.balance = s.balance.Sub(d.Amount)
		rec = core.TransferRecord{
			ID:          s.newID(),
			ContactName: name,
			Phone:       phone,
			Amount:      d.Amount,
			Note:        strings.TrimSpace(d.Note),
			CreatedAt:   now,
			Direction:   core.Outbound,
		}
		s.transfers.prepend(rec)
		s.useContact(phone, patchName)
		s.notify("Transferencia enviada",
			fmt.Sprintf("Enviaste %s a %s.", s.money(d.Amount), name),
			core.CategoryTransfer)
		s.record(core.EventTransferSent, rec.ID, phone, d.Amount.Cents, rec.Note)
		return nil
	})
	if err != nil {
		s.logger.Warn("Transfer rejected",
			log.NewFields().WithOperation(log.OpTransfer).WithMovement(d.Phone, d.Amount.Cents).WithError(err).ToSlice()...)
		return core.TransferRecord{}, err
	}
	s.logger.Info("Transfer sent",
		log.NewFields().WithOperation(log.OpTransfer).WithMovement(rec.Phone, rec.Amount.Cents).ToSlice()...)
	return rec, nil
}

// RecordInboundTransfer credits the balance with money received from a
// sender, upserts the sender as a contact and runs the automation rules that
// match the sender phone. The record links the first envelope that received
// the amount.
func (s *Store) RecordInboundTransfer(d InboundTransferDraft) (core.TransferRecord, error) {
	var (
		rec   core.TransferRecord
		fired int
	)
	err := s.commit(func() error {
		if err := d.Amount.Validate(); err != nil {
			return err
		}
		phone := phoneKey(d.SenderPhone)
		if phone == "" {
			return core.ErrMissingPhone
		}
		name := strings.TrimSpace(d.SenderName)
		if name == "" {
			if c := s.contacts.byPhoneKey(phone); c != nil {
				name = c.Name
			} else {
				name = phone
			}
		}

		balance, err := s.balance.CheckedAdd(d.Amount)
		if err != nil {
			return err
		}
		if err := s.checkAutomationCredits(phone, d.Amount); err != nil {
			return err
		}

		now := s.now()
		s.balance = balance
		rec = core.TransferRecord{
			ID:          s.newID(),
			ContactName: name,
			Phone:       phone,
			Amount:      d.Amount,
			Note:        strings.TrimSpace(d.Note),
			CreatedAt:   now,
			Direction:   core.Inbound,
		}
		s.useContact(phone, &name)
		s.notify("Transferencia recibida",
			fmt.Sprintf("Recibiste %s de %s.", s.money(d.Amount), name),
			core.CategoryTransfer)
		s.record(core.EventTransferReceived, rec.ID, phone, d.Amount.Cents, rec.Note)

		var linked string
		linked, fired = s.applyAutomations(phone, d.Amount, now)
		rec.LinkedEnvelopeID = linked
		s.transfers.prepend(rec)
		return nil
	})
	if err != nil {
		s.logger.Warn("Inbound transfer rejected",
			log.NewFields().WithOperation(log.OpInbound).WithMovement(d.SenderPhone, d.Amount.Cents).WithError(err).ToSlice()...)
		return core.TransferRecord{}, err
	}
	s.logger.Info("Inbound transfer recorded",
		append(log.NewFields().WithOperation(log.OpInbound).WithMovement(rec.Phone, rec.Amount.Cents).ToSlice(),
			"automations_fired", fired)...)
	return rec, nil
}

// MakeRecharge debits the balance for a phone top-up. Contacts are not touched.
func (s *Store) MakeRecharge(d RechargeDraft) (core.RechargeRecord, error) {
	var rec core.RechargeRecord
	err := s.commit(func() error {
		if err := d.Amount.Validate(); err != nil {
			return err
		}
		if d.Amount.Cents > s.balance.Cents {
			return fmt.Errorf("%w: need %s, available %s", core.ErrInsufficientFunds, d.Amount, s.balance)
		}
		phone := phoneKey(d.Phone)
		if phone == "" {
			return core.ErrMissingPhone
		}
		provider := strings.TrimSpace(d.Provider)

		s.balance = s.balance.Sub(d.Amount)
		rec = core.RechargeRecord{
			ID:        s.newID(),
			Provider:  provider,
			Phone:     phone,
			Amount:    d.Amount,
			CreatedAt: s.now(),
		}
		s.recharges.prepend(rec)
		msg := fmt.Sprintf("Recargaste %s al %s.", s.money(d.Amount), phone)
		if provider != "" {
			msg = fmt.Sprintf("Recargaste %s al %s (%s).", s.money(d.Amount), phone, provider)
		}
		s.notify("Recarga realizada", msg, core.CategoryRecharge)
		s.record(core.EventRechargeMade, rec.ID, phone, d.Amount.Cents, provider)
		return nil
	})
	if err != nil {
		s.logger.Warn("Recharge rejected",
			log.NewFields().WithOperation(log.OpRecharge).WithMovement(d.Phone, d.Amount.Cents).WithError(err).ToSlice()...)
		return core.RechargeRecord{}, err
	}
	s.logger.Info("Recharge made",
		log.NewFields().WithOperation(log.OpRecharge).WithMovement(rec.Phone, rec.Amount.Cents).ToSlice()...)
	return rec, nil
}
