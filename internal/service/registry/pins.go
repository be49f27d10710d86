package registry

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

func setPin(tx *store.Tx, user model.Principal, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), 10)
	if err != nil {
		return fmt.Errorf("hashing pin: %w", err)
	}
	return tx.UpsertPin(&store.PinRecord{
		User:      user,
		PinHash:   string(hash),
		UpdatedAt: time.Now().UTC(),
	})
}

// verifyPin enforces the bounded-retry policy: five consecutive failures
// lock verification for fifteen minutes. It never writes; callers settle
// the outcome through settlePinAttempt so the bookkeeping commits even when
// the mutation the check was gating rolls back.
func verifyPin(record *store.PinRecord, pin string) error {
	if record.LockedUntil != nil && time.Now().UTC().Before(*record.LockedUntil) {
		return model.NewStateError("too many failed pin attempts, try again later")
	}
	if bcrypt.CompareHashAndPassword([]byte(record.PinHash), []byte(pin)) != nil {
		return model.NewConflictError("invalid pin")
	}
	return nil
}

// settlePinAttempt persists the outcome of a verifyPin call in its own
// transaction: a failure bumps the counter (locking on the fifth), a success
// clears it. It returns verr so call sites can chain it directly.
func (s *service) settlePinAttempt(caller model.Principal, verr error) error {
	if verr != nil && model.KindOf(verr) != model.KindConflict {
		return verr
	}
	err := s.store.WithTx(func(tx *store.Tx) error {
		record, err := tx.GetPin(caller)
		if err != nil || record == nil {
			return err
		}
		if verr == nil {
			if record.FailedAttempts > 0 || record.LockedUntil != nil {
				return tx.ResetPinFailures(caller)
			}
			return nil
		}
		attempts := record.FailedAttempts + 1
		var lockedUntil *time.Time
		if attempts >= maxPinAttempts {
			until := time.Now().UTC().Add(pinLockout)
			lockedUntil = &until
			attempts = 0
		}
		return tx.RecordPinFailure(caller, attempts, lockedUntil)
	})
	if err != nil {
		return err
	}
	return verr
}

func (s *service) HasPin(caller model.Principal) (bool, error) {
	if err := s.requireUser(caller); err != nil {
		return false, err
	}
	record, err := s.store.GetPin(caller)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

// SetOrChangePin sets the caller's PIN. Changing an existing PIN requires
// proving the current one.
func (s *service) SetOrChangePin(caller model.Principal, currentPin, newPin string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if !model.ValidPin(newPin) {
		return model.NewValidationError("pin must be exactly 4 digits")
	}
	record, err := s.store.GetPin(caller)
	if err != nil {
		return err
	}
	if record != nil {
		if currentPin == "" {
			return model.NewValidationError("current pin is required to change pin")
		}
		if err := s.settlePinAttempt(caller, verifyPin(record, currentPin)); err != nil {
			return err
		}
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return setPin(tx, caller, newPin)
	})
}

func (s *service) ValidatePin(caller model.Principal, pin string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	record, err := s.store.GetPin(caller)
	if err != nil {
		return err
	}
	if record == nil {
		return model.NewStateError("no pin set: a 4-digit pin is required")
	}
	return s.settlePinAttempt(caller, verifyPin(record, pin))
}

func (s *service) ClearPin(caller model.Principal, currentPin string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	record, err := s.store.GetPin(caller)
	if err != nil {
		return err
	}
	if record == nil {
		return model.NewStateError("no pin set")
	}
	if err := s.settlePinAttempt(caller, verifyPin(record, currentPin)); err != nil {
		return err
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return tx.DeletePin(caller)
	})
}
