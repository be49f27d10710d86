package registry

import (
	"fmt"
	"time"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

// ReleasePhone irreversibly relinquishes ownership, freeing the IMEI for a
// fresh registration. Preconditions are checked in a fixed order so callers
// get distinct failures: ownership, then PIN presence, then PIN match, then
// the reason text.
func (s *service) ReleasePhone(caller model.Principal, imei, pin string, reason model.ReleaseReason) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}

	phone, err := s.store.GetPhone(imei)
	if err != nil {
		return err
	}
	if phone.Released {
		return model.NewStateError("phone has already been released")
	}
	if phone.Owner != caller {
		return model.NewUnauthorizedError("only the owner can release this phone")
	}

	record, err := s.store.GetPin(caller)
	if err != nil {
		return err
	}
	if record == nil {
		return model.NewStateError("no pin set: a 4-digit pin is required to release a phone")
	}
	if err := s.settlePinAttempt(caller, verifyPin(record, pin)); err != nil {
		return err
	}

	switch reason.Code {
	case model.ReleaseReasonSold, model.ReleaseReasonGivenAway, model.ReleaseReasonReplaced:
	case model.ReleaseReasonOther:
		if reason.OtherText == "" {
			return model.NewValidationError("release reason text is required")
		}
	default:
		return model.NewValidationError("unknown release reason %q", reason.Code)
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		// The pin attempt settled in its own transaction, so the checks above
		// are re-run here against the committed state.
		phone, err := tx.GetPhone(imei)
		if err != nil {
			return err
		}
		if phone.Released {
			return model.NewStateError("phone has already been released")
		}
		if phone.Owner != caller {
			return model.NewUnauthorizedError("only the owner can release this phone")
		}

		if err := tx.MarkPhoneReleased(imei); err != nil {
			return err
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: time.Now().UTC(),
			EventType: model.EventReleaseRequested,
			Details:   "ownership released by owner, reason: " + reason.Describe(),
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		return s.notify(tx, caller, model.NotificationInfo,
			"Ownership released",
			fmt.Sprintf("You released ownership of IMEI %s. It can now be registered by a new owner.", imei),
			imei)
	})
}

// RevokeOwnership is the admin counterpart of ReleasePhone: a forced,
// terminal release with no PIN involved. The displaced owner is notified.
func (s *service) RevokeOwnership(caller model.Principal, imei, reason string) error {
	admin, err := s.isAdmin(caller)
	if err != nil {
		return err
	}
	if !admin {
		return model.NewUnauthorizedError("unauthorized: admin role required")
	}
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}
	if reason == "" {
		return model.NewValidationError("revocation reason is required")
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		phone, err := tx.GetPhone(imei)
		if err != nil {
			return err
		}
		if phone.Released {
			return model.NewStateError("phone has already been released")
		}

		if err := tx.MarkPhoneReleased(imei); err != nil {
			return err
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: time.Now().UTC(),
			EventType: model.EventRevoked,
			Details:   "ownership revoked by administrator, reason: " + reason,
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		return s.notify(tx, phone.Owner, model.NotificationWarning,
			"Ownership revoked",
			fmt.Sprintf("An administrator revoked your ownership of IMEI %s: %s", imei, reason),
			imei)
	})
}
