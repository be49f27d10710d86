package registry

import (
	"fmt"
	"time"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

// AddPhone registers an IMEI to the caller. The first registration also
// bootstraps the caller's PIN; later registrations must prove it. An IMEI
// whose previous ownership was released may be registered again, by anyone.
func (s *service) AddPhone(caller model.Principal, imei, brand, phoneModel, pin string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}
	if brand == "" || phoneModel == "" {
		return model.NewValidationError("brand and model are required")
	}
	if !model.ValidPin(pin) {
		return model.NewValidationError("pin must be exactly 4 digits")
	}

	existing, err := s.store.GetPhone(imei)
	if err != nil && model.KindOf(err) != model.KindNotFound {
		return err
	}
	if existing != nil && !existing.Released {
		return model.NewConflictError("imei is already registered")
	}

	record, err := s.store.GetPin(caller)
	if err != nil {
		return err
	}
	if record != nil {
		if err := s.settlePinAttempt(caller, verifyPin(record, pin)); err != nil {
			return err
		}
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		// The pin attempt settled in its own transaction, so the conflict
		// check is re-run here against the committed state.
		existing, err := tx.GetPhone(imei)
		if err != nil && model.KindOf(err) != model.KindNotFound {
			return err
		}
		if existing != nil && !existing.Released {
			return model.NewConflictError("imei is already registered")
		}

		if record == nil {
			// First registration bootstraps the caller's PIN, atomically with
			// the phone row.
			current, err := tx.GetPin(caller)
			if err != nil {
				return err
			}
			if current == nil {
				if err := setPin(tx, caller, pin); err != nil {
					return err
				}
			} else if err := verifyPin(current, pin); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		phone := &model.Phone{
			IMEI:         imei,
			Brand:        brand,
			Model:        phoneModel,
			Owner:        caller,
			Status:       model.PhoneStatusActive,
			RegisteredAt: now,
		}

		eventType := model.EventRegistered
		if existing != nil {
			if existing.Owner == caller {
				eventType = model.EventReRegistered
			}
			if err := tx.ReplacePhone(phone); err != nil {
				return err
			}
		} else if err := tx.InsertPhone(phone); err != nil {
			return err
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: now,
			EventType: eventType,
			Details:   fmt.Sprintf("%s %s registered", brand, phoneModel),
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		return s.notify(tx, caller, model.NotificationSuccess,
			"Phone registered",
			fmt.Sprintf("Your %s %s (IMEI %s) is now protected by the registry.", brand, phoneModel, imei),
			imei)
	})
}

// CheckIMEI is public. It returns nil for IMEIs that are unknown or whose
// ownership has been released.
func (s *service) CheckIMEI(imei string) (*model.PhoneStatus, error) {
	if !model.ValidIMEI(imei) {
		return nil, model.NewValidationError("invalid imei: must be exactly 15 digits")
	}
	phone, err := s.store.GetPhone(imei)
	if err != nil {
		if model.KindOf(err) == model.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	if phone.Released {
		return nil, nil
	}
	status := phone.Status
	return &status, nil
}

func (s *service) GetUserPhones(caller, user model.Principal) ([]model.Phone, error) {
	if err := s.requireUser(caller); err != nil {
		return nil, err
	}
	if caller != user {
		admin, err := s.isAdmin(caller)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, model.NewUnauthorizedError("unauthorized: cannot list another user's phones")
		}
	}
	return s.store.ListPhonesByOwner(user)
}

func (s *service) ReportLostStolen(caller model.Principal, imei, location, details string, isStolen bool) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		phone, err := tx.GetPhone(imei)
		if err != nil {
			return err
		}
		if phone.Released {
			return model.NewNotFoundError("phone not found")
		}
		if phone.Owner != caller {
			return model.NewUnauthorizedError("only the owner can report this phone")
		}
		if phone.Status != model.PhoneStatusActive {
			return model.NewStateError("phone is already reported %s", phone.Status)
		}

		status := model.PhoneStatusLost
		eventType := model.EventLostReported
		title := "Phone reported lost"
		if isStolen {
			status = model.PhoneStatusStolen
			eventType = model.EventStolenReported
			title = "Phone reported stolen"
		}

		if err := tx.UpdatePhoneStatus(imei, status); err != nil {
			return err
		}

		now := time.Now().UTC()
		report := &model.TheftReport{
			IMEI:       imei,
			ReportedBy: caller,
			Timestamp:  now,
			Location:   location,
			Details:    details,
		}
		if err := tx.InsertTheftReport(report); err != nil {
			return err
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: now,
			EventType: eventType,
			Details:   fmt.Sprintf("reported %s at %s", status, location),
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		return s.notify(tx, caller, model.NotificationWarning, title,
			fmt.Sprintf("Your report for IMEI %s has been recorded. The phone is now flagged as %s.", imei, status),
			imei)
	})
}

// ReportFound is open to anyone: a finder does not need an account. The
// owner is notified, with the finder's contact details when supplied.
func (s *service) ReportFound(caller model.Principal, imei string, finderInfo *string) error {
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		phone, err := tx.GetPhone(imei)
		if err != nil {
			return err
		}
		if phone.Released {
			return model.NewNotFoundError("phone not found")
		}
		if phone.Status != model.PhoneStatusLost && phone.Status != model.PhoneStatusStolen {
			return model.NewStateError("phone is not reported lost or stolen")
		}

		if err := tx.UpdatePhoneStatus(imei, model.PhoneStatusActive); err != nil {
			return err
		}

		details := "reported found"
		message := fmt.Sprintf("Good news: your phone with IMEI %s was reported found.", imei)
		if finderInfo != nil && *finderInfo != "" {
			details = "reported found, finder: " + *finderInfo
			message += " Finder contact: " + *finderInfo
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: time.Now().UTC(),
			EventType: model.EventFoundReported,
			Details:   details,
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		return s.notify(tx, phone.Owner, model.NotificationSuccess,
			"Phone reported found", message, imei)
	})
}

func (s *service) TransferOwnership(caller model.Principal, imei string, newOwner model.Principal) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if !model.ValidIMEI(imei) {
		return model.NewValidationError("invalid imei: must be exactly 15 digits")
	}
	if newOwner == "" {
		return model.NewValidationError("new owner is required")
	}
	if newOwner == caller {
		return model.NewValidationError("cannot transfer a phone to yourself")
	}

	return s.store.WithTx(func(tx *store.Tx) error {
		phone, err := tx.GetPhone(imei)
		if err != nil {
			return err
		}
		if phone.Released {
			return model.NewNotFoundError("phone not found")
		}
		if phone.Owner != caller {
			return model.NewUnauthorizedError("only the owner can transfer this phone")
		}
		if phone.Status != model.PhoneStatusActive {
			return model.NewStateError("phone must be active to transfer")
		}

		if err := tx.UpdatePhoneOwner(imei, newOwner); err != nil {
			return err
		}

		event := &model.IMEIEvent{
			IMEI:      imei,
			Timestamp: time.Now().UTC(),
			EventType: model.EventTransferred,
			Details:   "ownership transferred to new owner",
		}
		if err := tx.AppendEvent(event); err != nil {
			return err
		}

		err = s.notify(tx, caller, model.NotificationInfo,
			"Ownership transferred",
			fmt.Sprintf("You transferred ownership of IMEI %s.", imei), imei)
		if err != nil {
			return err
		}
		return s.notify(tx, newOwner, model.NotificationSuccess,
			"Phone received",
			fmt.Sprintf("Ownership of IMEI %s was transferred to you.", imei), imei)
	})
}

// GetIMEIHistory is public so prospective buyers can audit a phone before
// purchase. The trail is returned oldest-first.
func (s *service) GetIMEIHistory(imei string) ([]model.IMEIEvent, error) {
	if !model.ValidIMEI(imei) {
		return nil, model.NewValidationError("invalid imei: must be exactly 15 digits")
	}
	return s.store.ListEventsForIMEI(imei)
}

func (s *service) GetAllTheftReports() ([]model.TheftReport, error) {
	return s.store.ListTheftReports()
}
