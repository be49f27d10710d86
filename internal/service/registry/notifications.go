package registry

import (
	"imeivault/internal/model"
	"imeivault/internal/store"
)

func (s *service) GetNotifications(caller, user model.Principal) ([]model.Notification, error) {
	if err := s.requireUser(caller); err != nil {
		return nil, err
	}
	if caller != user {
		admin, err := s.isAdmin(caller)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, model.NewUnauthorizedError("unauthorized: cannot read another user's notifications")
		}
	}
	return s.store.ListNotificationsForUser(user)
}

// MarkNotificationRead is idempotent: re-marking an already-read
// notification is a no-op, not an error.
func (s *service) MarkNotificationRead(caller model.Principal, id int64) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return tx.MarkNotificationRead(caller, id)
	})
}

func (s *service) MarkAllNotificationsRead(caller model.Principal) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return tx.MarkAllNotificationsRead(caller)
	})
}
