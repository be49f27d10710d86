package registry

import (
	"time"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

const (
	maxPinAttempts = 5
	pinLockout     = 15 * time.Minute
)

// AccessResolver is the slice of the access-control component the registry
// needs: every mutating call is gated on the caller's derived access state.
type AccessResolver interface {
	ResolveAccessState(caller model.Principal) (model.AccessState, error)
}

// service owns the phone registry, the PIN-gated release subsystem, the
// per-IMEI event log, notification fan-out and the statistics aggregator.
// Every mutation commits phone row, event and notifications in a single
// transaction.
type service struct {
	store  *store.Store
	access AccessResolver
}

func New(st *store.Store, access AccessResolver) *service {
	return &service{store: st, access: access}
}

func (s *service) requireUser(caller model.Principal) error {
	state, err := s.access.ResolveAccessState(caller)
	if err != nil {
		return err
	}
	if !state.IsUser {
		return model.NewUnauthorizedError("unauthorized: user access required")
	}
	return nil
}

func (s *service) isAdmin(caller model.Principal) (bool, error) {
	state, err := s.access.ResolveAccessState(caller)
	if err != nil {
		return false, err
	}
	return state.IsAdmin, nil
}

func (s *service) notify(tx *store.Tx, user model.Principal, notifType model.NotificationType, title, message, imei string) error {
	var related *string
	if imei != "" {
		related = &imei
	}
	return tx.InsertNotification(&model.Notification{
		User:        user,
		Title:       title,
		Message:     message,
		NotifType:   notifType,
		Timestamp:   time.Now().UTC(),
		RelatedIMEI: related,
	})
}
