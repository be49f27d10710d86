package access

import (
	"fmt"
	"strings"
	"time"

	"imeivault/internal/model"
	"imeivault/internal/store"
)

// service implements the access-control component and the invite ledger.
// Roles are assigned explicitly; redeeming an invite is the only way a guest
// becomes a user without an admin acting on their behalf.
type service struct {
	store           *store.Store
	invitesRequired bool
}

func New(st *store.Store, invitesRequired bool) *service {
	return &service{store: st, invitesRequired: invitesRequired}
}

// SeedAdmins grants the admin role to the configured principals. Called once
// at boot; the engine has no self-escalation path.
func (s *service) SeedAdmins(principals []string) error {
	now := time.Now().UTC()
	return s.store.WithTx(func(tx *store.Tx) error {
		for _, p := range principals {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if err := tx.UpsertRole(model.Principal(p), model.RoleAdmin, now); err != nil {
				return fmt.Errorf("seeding admin %s: %w", p, err)
			}
		}
		return nil
	})
}

func (s *service) ResolveAccessState(caller model.Principal) (model.AccessState, error) {
	role, err := s.store.GetRole(caller)
	if err != nil {
		return model.AccessState{}, fmt.Errorf("resolving access state: %w", err)
	}
	return model.AccessState{
		RequiresInvite: role == model.RoleGuest && s.invitesRequired,
		IsUser:         role == model.RoleUser || role == model.RoleAdmin,
		IsAdmin:        role == model.RoleAdmin,
	}, nil
}

func (s *service) RoleOf(caller model.Principal) (model.UserRole, error) {
	return s.store.GetRole(caller)
}

func (s *service) requireAdmin(caller model.Principal) error {
	role, err := s.store.GetRole(caller)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		return model.NewUnauthorizedError("unauthorized: admin role required")
	}
	return nil
}

func (s *service) requireUser(caller model.Principal) error {
	state, err := s.ResolveAccessState(caller)
	if err != nil {
		return err
	}
	if !state.IsUser {
		return model.NewUnauthorizedError("unauthorized: user access required")
	}
	return nil
}

func (s *service) AssignRole(caller, target model.Principal, role model.UserRole) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	switch role {
	case model.RoleGuest, model.RoleUser, model.RoleAdmin:
	default:
		return model.NewValidationError("unknown role %q", role)
	}
	if target == "" {
		return model.NewValidationError("target principal is required")
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return tx.UpsertRole(target, role, time.Now().UTC())
	})
}

func (s *service) GenerateInviteCode(caller model.Principal) (string, error) {
	if err := s.requireAdmin(caller); err != nil {
		return "", err
	}
	invite := &model.InviteCode{
		Code:    model.NewInviteCode(),
		Created: time.Now().UTC(),
	}
	err := s.store.WithTx(func(tx *store.Tx) error {
		return tx.InsertInviteCode(invite)
	})
	if err != nil {
		return "", err
	}
	return invite.Code, nil
}

// RedeemInviteCode consumes the code and grants the caller the user role in
// one transaction, so a crash cannot burn a code without granting access.
func (s *service) RedeemInviteCode(caller model.Principal, code string) error {
	if caller == "" {
		return model.NewUnauthorizedError("authentication required")
	}
	if code == "" {
		return model.NewValidationError("invite code is required")
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		// Role check runs inside the transaction so a concurrent grant
		// cannot let one caller burn two codes.
		role, err := tx.GetRole(caller)
		if err != nil {
			return err
		}
		if role == model.RoleUser || role == model.RoleAdmin {
			return model.NewConflictError("you already have user access")
		}
		invite, err := tx.GetInviteCode(code)
		if err != nil {
			return err
		}
		if invite.Used {
			return model.NewConflictError("invite code has already been used")
		}
		if invite.Deactivated {
			return model.NewConflictError("invite code has been deactivated")
		}
		now := time.Now().UTC()
		if err := tx.MarkInviteUsed(code, caller, now); err != nil {
			return err
		}
		return tx.UpsertRole(caller, model.RoleUser, now)
	})
}

func (s *service) DeactivateInviteCode(caller model.Principal, code string) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		invite, err := tx.GetInviteCode(code)
		if err != nil {
			return err
		}
		if invite.Used {
			return model.NewConflictError("invite code has already been used")
		}
		if invite.Deactivated {
			return model.NewConflictError("invite code is already deactivated")
		}
		return tx.DeactivateInviteCode(code)
	})
}

func (s *service) SetInvitePaymentNote(caller model.Principal, code, note string) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		if _, err := tx.GetInviteCode(code); err != nil {
			return err
		}
		return tx.SetInvitePaymentNote(code, note)
	})
}

func (s *service) ListInviteCodes(caller model.Principal) ([]model.InviteCodeSummary, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	invites, err := s.store.ListInviteCodes()
	if err != nil {
		return nil, err
	}
	summaries := make([]model.InviteCodeSummary, 0, len(invites))
	for i := range invites {
		summaries = append(summaries, invites[i].Summary())
	}
	return summaries, nil
}

func (s *service) ListInviteCodesWithStatus(caller model.Principal) ([]model.InviteCode, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.ListInviteCodes()
}

// RegisterProfile creates the caller's profile exactly once. Profiles are
// never auto-created.
func (s *service) RegisterProfile(caller model.Principal, email, city string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if email == "" {
		return model.NewValidationError("email is required")
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		_, err := tx.GetProfile(caller)
		if err == nil {
			return model.NewConflictError("profile already registered")
		}
		if model.KindOf(err) != model.KindNotFound {
			return err
		}
		return tx.InsertProfile(&model.UserProfile{
			User:      caller,
			Email:     email,
			City:      city,
			CreatedAt: time.Now().UTC(),
		})
	})
}

func (s *service) SaveProfile(caller model.Principal, email, city string) error {
	if err := s.requireUser(caller); err != nil {
		return err
	}
	if email == "" {
		return model.NewValidationError("email is required")
	}
	return s.store.WithTx(func(tx *store.Tx) error {
		return tx.UpsertProfile(&model.UserProfile{
			User:      caller,
			Email:     email,
			City:      city,
			CreatedAt: time.Now().UTC(),
		})
	})
}

// GetProfile returns nil without error when the caller has no profile yet.
func (s *service) GetProfile(caller model.Principal) (*model.UserProfile, error) {
	if err := s.requireUser(caller); err != nil {
		return nil, err
	}
	return s.profileOrNil(caller)
}

func (s *service) GetProfileFor(caller, user model.Principal) (*model.UserProfile, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.profileOrNil(user)
}

func (s *service) profileOrNil(user model.Principal) (*model.UserProfile, error) {
	profile, err := s.store.GetProfile(user)
	if err != nil {
		if model.KindOf(err) == model.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
