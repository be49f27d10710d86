package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"imeivault/internal/model"
)

func (s *Store) GetRole(user model.Principal) (model.UserRole, error) {
	var role model.UserRole
	err := s.db.Get(&role, `select Role from user_role where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoleGuest, nil
		}
		return model.RoleGuest, fmt.Errorf("fetching role: %w", err)
	}
	return role, nil
}

func (t *Tx) GetRole(user model.Principal) (model.UserRole, error) {
	var role model.UserRole
	err := t.tx.Get(&role, `select Role from user_role where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoleGuest, nil
		}
		return model.RoleGuest, fmt.Errorf("fetching role: %w", err)
	}
	return role, nil
}

func (t *Tx) UpsertRole(user model.Principal, role model.UserRole, at time.Time) error {
	if role == model.RoleGuest {
		_, err := t.tx.Exec(`delete from user_role where User = ?`, user)
		if err != nil {
			return fmt.Errorf("removing role: %w", err)
		}
		return nil
	}
	_, err := t.tx.Exec(`insert into user_role (User, Role, AssignedAt) values(?, ?, ?)
		on conflict(User) do update set Role = excluded.Role, AssignedAt = excluded.AssignedAt`,
		user, role, at)
	if err != nil {
		return fmt.Errorf("upserting role: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(user model.Principal) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	err := s.db.Get(profile, `select * from user_profile where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("profile not found")
		}
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return profile, nil
}

func (t *Tx) GetProfile(user model.Principal) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	err := t.tx.Get(profile, `select * from user_profile where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("profile not found")
		}
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return profile, nil
}

func (t *Tx) InsertProfile(profile *model.UserProfile) error {
	_, err := t.tx.NamedExec(`insert into user_profile
		(User, Email, City, CreatedAt)
		values(:User, :Email, :City, :CreatedAt)`, profile)
	if err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

func (t *Tx) UpsertProfile(profile *model.UserProfile) error {
	_, err := t.tx.NamedExec(`insert into user_profile (User, Email, City, CreatedAt)
		values(:User, :Email, :City, :CreatedAt)
		on conflict(User) do update set Email = excluded.Email, City = excluded.City`,
		profile)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
