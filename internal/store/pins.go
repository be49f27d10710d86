package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"imeivault/internal/model"
)

// PinRecord holds a principal's hashed PIN plus lockout bookkeeping. It never
// crosses the RPC boundary.
type PinRecord struct {
	User           model.Principal `db:"User"`
	PinHash        string          `db:"PinHash"`
	FailedAttempts int             `db:"FailedAttempts"`
	LockedUntil    *time.Time      `db:"LockedUntil"`
	UpdatedAt      time.Time       `db:"UpdatedAt"`
}

func (t *Tx) GetPin(user model.Principal) (*PinRecord, error) {
	record := &PinRecord{}
	err := t.tx.Get(record, `select * from user_pin where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching pin record: %w", err)
	}
	return record, nil
}

func (s *Store) GetPin(user model.Principal) (*PinRecord, error) {
	record := &PinRecord{}
	err := s.db.Get(record, `select * from user_pin where User = ?`, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching pin record: %w", err)
	}
	return record, nil
}

func (t *Tx) UpsertPin(record *PinRecord) error {
	_, err := t.tx.NamedExec(`insert into user_pin
		(User, PinHash, FailedAttempts, LockedUntil, UpdatedAt)
		values(:User, :PinHash, :FailedAttempts, :LockedUntil, :UpdatedAt)
		on conflict(User) do update set
			PinHash = excluded.PinHash,
			FailedAttempts = excluded.FailedAttempts,
			LockedUntil = excluded.LockedUntil,
			UpdatedAt = excluded.UpdatedAt`, record)
	if err != nil {
		return fmt.Errorf("upserting pin record: %w", err)
	}
	return nil
}

func (t *Tx) DeletePin(user model.Principal) error {
	_, err := t.tx.Exec(`delete from user_pin where User = ?`, user)
	if err != nil {
		return fmt.Errorf("deleting pin record: %w", err)
	}
	return nil
}

func (t *Tx) RecordPinFailure(user model.Principal, attempts int, lockedUntil *time.Time) error {
	res, err := t.tx.Exec(`update user_pin
		set FailedAttempts = ?, LockedUntil = ? where User = ?`,
		attempts, lockedUntil, user)
	if err != nil {
		return fmt.Errorf("recording pin failure: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) ResetPinFailures(user model.Principal) error {
	_, err := t.tx.Exec(`update user_pin
		set FailedAttempts = 0, LockedUntil = null where User = ?`, user)
	if err != nil {
		return fmt.Errorf("resetting pin failures: %w", err)
	}
	return nil
}
