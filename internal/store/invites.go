package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"imeivault/internal/model"
)

func (t *Tx) GetInviteCode(code string) (*model.InviteCode, error) {
	invite := &model.InviteCode{}
	err := t.tx.Get(invite, `select * from invite_code where Code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("invalid invite code")
		}
		return nil, fmt.Errorf("fetching invite code: %w", err)
	}
	return invite, nil
}

func (t *Tx) InsertInviteCode(invite *model.InviteCode) error {
	_, err := t.tx.NamedExec(`insert into invite_code
		(Code, Created, Used, Deactivated)
		values(:Code, :Created, :Used, :Deactivated)`, invite)
	if err != nil {
		return fmt.Errorf("inserting invite code: %w", err)
	}
	return nil
}

func (t *Tx) MarkInviteUsed(code string, by model.Principal, at time.Time) error {
	res, err := t.tx.Exec(`update invite_code
		set Used = 1, UsedBy = ?, UsedAt = ?
		where Code = ? and Used = 0 and Deactivated = 0`, by, at, code)
	if err != nil {
		return fmt.Errorf("marking invite used: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) DeactivateInviteCode(code string) error {
	res, err := t.tx.Exec(`update invite_code
		set Deactivated = 1 where Code = ? and Used = 0`, code)
	if err != nil {
		return fmt.Errorf("deactivating invite code: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) SetInvitePaymentNote(code string, note string) error {
	res, err := t.tx.Exec(`update invite_code
		set PaymentNote = ? where Code = ?`, note, code)
	if err != nil {
		return fmt.Errorf("setting payment note: %w", err)
	}
	return oneRowAffected(res)
}

func (s *Store) ListInviteCodes() ([]model.InviteCode, error) {
	invites := []model.InviteCode{}
	err := s.db.Select(&invites, `select * from invite_code order by Created desc`)
	if err != nil {
		return nil, fmt.Errorf("listing invite codes: %w", err)
	}
	return invites, nil
}
