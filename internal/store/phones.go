package store

import (
	"database/sql"
	"errors"
	"fmt"

	"imeivault/internal/model"
)

// GetPhone returns the row for an IMEI including released rows, or a
// NotFound error when the IMEI has never been registered.
func (t *Tx) GetPhone(imei string) (*model.Phone, error) {
	phone := &model.Phone{}
	err := t.tx.Get(phone, `select * from phone where IMEI = ?`, imei)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("phone not found")
		}
		return nil, fmt.Errorf("fetching phone: %w", err)
	}
	return phone, nil
}

func (s *Store) GetPhone(imei string) (*model.Phone, error) {
	phone := &model.Phone{}
	err := s.db.Get(phone, `select * from phone where IMEI = ?`, imei)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("phone not found")
		}
		return nil, fmt.Errorf("fetching phone: %w", err)
	}
	return phone, nil
}

func (s *Store) ListPhonesByOwner(owner model.Principal) ([]model.Phone, error) {
	phones := []model.Phone{}
	err := s.db.Select(&phones, `select * from phone
		where Owner = ? and Released = 0 order by RegisteredAt`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing phones: %w", err)
	}
	return phones, nil
}

func (t *Tx) InsertPhone(phone *model.Phone) error {
	_, err := t.tx.NamedExec(`insert into phone
		(IMEI, Brand, Model, Owner, Status, RegisteredAt, Released)
		values(:IMEI, :Brand, :Model, :Owner, :Status, :RegisteredAt, :Released)`, phone)
	if err != nil {
		return fmt.Errorf("inserting phone: %w", err)
	}
	return nil
}

// ReplacePhone overwrites a released row so the IMEI can be registered again.
func (t *Tx) ReplacePhone(phone *model.Phone) error {
	res, err := t.tx.NamedExec(`update phone set
		Brand = :Brand, Model = :Model, Owner = :Owner, Status = :Status,
		RegisteredAt = :RegisteredAt, Released = :Released
		where IMEI = :IMEI`, phone)
	if err != nil {
		return fmt.Errorf("replacing phone: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) UpdatePhoneStatus(imei string, status model.PhoneStatus) error {
	res, err := t.tx.Exec(`update phone set Status = ? where IMEI = ?`, status, imei)
	if err != nil {
		return fmt.Errorf("updating phone status: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) UpdatePhoneOwner(imei string, owner model.Principal) error {
	res, err := t.tx.Exec(`update phone set Owner = ? where IMEI = ?`, owner, imei)
	if err != nil {
		return fmt.Errorf("updating phone owner: %w", err)
	}
	return oneRowAffected(res)
}

func (t *Tx) MarkPhoneReleased(imei string) error {
	res, err := t.tx.Exec(`update phone set Released = 1 where IMEI = ?`, imei)
	if err != nil {
		return fmt.Errorf("marking phone released: %w", err)
	}
	return oneRowAffected(res)
}

func oneRowAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	}
	return nil
}
