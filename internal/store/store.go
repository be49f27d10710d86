package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Config interface {
	DatabaseFile() string
}

// Store is the single persistent authority for the registry. All tables live
// in one sqlite database; _txlock=immediate makes every transaction take the
// write lock up front, so read-modify-write sequences on the same key cannot
// interleave.
type Store struct {
	db *sqlx.DB
}

func Open(config Config) (*Store, error) {
	dsn := "file:" + config.DatabaseFile() + "?_busy_timeout=5000&_txlock=immediate"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Tx wraps a single all-or-nothing mutation. Rolled back on any error.
type Tx struct {
	tx *sqlx.Tx
}

func (s *Store) WithTx(fn func(*Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&Tx{tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`create table if not exists user_role(
		User       text not null primary key,
		Role       text not null,
		AssignedAt DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating user_role table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists user_profile(
		User      text not null primary key,
		Email     text not null,
		City      text not null,
		CreatedAt DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating user_profile table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists user_pin(
		User           text not null primary key,
		PinHash        text not null,
		FailedAttempts tinyint not null default 0,
		LockedUntil    DATETIME null,
		UpdatedAt      DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating user_pin table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists invite_code(
		Code        text not null primary key,
		Created     DATETIME not null,
		Used        boolean not null default 0,
		UsedAt      DATETIME null,
		UsedBy      text null,
		Deactivated boolean not null default 0,
		PaymentNote text null
	)`)
	if err != nil {
		return fmt.Errorf("creating invite_code table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists phone(
		IMEI         text not null primary key,
		Brand        text not null,
		Model        text not null,
		Owner        text not null,
		Status       text not null,
		RegisteredAt DATETIME not null,
		Released     boolean not null default 0
	)`)
	if err != nil {
		return fmt.Errorf("creating phone table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists theft_report(
		ID         integer primary key autoincrement,
		IMEI       text not null,
		ReportedBy text not null,
		Timestamp  DATETIME not null,
		Location   text not null,
		Details    text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating theft_report table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists imei_event(
		Seq       integer primary key autoincrement,
		IMEI      text not null,
		Timestamp DATETIME not null,
		EventType text not null,
		Details   text not null
	)`)
	if err != nil {
		return fmt.Errorf("creating imei_event table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists notification(
		ID          integer primary key autoincrement,
		User        text not null,
		Title       text not null,
		Message     text not null,
		NotifType   text not null,
		Timestamp   DATETIME not null,
		RelatedIMEI text null,
		IsRead      boolean not null default 0
	)`)
	if err != nil {
		return fmt.Errorf("creating notification table: %w", err)
	}

	return nil
}
