// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/persistence/sqlite"
)

const schemaVersion = 1

// SqliteStore keeps the registry in a single SQLite table so that
// containers sharing a volume see each other's records.
type SqliteStore struct {
	DB    *sql.DB
	codec Codec
}

// NewSqliteStore opens (and migrates) the registry database at dbPath.
func NewSqliteStore(dbPath string, codec Codec) (*SqliteStore, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite registry path required")
	}
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &SqliteStore{DB: db, codec: codec}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session registry: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}

func (s *SqliteStore) migrate() error {
	var currentVersion int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS session_registry (
		pid INTEGER PRIMARY KEY,
		word INTEGER NOT NULL,
		updated_at_ms INTEGER NOT NULL
	);`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) Write(ctx context.Context, rec model.Record) error {
	if err := checkPID(rec.PID); err != nil {
		return err
	}
	w, err := s.codec.Word(rec)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO session_registry (pid, word, updated_at_ms) VALUES (?, ?, ?)
		ON CONFLICT(pid) DO UPDATE SET word = excluded.word, updated_at_ms = excluded.updated_at_ms`,
		rec.PID, int64(w), time.Now().UnixMilli())
	if err != nil {
		return errWrite(rec.PID, err)
	}
	return nil
}

func (s *SqliteStore) Read(ctx context.Context, pid int) (model.Record, error) {
	if err := checkPID(pid); err != nil {
		return model.Record{}, err
	}
	var w int64
	err := s.DB.QueryRowContext(ctx, "SELECT word FROM session_registry WHERE pid = ?", pid).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, errNoSession(pid, nil)
	}
	if err != nil {
		return model.Record{}, errRead(pid, err)
	}
	return s.codec.FromWord(pid, uint32(w))
}

func (s *SqliteStore) Delete(ctx context.Context, pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, "DELETE FROM session_registry WHERE pid = ?", pid)
	if err != nil {
		return errRemove(pid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errRemove(pid, err)
	}
	if n == 0 {
		return errNotFound(pid, nil)
	}
	return nil
}

func (s *SqliteStore) List(ctx context.Context) ([]model.Record, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT pid, word FROM session_registry ORDER BY pid")
	if err != nil {
		return nil, fmt.Errorf("list session registry: %w", err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var (
			pid int
			w   int64
		)
		if err := rows.Scan(&pid, &w); err != nil {
			return nil, err
		}
		rec, err := s.codec.FromWord(pid, uint32(w))
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
