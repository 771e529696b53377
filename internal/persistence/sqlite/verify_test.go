// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesWAL(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.sqlite")
	db, err := Open(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestVerifyIntegrity_Healthy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.sqlite")
	db, err := Open(dbPath, DefaultConfig())
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v INTEGER)")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err = db.Exec("INSERT INTO t (v) VALUES (?)", i)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	issues, err := VerifyIntegrity(context.Background(), dbPath, "full")
	require.NoError(t, err)
	require.Nil(t, issues)
}

func TestVerifyIntegrity_NotADatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "garbage.sqlite")
	require.NoError(t, os.WriteFile(dbPath, []byte("this is not a sqlite database file at all, just text"), 0o600))

	issues, err := VerifyIntegrity(context.Background(), dbPath, "quick")
	if err == nil {
		require.NotEmpty(t, issues)
	}
}
