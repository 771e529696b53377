// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
)

// FilePrefix is the registry file name prefix; the pid follows it.
const FilePrefix = "mm_session_"

// FilePerm lets processes of other users read and replace records.
const FilePerm fs.FileMode = 0o666

// ParsePID extracts the pid from a registry file name.
// Temporary files written during an atomic replace are rejected.
func ParsePID(name string) (int, bool) {
	name = filepath.Base(name)
	if !strings.HasPrefix(name, FilePrefix) {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimPrefix(name, FilePrefix))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
