// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"encoding/binary"
	"fmt"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// WordSize is the on-disk size of one registry record.
const WordSize = 4

// Codec converts records to and from the 32-bit registry word.
// The zero value uses the packed epoch.
type Codec struct {
	Epoch model.Epoch
}

func (c Codec) epoch() model.Epoch {
	if c.Epoch == "" {
		return model.EpochPacked
	}
	return c.Epoch
}

// Word validates rec and returns its registry word.
func (c Codec) Word(rec model.Record) (uint32, error) {
	if err := lifecycle.CheckSessionType(rec.Type); err != nil {
		return 0, err
	}
	if !lifecycle.ValidSessionOptions(rec.Options) {
		return 0, lifecycle.NewError(model.RInvalidArgument, fmt.Sprintf("option bits %#x out of range", int(rec.Options)), nil)
	}
	switch c.epoch() {
	case model.EpochPacked:
		return model.Pack(rec.Type, rec.Options), nil
	case model.EpochLegacy:
		if rec.Options != 0 {
			return 0, lifecycle.NewError(model.RNotSupported, "session options are not stored in the legacy epoch", nil)
		}
		return uint32(rec.Type), nil
	default:
		return 0, lifecycle.NewError(model.RNotSupported, fmt.Sprintf("unknown registry epoch %q", c.Epoch), nil)
	}
}

// FromWord decodes w for pid. Words that decode to an out-of-range type
// are reported as INVALID_HANDLE.
func (c Codec) FromWord(pid int, w uint32) (model.Record, error) {
	var (
		t model.SessionType
		o model.Options
	)
	switch c.epoch() {
	case model.EpochPacked:
		t, o = model.Unpack(w)
	case model.EpochLegacy:
		t = model.SessionType(w)
	default:
		return model.Record{}, lifecycle.NewError(model.RNotSupported, fmt.Sprintf("unknown registry epoch %q", c.Epoch), nil)
	}
	if !lifecycle.ValidSessionType(t) {
		return model.Record{}, lifecycle.NewError(model.RInvalidHandle, fmt.Sprintf("corrupt record for pid %d: word %#08x", pid, w), nil)
	}
	return model.Record{PID: pid, Type: t, Options: o}, nil
}

// Marshal returns the little-endian encoding of rec's word.
func (c Codec) Marshal(rec model.Record) ([]byte, error) {
	w, err := c.Word(rec)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, WordSize)
	binary.LittleEndian.PutUint32(buf, w)
	return buf, nil
}

// Unmarshal decodes a stored word for pid.
func (c Codec) Unmarshal(pid int, b []byte) (model.Record, error) {
	if len(b) != WordSize {
		return model.Record{}, lifecycle.NewError(model.RInvalidHandle, fmt.Sprintf("corrupt record for pid %d: %d bytes", pid, len(b)), nil)
	}
	return c.FromWord(pid, binary.LittleEndian.Uint32(b))
}
