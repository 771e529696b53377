// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package loopback is an in-process arbiter. It grants every request unless
// a failure is scripted, and lets callers fire monitor and watch callbacks
// the way a real arbiter would from its own goroutine.
package loopback

import (
	"context"
	"sort"
	"sync"

	"github.com/ManuGH/mmsession/internal/domain/session/ports"
)

// Operation names used by Fail and Calls.
const (
	OpRegister      = "register"
	OpUnregister    = "unregister"
	OpProcessState  = "process_state"
	OpSetSubSession = "set_subsession"
	OpSubSession    = "subsession"
	OpSetSubEvent   = "set_subevent"
	OpSubEvent      = "subevent"
	OpSetWatch      = "set_watch"
	OpUnsetWatch    = "unset_watch"
)

type registration struct {
	reg      ports.Registration
	sub      int
	subOpt   int
	subEvent int
}

type failureKey struct {
	op   string
	kind ports.EventKind
}

type watchKey struct {
	kind  ports.EventKind
	state ports.PlayState
}

// Arbiter implements ports.Arbiter in memory.
type Arbiter struct {
	mu           sync.Mutex
	next         ports.Handle
	regs         map[ports.Handle]*registration
	watches      map[watchKey]ports.WatchCallback
	processState ports.PlayState
	failures     map[string]ports.ErrorCode
	kindFailures map[failureKey]ports.ErrorCode
	calls        map[string]int
	unregistered map[ports.Handle]int
}

func New() *Arbiter {
	return &Arbiter{
		next:         1,
		regs:         make(map[ports.Handle]*registration),
		watches:      make(map[watchKey]ports.WatchCallback),
		failures:     make(map[string]ports.ErrorCode),
		kindFailures: make(map[failureKey]ports.ErrorCode),
		calls:        make(map[string]int),
		unregistered: make(map[ports.Handle]int),
	}
}

var _ ports.Arbiter = (*Arbiter)(nil)

// Fail makes every later call of op fail with code until Clear.
func (a *Arbiter) Fail(op string, code ports.ErrorCode) {
	a.mu.Lock()
	a.failures[op] = code
	a.mu.Unlock()
}

// Clear removes a scripted failure.
func (a *Arbiter) Clear(op string) {
	a.mu.Lock()
	delete(a.failures, op)
	a.mu.Unlock()
}

// FailKind is Fail restricted to register or unregister calls for kind.
func (a *Arbiter) FailKind(op string, kind ports.EventKind, code ports.ErrorCode) {
	a.mu.Lock()
	a.kindFailures[failureKey{op, kind}] = code
	a.mu.Unlock()
}

// ClearKind removes a failure scripted with FailKind.
func (a *Arbiter) ClearKind(op string, kind ports.EventKind) {
	a.mu.Lock()
	delete(a.kindFailures, failureKey{op, kind})
	a.mu.Unlock()
}

// SetProcessState sets the aggregate state reported by ProcessState.
func (a *Arbiter) SetProcessState(st ports.PlayState) {
	a.mu.Lock()
	a.processState = st
	a.mu.Unlock()
}

// Calls returns how often op was invoked, failed calls included.
func (a *Arbiter) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

// Unregistered returns how often h was successfully unregistered.
func (a *Arbiter) Unregistered(h ports.Handle) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unregistered[h]
}

// Handles returns the live handles filed under kind.
func (a *Arbiter) Handles(kind ports.EventKind) []ports.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []ports.Handle
	for h, r := range a.regs {
		if r.reg.Kind == kind {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Registration returns the request h was registered with.
func (a *Arbiter) Registration(h ports.Handle) (ports.Registration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.regs[h]
	if !ok {
		return ports.Registration{}, false
	}
	return r.reg, true
}

// Watching reports whether a watch is set for (kind, st).
func (a *Arbiter) Watching(kind ports.EventKind, st ports.PlayState) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.watches[watchKey{kind, st}]
	return ok
}

// begin counts op and returns the scripted failure, if any. a.mu must be held.
func (a *Arbiter) begin(op string) error {
	a.calls[op]++
	if code, ok := a.failures[op]; ok {
		return &ports.Error{Op: op, Code: code}
	}
	return nil
}

// beginKind is begin plus the failures scripted for kind. a.mu must be held.
func (a *Arbiter) beginKind(op string, kind ports.EventKind) error {
	if err := a.begin(op); err != nil {
		return err
	}
	if code, ok := a.kindFailures[failureKey{op, kind}]; ok {
		return &ports.Error{Op: op, Code: code}
	}
	return nil
}

func (a *Arbiter) Register(ctx context.Context, reg ports.Registration) (ports.Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.beginKind(OpRegister, reg.Kind); err != nil {
		return ports.NoHandle, err
	}
	if err := ctx.Err(); err != nil {
		return ports.NoHandle, &ports.Error{Op: OpRegister, Code: ports.CodeUnavailable}
	}
	h := a.next
	a.next++
	a.regs[h] = &registration{reg: reg}
	return h, nil
}

func (a *Arbiter) Unregister(_ context.Context, h ports.Handle, kind ports.EventKind) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.beginKind(OpUnregister, kind); err != nil {
		return err
	}
	r, ok := a.regs[h]
	if !ok || r.reg.Kind != kind {
		return &ports.Error{Op: OpUnregister, Code: ports.CodeNotRegistered}
	}
	delete(a.regs, h)
	a.unregistered[h]++
	return nil
}

func (a *Arbiter) ProcessState(context.Context) (ports.PlayState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpProcessState); err != nil {
		return ports.StateNone, err
	}
	return a.processState, nil
}

func (a *Arbiter) lookup(op string, h ports.Handle) (*registration, error) {
	r, ok := a.regs[h]
	if !ok {
		return nil, &ports.Error{Op: op, Code: ports.CodeInvalidHandle}
	}
	return r, nil
}

func (a *Arbiter) SetSubSession(_ context.Context, h ports.Handle, sub int, opt int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpSetSubSession); err != nil {
		return err
	}
	r, err := a.lookup(OpSetSubSession, h)
	if err != nil {
		return err
	}
	r.sub, r.subOpt = sub, opt
	return nil
}

func (a *Arbiter) SubSession(_ context.Context, h ports.Handle) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpSubSession); err != nil {
		return 0, err
	}
	r, err := a.lookup(OpSubSession, h)
	if err != nil {
		return 0, err
	}
	return r.sub, nil
}

func (a *Arbiter) SetSubEvent(_ context.Context, h ports.Handle, ev int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpSetSubEvent); err != nil {
		return err
	}
	r, err := a.lookup(OpSetSubEvent, h)
	if err != nil {
		return err
	}
	r.subEvent = ev
	return nil
}

func (a *Arbiter) SubEvent(_ context.Context, h ports.Handle) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpSubEvent); err != nil {
		return 0, err
	}
	r, err := a.lookup(OpSubEvent, h)
	if err != nil {
		return 0, err
	}
	return r.subEvent, nil
}

func (a *Arbiter) SetWatch(_ context.Context, kind ports.EventKind, st ports.PlayState, cb ports.WatchCallback) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpSetWatch); err != nil {
		return err
	}
	a.watches[watchKey{kind, st}] = cb
	return nil
}

func (a *Arbiter) UnsetWatch(_ context.Context, kind ports.EventKind, st ports.PlayState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpUnsetWatch); err != nil {
		return err
	}
	key := watchKey{kind, st}
	if _, ok := a.watches[key]; !ok {
		return &ports.Error{Op: OpUnsetWatch, Code: ports.CodeNotRegistered}
	}
	delete(a.watches, key)
	return nil
}

// FireMonitor invokes the monitor callback registered under h.
// The callback runs on the calling goroutine without a.mu held.
func (a *Arbiter) FireMonitor(h ports.Handle, src ports.EventSource, cmd ports.Command) (ports.CallbackResult, bool) {
	a.mu.Lock()
	r, ok := a.regs[h]
	var cb ports.MonitorCallback
	if ok {
		cb = r.reg.Monitor
	}
	a.mu.Unlock()
	if cb == nil {
		return ports.CallbackNone, false
	}
	return cb(h, src, cmd), true
}

// FireWatch delivers st to every watch registered on kind and returns the
// callback results in registration-state order.
func (a *Arbiter) FireWatch(kind ports.EventKind, st ports.PlayState) []ports.CallbackResult {
	a.mu.Lock()
	var (
		keys []watchKey
		cbs  []ports.WatchCallback
	)
	for k := range a.watches {
		if k.kind == kind {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].state < keys[j].state })
	for _, k := range keys {
		cbs = append(cbs, a.watches[k])
	}
	a.mu.Unlock()

	out := make([]ports.CallbackResult, 0, len(cbs))
	for _, cb := range cbs {
		out = append(out, cb(ports.NoHandle, kind, st))
	}
	return out
}
