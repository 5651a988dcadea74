package storage

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

// FaultStore wraps a Store and fails chosen operations. It is used by tests
// to exercise read and write failure paths without a real filesystem.
type FaultStore struct {
	Store

	mu         sync.Mutex
	failRead   map[string]error
	failWrite  map[string]error
	failEnsure error
	calls      FaultCalls
}

// FaultCalls tracks method invocations for test verification.
type FaultCalls struct {
	ReadText  int
	WriteFile int
	EnsureDir int
	Written   []string
}

// NewFaultStore wraps inner. With no faults registered it behaves like inner.
func NewFaultStore(inner Store) *FaultStore {
	return &FaultStore{
		Store:     inner,
		failRead:  make(map[string]error),
		failWrite: make(map[string]error),
	}
}

// FailRead makes ReadText(name) return a read error wrapping cause.
func (f *FaultStore) FailRead(name string, cause error) *FaultStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRead[name] = cause
	return f
}

// FailWrite makes WriteFile(name) return a write error wrapping cause.
func (f *FaultStore) FailWrite(name string, cause error) *FaultStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite[name] = cause
	return f
}

// FailEnsureDir makes every EnsureDir call return a write error wrapping cause.
func (f *FaultStore) FailEnsureDir(cause error) *FaultStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failEnsure = cause
	return f
}

// Calls returns a snapshot of recorded invocations.
func (f *FaultStore) Calls() FaultCalls {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.calls
	c.Written = append([]string(nil), f.calls.Written...)
	return c
}

func (f *FaultStore) ReadText(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	f.calls.ReadText++
	cause, fail := f.failRead[name]
	f.mu.Unlock()
	if fail {
		return "", errors.WrapError(cause, errors.CategoryRead, "read input").Fatal().WithContext("path", name).Build()
	}
	return f.Store.ReadText(ctx, name)
}

func (f *FaultStore) WriteFile(ctx context.Context, name string, data []byte) error {
	f.mu.Lock()
	f.calls.WriteFile++
	cause, fail := f.failWrite[name]
	f.mu.Unlock()
	if fail {
		return errors.WrapError(cause, errors.CategoryWrite, "write output").Fatal().WithContext("path", name).Build()
	}
	if err := f.Store.WriteFile(ctx, name, data); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls.Written = append(f.calls.Written, name)
	f.mu.Unlock()
	return nil
}

func (f *FaultStore) EnsureDir(ctx context.Context, dir string) error {
	f.mu.Lock()
	f.calls.EnsureDir++
	cause := f.failEnsure
	f.mu.Unlock()
	if cause != nil {
		return errors.WrapError(cause, errors.CategoryWrite, "create directory").Fatal().WithContext("path", dir).Build()
	}
	return f.Store.EnsureDir(ctx, dir)
}
