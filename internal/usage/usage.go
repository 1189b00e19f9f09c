// Package usage tracks how many calculations have been completed.
package usage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrUnavailable wraps failures of the counter backend.
var ErrUnavailable = errors.New("usage counter unavailable")

// Counter is a shared usage counter.
type Counter interface {
	Read(ctx context.Context) (int64, error)
	IncrementAndGet(ctx context.Context) (int64, error)
	Subscribe(fn func(int64)) (cancel func())
}

// Subscribers fans counter values out to callbacks.
type Subscribers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(int64)
}

// Add registers fn and returns a function removing it.
func (s *Subscribers) Add(fn func(int64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = map[int]func(int64){}
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// Publish calls every registered callback with v.
func (s *Subscribers) Publish(v int64) {
	s.mu.Lock()
	fns := make([]func(int64), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Memory is an in-process Counter.
type Memory struct {
	mu    sync.Mutex
	value int64
	subs  Subscribers
}

// NewMemory returns a counter starting at start.
func NewMemory(start int64) *Memory {
	return &Memory{value: start}
}

// Read implements Counter.
func (m *Memory) Read(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

// IncrementAndGet implements Counter.
func (m *Memory) IncrementAndGet(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	m.mu.Lock()
	m.value++
	v := m.value
	m.mu.Unlock()
	m.subs.Publish(v)
	return v, nil
}

// Subscribe implements Counter.
func (m *Memory) Subscribe(fn func(int64)) func() {
	return m.subs.Add(fn)
}

// Tracker keeps a local copy of the shared counter. Backend failures are
// logged and never interrupt the caller.
type Tracker struct {
	counter Counter
	log     *slog.Logger

	mu    sync.Mutex
	local int64
}

// NewTracker wraps counter. A nil counter turns every call into a no-op.
func NewTracker(counter Counter, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{counter: counter, log: log}
}

// Local returns the last known counter value.
func (t *Tracker) Local() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.local
}

func (t *Tracker) set(v int64) {
	t.mu.Lock()
	t.local = v
	t.mu.Unlock()
}

// Refresh reads the shared value into the local copy.
func (t *Tracker) Refresh(ctx context.Context) int64 {
	if t.counter == nil {
		return t.Local()
	}
	v, err := t.counter.Read(ctx)
	if err != nil {
		t.log.Warn("failed to read usage counter", slog.Any("error", err))
		return t.Local()
	}
	t.set(v)
	return v
}

// Complete records one finished calculation and returns the local value.
// On failure the local value is left unchanged.
func (t *Tracker) Complete(ctx context.Context) int64 {
	if t.counter == nil {
		return t.Local()
	}
	v, err := t.counter.IncrementAndGet(ctx)
	if err != nil {
		t.log.Warn("failed to increment usage counter", slog.Any("error", err))
		return t.Local()
	}
	t.set(v)
	return v
}

// Follow keeps the local copy in sync with live updates until cancel is called.
func (t *Tracker) Follow() (cancel func()) {
	if t.counter == nil {
		return func() {}
	}
	return t.counter.Subscribe(t.set)
}
