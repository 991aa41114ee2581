// Package pool implements a fixed-identity object pool. Instances are built
// once by a factory and cycle between an active set and an available free
// list; the pool never shrinks and is the only place instances are created
// or retired.
package pool

import (
	"errors"
	"fmt"
)

// ErrInvalidRelease is returned when releasing an instance the pool does not
// currently track as active: a double release, a never-acquired instance, or
// an instance belonging to another pool. Accepting such a release would let
// the free list hold an instance that is not genuinely free.
var ErrInvalidRelease = errors.New("pool: instance is not active")

// Manager recycles instances of T.
// Accessed only from the game loop goroutine; no locking.
type Manager[T comparable] struct {
	factory func() T
	reset   func(T) error

	// activeIdx maps an active instance to its slot in activeList so a
	// release is O(1) via swap-delete. activeList keeps iteration in a
	// deterministic order.
	activeIdx  map[T]int
	activeList []T
	available  []T

	total int
	grown int
}

// New builds a Manager pre-stocked with initialSize instances. factory must
// return a distinct instance on every call. reset runs on each release to
// return an instance to a known-safe state; nil disables it.
func New[T comparable](initialSize int, factory func() T, reset func(T) error) *Manager[T] {
	if initialSize < 0 {
		initialSize = 0
	}
	m := &Manager[T]{
		factory:   factory,
		reset:     reset,
		activeIdx: make(map[T]int, initialSize),
		available: make([]T, 0, initialSize),
	}
	for i := 0; i < initialSize; i++ {
		m.available = append(m.available, factory())
		m.total++
	}
	return m
}

// Acquire returns an available instance, growing through the factory when
// the free list is empty. Growth never fails; Grown counts instances built
// past the initial size so exhaustion can be tuned rather than handled.
func (m *Manager[T]) Acquire() T {
	var inst T
	if n := len(m.available); n > 0 {
		inst = m.available[n-1]
		m.available = m.available[:n-1]
	} else {
		inst = m.factory()
		m.total++
		m.grown++
	}
	m.activeIdx[inst] = len(m.activeList)
	m.activeList = append(m.activeList, inst)
	return inst
}

// Release moves an active instance back to the free list and runs the reset
// callback. Releasing an instance that is not active returns
// ErrInvalidRelease and changes nothing. The bookkeeping transition happens
// before the callback runs, so a failing reset leaves the instance on the
// free list (possibly partially reset) and reports the failure; it can never
// strand the instance outside both sets.
func (m *Manager[T]) Release(inst T) error {
	idx, ok := m.activeIdx[inst]
	if !ok {
		return ErrInvalidRelease
	}
	last := len(m.activeList) - 1
	moved := m.activeList[last]
	m.activeList[idx] = moved
	m.activeIdx[moved] = idx
	m.activeList = m.activeList[:last]
	delete(m.activeIdx, inst)
	m.available = append(m.available, inst)

	if m.reset != nil {
		if err := m.reset(inst); err != nil {
			return fmt.Errorf("pool: reset released instance: %w", err)
		}
	}
	return nil
}

// ReleaseAll releases every active instance and reports how many moved. The
// active set is snapshotted first, so each instance is released exactly once
// and an immediate second call is a no-op that cannot grow the free list.
func (m *Manager[T]) ReleaseAll() int {
	if len(m.activeList) == 0 {
		return 0
	}
	snapshot := append([]T(nil), m.activeList...)
	released := 0
	for _, inst := range snapshot {
		if err := m.Release(inst); err == nil || !errors.Is(err, ErrInvalidRelease) {
			released++
		}
	}
	return released
}

// Active returns a copy of the active set. The pool may be mutated freely
// while ranging over the result.
func (m *Manager[T]) Active() []T {
	return append([]T(nil), m.activeList...)
}

// ActiveInto appends the active set into buf (reset to length zero first)
// and returns it. Like Active it is a snapshot, but reusing buf avoids a
// per-frame allocation.
func (m *Manager[T]) ActiveInto(buf []T) []T {
	return append(buf[:0], m.activeList...)
}

// ActiveCount reports how many instances are currently acquired.
func (m *Manager[T]) ActiveCount() int { return len(m.activeList) }

// AvailableCount reports how many instances sit on the free list.
func (m *Manager[T]) AvailableCount() int { return len(m.available) }

// TotalCount reports how many instances the pool has ever constructed.
// It never decreases.
func (m *Manager[T]) TotalCount() int { return m.total }

// Grown reports how many instances were constructed on demand beyond the
// initial size.
func (m *Manager[T]) Grown() int { return m.grown }
