/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package state implements the in-memory window state store. The store owns one accumulator per (window, key) pair,
// accumulators are created lazily on the first write and folded with a user supplied function.
//
// A Store is not thread safe. Each processing unit owns its own store and upstream partitioning by key guarantees a
// single writer for every (window, key) pair, so the store does not lock.
package state

import (
	"github.com/GaaraJWH/jstorm/pkg/window"
)

// InitFunc returns the initial value of an accumulator.
type InitFunc[A any] func() A

// FoldFunc folds an event into an accumulator and returns the updated accumulator. When an error is returned the
// accumulator keeps its previous value.
type FoldFunc[A any] func(acc A, ev *window.Event) (A, error)

// Entry is a single (key, accumulator) pair of a window snapshot.
type Entry[A any] struct {
	Key   string
	Value A
}

// windowState holds the accumulators of a single window, keys are kept in arrival order.
type windowState[A any] struct {
	accumulators map[string]A
	keys         []string
}

// Store maps window ID to the accumulators of that window.
type Store[A any] struct {
	init    InitFunc[A]
	fold    FoldFunc[A]
	windows map[string]*windowState[A]
	size    int
}

// NewStore returns an empty store.
func NewStore[A any](init InitFunc[A], fold FoldFunc[A]) *Store[A] {
	return &Store[A]{
		init:    init,
		fold:    fold,
		windows: make(map[string]*windowState[A]),
	}
}

// Update looks up or lazily creates the accumulator of (id, key) and folds the event into it. A failing fold leaves
// the accumulator, and every other accumulator of the window, untouched. A key whose first fold fails is not
// created.
func (s *Store[A]) Update(id window.ID, key string, ev *window.Event) error {
	ws, ok := s.windows[id.String()]
	if !ok {
		ws = &windowState[A]{accumulators: make(map[string]A)}
		s.windows[id.String()] = ws
	}

	acc, exists := ws.accumulators[key]
	if !exists {
		acc = s.init()
	}
	updated, err := s.fold(acc, ev)
	if err != nil {
		if len(ws.keys) == 0 {
			delete(s.windows, id.String())
		}
		return err
	}

	ws.accumulators[key] = updated
	if !exists {
		ws.keys = append(ws.keys, key)
		s.size++
	}
	return nil
}

// Snapshot returns the (key, accumulator) pairs of the window in key arrival order. The returned slice is a copy, but
// accumulators of reference types are shared with the store and must not be mutated by the caller. An absent window
// yields an empty snapshot.
func (s *Store[A]) Snapshot(id window.ID) []Entry[A] {
	ws, ok := s.windows[id.String()]
	if !ok {
		return []Entry[A]{}
	}
	entries := make([]Entry[A], 0, len(ws.keys))
	for _, k := range ws.keys {
		entries = append(entries, Entry[A]{Key: k, Value: ws.accumulators[k]})
	}
	return entries
}

// Get returns the accumulator of (id, key).
func (s *Store[A]) Get(id window.ID, key string) (A, bool) {
	var empty A
	ws, ok := s.windows[id.String()]
	if !ok {
		return empty, false
	}
	acc, ok := ws.accumulators[key]
	return acc, ok
}

// Clear removes every accumulator of the window. Clearing an absent window is a no-op.
func (s *Store[A]) Clear(id window.ID) {
	if ws, ok := s.windows[id.String()]; ok {
		s.size -= len(ws.keys)
		delete(s.windows, id.String())
	}
}

// Reset removes every accumulator of every window.
func (s *Store[A]) Reset() {
	s.windows = make(map[string]*windowState[A])
	s.size = 0
}

// Len returns the total number of accumulators across all windows.
func (s *Store[A]) Len() int {
	return s.size
}

// Windows returns the number of windows holding at least one accumulator.
func (s *Store[A]) Windows() int {
	return len(s.windows)
}

// Keys returns the grouping keys of the window in arrival order.
func (s *Store[A]) Keys(id window.ID) []string {
	ws, ok := s.windows[id.String()]
	if !ok {
		return nil
	}
	keys := make([]string, len(ws.keys))
	copy(keys, ws.keys)
	return keys
}
