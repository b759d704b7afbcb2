// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the post lifecycle and category rules on top
// of the content store. The services validate input, stamp timestamps and
// return typed errors (ValidationError, NotFoundError, ConflictError) that
// Respond turns into the uniform result envelope.
//
// Concurrency: post writes on different ids run in parallel and writes on
// the same id serialize on a per-id lock. Category writes, which read or
// rewrite the post set (reference counts, renames), take the reference lock
// exclusively; post writes hold it shared, so a category can never be
// deleted while a post naming it is being saved.
package content

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/store"
)

// Services bundles the post and category services over one content store.
type Services struct {
	Posts      *PostService
	Categories *CategoryService
}

// New wires both services to the given stores. The stores are owned by the
// caller, which constructs them at process start.
func New(posts store.Posts, categories store.Categories) *Services {
	refs := &sync.RWMutex{}
	return &Services{
		Posts: &PostService{
			posts:      posts,
			categories: categories,
			refs:       refs,
			locks:      newKeyedMutex(),
			now:        time.Now,
		},
		Categories: &CategoryService{
			posts:      posts,
			categories: categories,
			refs:       refs,
			now:        time.Now,
		},
	}
}

// stamp returns the current time at the precision PostgreSQL keeps, so a
// value read back from either backend compares equal to the one written.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}

// advance returns a timestamp strictly after prev.
func advance(now func() time.Time, prev time.Time) time.Time {
	t := stamp(now)
	if !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	return t
}

// keyedMutex hands out one mutex per id. Entries are reference counted and
// dropped once no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*keyedEntry)}
}

// Lock acquires the mutex for id and returns its unlock function.
func (k *keyedMutex) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.locks[id]
	if !ok {
		entry = &keyedEntry{}
		k.locks[id] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
