// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// table is an insertion-ordered, mutex-guarded map of records. Values are
// copied on the way in and out with clone.
type table[T any] struct {
	mu    sync.RWMutex
	order []uuid.UUID
	rows  map[uuid.UUID]*T
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	return &table[T]{
		rows:  make(map[uuid.UUID]*T),
		clone: clone,
	}
}

func (t *table[T]) get(id uuid.UUID) *T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	return t.clone(row)
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	items := make([]T, 0, len(t.order))
	for _, id := range t.order {
		items = append(items, *t.clone(t.rows[id]))
	}
	return items
}

func (t *table[T]) insert(id uuid.UUID, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; exists {
		return ErrDuplicate
	}
	t.rows[id] = t.clone(row)
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) replace(id uuid.UUID, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		return ErrNotFound
	}
	t.rows[id] = t.clone(row)
	return nil
}

func (t *table[T]) remove(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		return ErrNotFound
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) reorder(ids []uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	front := make(map[uuid.UUID]bool, len(ids))
	order := make([]uuid.UUID, 0, len(t.order))
	for _, id := range ids {
		if _, exists := t.rows[id]; !exists {
			return ErrNotFound
		}
		if !front[id] {
			front[id] = true
			order = append(order, id)
		}
	}
	for _, id := range t.order {
		if !front[id] {
			order = append(order, id)
		}
	}
	t.order = order
	return nil
}

// MemoryPostStore keeps posts in process memory.
type MemoryPostStore struct {
	t *table[models.Post]
}

// NewMemoryPostStore returns an empty in-memory post store.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{t: newTable((*models.Post).Clone)}
}

func (s *MemoryPostStore) Get(_ context.Context, id uuid.UUID) (*models.Post, error) {
	return s.t.get(id), nil
}

func (s *MemoryPostStore) List(_ context.Context) ([]models.Post, error) {
	return s.t.list(), nil
}

func (s *MemoryPostStore) Insert(_ context.Context, p *models.Post) error {
	return s.t.insert(p.ID, p)
}

func (s *MemoryPostStore) Replace(_ context.Context, p *models.Post) error {
	return s.t.replace(p.ID, p)
}

func (s *MemoryPostStore) Remove(_ context.Context, id uuid.UUID) error {
	return s.t.remove(id)
}

func (s *MemoryPostStore) Reorder(_ context.Context, ids []uuid.UUID) error {
	return s.t.reorder(ids)
}

// MemoryCategoryStore keeps categories in process memory.
type MemoryCategoryStore struct {
	t *table[models.Category]
}

// NewMemoryCategoryStore returns an empty in-memory category store.
func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{t: newTable(func(c *models.Category) *models.Category {
		cp := *c
		cp.PostCount = 0
		return &cp
	})}
}

func (s *MemoryCategoryStore) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	return s.t.get(id), nil
}

func (s *MemoryCategoryStore) List(_ context.Context) ([]models.Category, error) {
	return s.t.list(), nil
}

func (s *MemoryCategoryStore) Insert(_ context.Context, c *models.Category) error {
	return s.t.insert(c.ID, c)
}

func (s *MemoryCategoryStore) Replace(_ context.Context, c *models.Category) error {
	return s.t.replace(c.ID, c)
}

func (s *MemoryCategoryStore) Remove(_ context.Context, id uuid.UUID) error {
	return s.t.remove(id)
}

var (
	_ Posts      = (*MemoryPostStore)(nil)
	_ Categories = (*MemoryCategoryStore)(nil)
)
