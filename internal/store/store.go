// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds Post and Category records. It exposes a small
// record-level contract (get, list, insert, replace, remove) with two
// backends: an in-process memory store and a PostgreSQL store. Every
// method is atomic for the single record it touches; nothing here spans
// records except Reorder and Rename, which the PostgreSQL backend runs in
// a transaction.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ErrNotFound is returned by Replace and Remove when the id is absent.
// Get returns (nil, nil) on a miss instead.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned by Insert when the id is already taken.
var ErrDuplicate = errors.New("record already exists")

// Posts is the post half of the content store.
type Posts interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// List returns every post in store order.
	List(ctx context.Context) ([]models.Post, error)
	Insert(ctx context.Context, p *models.Post) error
	Replace(ctx context.Context, p *models.Post) error
	Remove(ctx context.Context, id uuid.UUID) error
	// Reorder moves the given posts to the front of the store order, in
	// sequence. Posts not named keep their relative order after them.
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// Categories is the category half of the content store. PostCount is not
// stored; List and Get leave it zero.
type Categories interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Insert(ctx context.Context, c *models.Category) error
	Replace(ctx context.Context, c *models.Category) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Renamer is implemented by category backends that can rename a category
// and re-point the posts naming it as one atomic step. Backends without it
// are updated record by record.
type Renamer interface {
	// Rename replaces c and sets the category of every post whose category
	// equals oldName, ignoring case, to c.Name. Each re-pointed post's
	// updated_at moves to at, or just past its previous value if that is
	// later. It returns how many posts reference the category afterwards.
	Rename(ctx context.Context, c *models.Category, oldName string, at time.Time) (int, error)
}
