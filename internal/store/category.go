// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/models"
)

// CategoryStore manages categories in PostgreSQL.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// List returns all categories in insertion order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Insert stores a new category with its service-assigned id and timestamps.
func (s *CategoryStore) Insert(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Replace overwrites an existing category.
func (s *CategoryStore) Replace(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, description = $3, updated_at = $4
		WHERE id = $5
	`, c.Name, c.Slug, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("replace category: %w", err)
	}
	return expectOneRow(res, "replace category")
}

// Rename replaces c and re-points its posts in one transaction, so a
// failure leaves both the category and its posts under the old name.
func (s *CategoryStore) Rename(ctx context.Context, c *models.Category, oldName string, at time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, description = $3, updated_at = $4
		WHERE id = $5
	`, c.Name, c.Slug, c.Description, c.UpdatedAt, c.ID)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	if err := expectOneRow(res, "rename category"); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET
			category = $1::text,
			updated_at = GREATEST($2::timestamptz, updated_at + INTERVAL '1 microsecond')
		WHERE LOWER(category) = LOWER($3::text) AND category <> $1
	`, c.Name, at, oldName); err != nil {
		return 0, fmt.Errorf("repoint posts: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE LOWER(category) = LOWER($1::text)`, c.Name,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rename: %w", err)
	}
	return count, nil
}

// Remove deletes a category by ID.
func (s *CategoryStore) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	return expectOneRow(res, "remove category")
}

// expectOneRow maps a zero-row UPDATE/DELETE to ErrNotFound.
func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation,
// raised for a reused id or a category name differing only in case.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
