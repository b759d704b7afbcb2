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
	"github.com/jackc/pgx/v5/pgtype"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db    *sql.DB
	types *pgtype.Map
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db, types: pgtype.NewMap()}
}

const postColumns = `id, title, content, excerpt, featured_image, category, tags,
	status, publish_date, author_name, author_avatar, created_at, updated_at`

// scanPost scans a row into a Post. Tags arrive as a TEXT[] and need the
// pgtype scanner; publish_date is nullable.
func (s *PostStore) scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p           models.Post
		publishDate sql.NullTime
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.Category,
		s.types.SQLScanner(&p.Tags), &p.Status, &publishDate,
		&p.Author.Name, &p.Author.Avatar, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishDate.Valid {
		p.PublishDate = models.FormatTimestamp(publishDate.Time)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// publishDateArg converts the canonical publish date string into a nullable
// timestamp parameter.
func publishDateArg(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("parse publish date %q: %w", s, err)
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

// Get retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := s.scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// List returns all posts in store order.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := s.scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Insert stores a new post at the end of the store order.
func (s *PostStore) Insert(ctx context.Context, p *models.Post) error {
	publishDate, err := publishDateArg(p.PublishDate)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, excerpt, featured_image, category, tags,
		                   status, publish_date, author_name, author_avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.Title, p.Content, p.Excerpt, p.FeaturedImage, p.Category, tagsArg(p.Tags),
		p.Status, publishDate, p.Author.Name, p.Author.Avatar, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Replace overwrites every mutable column of an existing post. id,
// created_at and the store position are left alone.
func (s *PostStore) Replace(ctx context.Context, p *models.Post) error {
	publishDate, err := publishDateArg(p.PublishDate)
	if err != nil {
		return fmt.Errorf("replace post: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, featured_image = $4, category = $5,
			tags = $6, status = $7, publish_date = $8, author_name = $9,
			author_avatar = $10, updated_at = $11
		WHERE id = $12
	`, p.Title, p.Content, p.Excerpt, p.FeaturedImage, p.Category,
		tagsArg(p.Tags), p.Status, publishDate, p.Author.Name,
		p.Author.Avatar, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("replace post: %w", err)
	}
	return expectOneRow(res, "replace post")
}

// Remove deletes a post by ID.
func (s *PostStore) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	return expectOneRow(res, "remove post")
}

// Reorder moves the given posts ahead of every other post, in sequence, by
// giving them positions below the current minimum. Runs in a transaction.
func (s *PostStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var minPos sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MIN(position) FROM posts`).Scan(&minPos); err != nil {
		return fmt.Errorf("reorder posts: %w", err)
	}
	base := minPos.Int64 - int64(len(ids))

	stmt, err := tx.PrepareContext(ctx, `UPDATE posts SET position = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		res, err := stmt.ExecContext(ctx, base+int64(i), id)
		if err != nil {
			return fmt.Errorf("reorder post %s: %w", id, err)
		}
		if err := expectOneRow(res, "reorder posts"); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// tagsArg never sends NULL for the NOT NULL tags column.
func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var (
	_ Posts      = (*PostStore)(nil)
	_ Categories = (*CategoryStore)(nil)
	_ Renamer    = (*CategoryStore)(nil)
)
