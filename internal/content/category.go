// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Validation limits for category fields.
const (
	maxCategoryNameLen = 100
	maxDescriptionLen  = 500
)

// CategoryService enforces case-insensitive name uniqueness and refuses to
// delete a category that posts still reference. PostCount is always
// computed from the live post set.
type CategoryService struct {
	posts      store.Posts
	categories store.Categories
	refs       *sync.RWMutex
	now        func() time.Time
}

// Create validates and stores a new category.
func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	name, err := validateCategoryInput(in)
	if err != nil {
		return nil, err
	}

	s.refs.Lock()
	defer s.refs.Unlock()

	existing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("A category with this name already exists")
	}

	now := stamp(s.now)
	c := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug.Generate(name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	slog.Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Get returns a category with its current post count.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.countPosts(ctx)
	if err != nil {
		return nil, err
	}
	c.PostCount = counts[strings.ToLower(c.Name)]
	return c, nil
}

// Update renames and re-describes a category. The slug follows the name.
// Posts that referenced the old name are re-pointed at the new one, so the
// post count is unchanged.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in models.CategoryInput) (*models.Category, error) {
	s.refs.Lock()
	defer s.refs.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := validateCategoryInput(in)
	if err != nil {
		return nil, err
	}

	other, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, conflict("Another category with this name already exists")
	}

	oldName := c.Name
	c.Name = name
	c.Slug = slug.Generate(name)
	c.Description = strings.TrimSpace(in.Description)
	c.UpdatedAt = advance(s.now, c.UpdatedAt)

	moved, err := s.rename(ctx, c, oldName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("Category not found")
	}
	if errors.Is(err, store.ErrDuplicate) {
		return nil, conflict("Another category with this name already exists")
	}
	if err != nil {
		return nil, err
	}
	c.PostCount = moved

	slog.Info("category updated", "category_id", c.ID, "name", c.Name, "posts_moved", moved)
	return c, nil
}

// Delete removes a category that no post references.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	s.refs.Lock()
	defer s.refs.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	counts, err := s.countPosts(ctx)
	if err != nil {
		return err
	}
	if n := counts[strings.ToLower(c.Name)]; n > 0 {
		slog.Warn("category delete blocked", "category_id", id, "post_count", n)
		return conflict("Cannot delete a category that has posts. Please reassign or delete the posts first.")
	}

	if err := s.categories.Remove(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Category not found")
		}
		return fmt.Errorf("remove category: %w", err)
	}

	slog.Info("category deleted", "category_id", id, "name", c.Name)
	return nil
}

// List returns all categories in store order with live post counts.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	counts, err := s.countPosts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		c.PostCount = counts[strings.ToLower(c.Name)]
		items = append(items, c)
	}
	return items, nil
}

func (s *CategoryService) get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, notFound("Category not found")
	}
	return c, nil
}

// findByName looks a category up by case-insensitive name. Returns nil if
// none matches.
func (s *CategoryService) findByName(ctx context.Context, name string) (*models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Name, name) {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// countPosts indexes the live post set by lowercased category name.
func (s *CategoryService) countPosts(ctx context.Context) (map[string]int, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	counts := make(map[string]int)
	for _, p := range posts {
		if p.Category != "" {
			counts[strings.ToLower(p.Category)]++
		}
	}
	return counts, nil
}

// rename stores c and moves the posts naming oldName over to it. Backends
// implementing store.Renamer do both atomically; otherwise each record is
// written in turn under the exclusive reference lock.
func (s *CategoryService) rename(ctx context.Context, c *models.Category, oldName string) (int, error) {
	if r, ok := s.categories.(store.Renamer); ok {
		n, err := r.Rename(ctx, c, oldName, stamp(s.now))
		if err != nil {
			return 0, fmt.Errorf("rename category: %w", err)
		}
		return n, nil
	}

	if err := s.categories.Replace(ctx, c); err != nil {
		return 0, fmt.Errorf("replace category: %w", err)
	}
	return s.repointPosts(ctx, oldName, c.Name)
}

// repointPosts rewrites the category of every post naming oldName to
// newName and returns how many posts reference the category afterwards.
// Callers hold the reference lock exclusively.
func (s *CategoryService) repointPosts(ctx context.Context, oldName, newName string) (int, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}

	count := 0
	for i := range posts {
		p := &posts[i]
		if !strings.EqualFold(p.Category, oldName) {
			continue
		}
		count++
		if p.Category == newName {
			continue
		}
		p.Category = newName
		p.UpdatedAt = advance(s.now, p.UpdatedAt)
		if err := s.posts.Replace(ctx, p); err != nil {
			return 0, fmt.Errorf("repoint post %s: %w", p.ID, err)
		}
	}
	return count, nil
}

// validateCategoryInput checks the form and returns the trimmed name.
func validateCategoryInput(in models.CategoryInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", invalid("Category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", invalid("Category name is too long (max 100 characters)")
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return "", invalid("Category description is too long (max 500 characters)")
	}
	return name, nil
}
