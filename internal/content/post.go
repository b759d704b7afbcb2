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
	"inkwell/internal/store"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxContentLen = 100_000
	maxExcerptLen = 1_000
)

// PostService enforces the post lifecycle: required fields, status rules,
// category references and timestamps.
type PostService struct {
	posts      store.Posts
	categories store.Categories
	refs       *sync.RWMutex
	locks      *keyedMutex
	now        func() time.Time
}

// Stats counts posts per status, for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Scheduled int `json:"scheduled"`
}

// Create validates the form and stores a new post authored by author.
func (s *PostService) Create(ctx context.Context, in models.PostInput, author models.Author) (*models.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	s.refs.RLock()
	defer s.refs.RUnlock()

	now := stamp(s.now)
	p := &models.Post{
		ID:        uuid.New(),
		Status:    models.PostStatusDraft,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Author:    author,
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}

	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	slog.Info("post created", "post_id", p.ID, "status", p.Status, "author", author.Name)
	return p, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, notFound("Post not found")
	}
	return p, nil
}

// Update merges the form over the stored post. id, createdAt and author are
// preserved; updatedAt strictly advances.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, in models.PostInput) (*models.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	s.refs.RLock()
	defer s.refs.RUnlock()
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = advance(s.now, p.UpdatedAt)

	if err := s.posts.Replace(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("Post not found")
		}
		return nil, fmt.Errorf("replace post: %w", err)
	}

	slog.Info("post updated", "post_id", p.ID, "status", p.Status)
	return p, nil
}

// Delete removes a post unconditionally.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	s.refs.RLock()
	defer s.refs.RUnlock()
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.posts.Remove(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("Post not found")
		}
		return fmt.Errorf("remove post: %w", err)
	}

	slog.Info("post deleted", "post_id", id)
	return nil
}

// List returns every post in store order.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// ListByStatus returns the posts whose status equals status, in store order.
func (s *PostService) ListByStatus(ctx context.Context, status models.PostStatus) ([]models.Post, error) {
	if !status.Valid() {
		return nil, invalid(fmt.Sprintf("Invalid post status %q", status))
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := []models.Post{}
	for _, p := range all {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListSorted returns posts (all, or those with status when non-empty)
// ordered by spec.
func (s *PostService) ListSorted(ctx context.Context, status models.PostStatus, spec SortSpec) ([]models.Post, error) {
	var (
		posts []models.Post
		err   error
	)
	if status == "" {
		posts, err = s.List(ctx)
	} else {
		posts, err = s.ListByStatus(ctx, status)
	}
	if err != nil {
		return nil, err
	}
	spec.Sort(posts)
	return posts, nil
}

// Reorder validates that every id exists, then records the new ordering.
func (s *PostService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	s.refs.Lock()
	defer s.refs.Unlock()

	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid("Post order contains duplicate posts")
		}
		seen[id] = true

		p, err := s.posts.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("reorder posts: %w", err)
		}
		if p == nil {
			return invalid("One or more posts not found")
		}
	}

	if err := s.posts.Reorder(ctx, ids); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("One or more posts not found")
		}
		return fmt.Errorf("reorder posts: %w", err)
	}

	slog.Info("posts reordered", "count", len(ids))
	return nil
}

// Stats counts posts by status.
func (s *PostService) Stats(ctx context.Context) (Stats, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(posts)}
	for _, p := range posts {
		switch p.Status {
		case models.PostStatusPublished:
			st.Published++
		case models.PostStatusDraft:
			st.Draft++
		case models.PostStatusScheduled:
			st.Scheduled++
		}
	}
	return st, nil
}

// apply merges the form into p and enforces the status rules:
// draft carries no publish date, scheduled requires one, and published
// without one is stamped with the current time.
func (s *PostService) apply(ctx context.Context, p *models.Post, in models.PostInput) error {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.FeaturedImage != nil {
		p.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(in.Tags)
	}
	if in.Category != nil {
		name, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return err
		}
		p.Category = name
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid(fmt.Sprintf("Invalid post status %q", *in.Status))
		}
		p.Status = *in.Status
	}
	if in.PublishDate != nil {
		date, err := parsePublishDate(*in.PublishDate)
		if err != nil {
			return err
		}
		p.PublishDate = date
	}

	switch p.Status {
	case models.PostStatusDraft:
		p.PublishDate = ""
	case models.PostStatusScheduled:
		if p.PublishDate == "" {
			return invalid("Scheduled posts require a publish date")
		}
	case models.PostStatusPublished:
		if p.PublishDate == "" {
			p.PublishDate = models.FormatTimestamp(stamp(s.now))
		}
	}
	return nil
}

// resolveCategory maps a category name onto the stored category it names,
// ignoring case. An empty name leaves the post uncategorized.
func (s *PostService) resolveCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve category: %w", err)
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.Name, nil
		}
	}
	return "", invalid(fmt.Sprintf("Category %q does not exist", name))
}

// validatePostInput checks the required fields and length limits.
func validatePostInput(in models.PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return invalid("Post title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid("Post title is too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalid("Post content is required")
	}
	if utf8.RuneCountInString(in.Content) > maxContentLen {
		return invalid("Post content is too long (max 100,000 characters)")
	}
	if in.Excerpt != nil && utf8.RuneCountInString(*in.Excerpt) > maxExcerptLen {
		return invalid("Excerpt is too long (max 1,000 characters)")
	}
	return nil
}

// publishDateLayouts are the accepted input forms: a calendar date from the
// date picker, or a full timestamp.
var publishDateLayouts = []string{"2006-01-02", time.RFC3339}

// parsePublishDate canonicalises a publish date. Empty stays empty.
func parsePublishDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range publishDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.FormatTimestamp(t), nil
		}
	}
	return "", invalid("Publish date must be a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp")
}

// normalizeTags trims tags and drops empty ones. Duplicates are kept.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
