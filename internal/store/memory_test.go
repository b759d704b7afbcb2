package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func newMemPost(title string) *models.Post {
	now := time.Now()
	return &models.Post{
		ID:        uuid.New(),
		Title:     title,
		Content:   "body",
		Tags:      []string{"go"},
		Status:    models.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func postTitles(posts []models.Post) []string {
	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.Title
	}
	return titles
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMemoryPostStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	p := newMemPost("first")
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, p); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Insert: got %v, want ErrDuplicate", err)
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: got %v, %v", got, err)
	}
	if got.Title != "first" {
		t.Errorf("Title: got %q, want %q", got.Title, "first")
	}

	got.Title = "changed"
	if err := s.Replace(ctx, got); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	again, _ := s.Get(ctx, p.ID)
	if again.Title != "changed" {
		t.Errorf("Title after Replace: got %q, want %q", again.Title, "changed")
	}

	if err := s.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if gone, _ := s.Get(ctx, p.ID); gone != nil {
		t.Errorf("expected nil after Remove, got %+v", gone)
	}
	if err := s.Remove(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing: got %v, want ErrNotFound", err)
	}
	if err := s.Replace(ctx, p); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace missing: got %v, want ErrNotFound", err)
	}
}

func TestMemoryPostStoreDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	p := newMemPost("alias")
	s.Insert(ctx, p)
	p.Tags[0] = "mutated-after-insert"

	got, _ := s.Get(ctx, p.ID)
	if got.Tags[0] != "go" {
		t.Errorf("stored tags aliased caller slice: %v", got.Tags)
	}

	got.Tags[0] = "mutated-after-get"
	list, _ := s.List(ctx)
	if list[0].Tags[0] != "go" {
		t.Errorf("stored tags aliased returned slice: %v", list[0].Tags)
	}
}

func TestMemoryPostStoreKeepsEmptyTags(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	p := newMemPost("untagged")
	p.Tags = []string{}
	s.Insert(ctx, p)

	got, _ := s.Get(ctx, p.ID)
	if got.Tags == nil {
		t.Error("Get: empty tags came back nil")
	}
	list, _ := s.List(ctx)
	if list[0].Tags == nil {
		t.Error("List: empty tags came back nil")
	}
}

func TestMemoryPostStoreOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	a, b, c, d := newMemPost("a"), newMemPost("b"), newMemPost("c"), newMemPost("d")
	for _, p := range []*models.Post{a, b, c, d} {
		s.Insert(ctx, p)
	}

	list, _ := s.List(ctx)
	if got := postTitles(list); !equalStrings(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("insertion order: got %v", got)
	}

	if err := s.Reorder(ctx, []uuid.UUID{d.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	list, _ = s.List(ctx)
	if got := postTitles(list); !equalStrings(got, []string{"d", "b", "a", "c"}) {
		t.Errorf("after Reorder: got %v, want [d b a c]", got)
	}

	if err := s.Reorder(ctx, []uuid.UUID{a.ID, uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reorder unknown id: got %v, want ErrNotFound", err)
	}
	list, _ = s.List(ctx)
	if got := postTitles(list); !equalStrings(got, []string{"d", "b", "a", "c"}) {
		t.Errorf("failed Reorder must not change order: got %v", got)
	}

	s.Remove(ctx, b.ID)
	list, _ = s.List(ctx)
	if got := postTitles(list); !equalStrings(got, []string{"d", "a", "c"}) {
		t.Errorf("after Remove: got %v, want [d a c]", got)
	}
}

func TestMemoryCategoryStoreIgnoresPostCount(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCategoryStore()

	c := &models.Category{ID: uuid.New(), Name: "Design", Slug: "design", PostCount: 7}
	if err := s.Insert(ctx, c); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, _ := s.Get(ctx, c.ID)
	if got.PostCount != 0 {
		t.Errorf("PostCount must not be stored: got %d", got.PostCount)
	}

	list, _ := s.List(ctx)
	if len(list) != 1 || list[0].Name != "Design" {
		t.Errorf("List: got %+v", list)
	}
}
