// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// --- Dashboard ---

func TestDashboard_ReturnsStats(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req = req.WithContext(ctxWithIdentity(req.Context(), &testIdentity))
	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Dashboard: got status %d, want %d", rec.Code, http.StatusOK)
	}
	res := decodeResult[Dashboard](t, rec)
	if !res.Success {
		t.Fatalf("Dashboard: success = false, error %q", res.Error)
	}

	st := res.Data.Stats
	if st.Total != 4 || st.Published != 2 || st.Draft != 1 || st.Scheduled != 1 {
		t.Errorf("stats = %+v, want 4 total / 2 published / 1 draft / 1 scheduled", st)
	}
	if len(res.Data.RecentPosts) != 4 {
		t.Errorf("recent posts: got %d, want 4", len(res.Data.RecentPosts))
	}
	if len(res.Data.Categories) != 6 {
		t.Errorf("categories: got %d, want 6", len(res.Data.Categories))
	}
	if res.Data.Identity == nil || res.Data.Identity.Username != "admin" {
		t.Errorf("identity = %+v, want admin", res.Data.Identity)
	}
}

// --- Posts ---

func TestPostCreate_ValidData_Returns201(t *testing.T) {
	env := newTestEnv(t)
	env.newCategory(t, "Design")

	req := jsonRequest(t, http.MethodPost, "/admin/posts", models.PostInput{
		Title:    "  Hello World  ",
		Content:  "<p>Body</p>",
		Category: ptr("design"),
		Tags:     []string{" go ", "", "go"},
	})
	req = req.WithContext(ctxWithIdentity(req.Context(), &testIdentity))
	rec := httptest.NewRecorder()
	env.Admin.PostCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("PostCreate: got status %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body)
	}
	res := decodeResult[models.Post](t, rec)
	p := res.Data
	if p.Title != "Hello World" {
		t.Errorf("title = %q, want trimmed", p.Title)
	}
	if p.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", p.Status)
	}
	if p.Category != "Design" {
		t.Errorf("category = %q, want canonical Design", p.Category)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "go" {
		t.Errorf("tags = %v, want [go go]", p.Tags)
	}
	if p.Author.Name != "Admin" {
		t.Errorf("author = %q, want Admin", p.Author.Name)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
}

func TestPostCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   models.PostInput
		want string
	}{
		{"missing title", models.PostInput{Content: "x"}, "Post title is required"},
		{"missing content", models.PostInput{Title: "x"}, "Post content is required"},
		{"unknown category", models.PostInput{Title: "x", Content: "y", Category: ptr("Nope")}, `Category "Nope" does not exist`},
		{"bad status", models.PostInput{Title: "x", Content: "y", Status: ptr(models.PostStatus("archived"))}, "Invalid post status"},
		{"scheduled without date", models.PostInput{Title: "x", Content: "y", Status: ptr(models.PostStatusScheduled)}, "Scheduled posts require a publish date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := httptest.NewRecorder()
			env.Admin.PostCreate(rec, jsonRequest(t, http.MethodPost, "/admin/posts", tt.in))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
			}
			res := decodeResult[any](t, rec)
			if res.Success || !strings.Contains(res.Error, tt.want) {
				t.Errorf("error = %q, want it to contain %q", res.Error, tt.want)
			}
		})
	}
}

func TestPostCreate_InvalidJSON_Returns400(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.Admin.PostCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if res := decodeResult[any](t, rec); res.Error != "Invalid request body" {
		t.Errorf("error = %q", res.Error)
	}
	posts, _ := env.Svc.Posts.List(req.Context())
	if len(posts) != 0 {
		t.Errorf("no post should be stored, got %d", len(posts))
	}
}

func TestPostGet(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPost(t, models.PostInput{Title: "Draft", Content: "x"})

	t.Run("existing draft", func(t *testing.T) {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/posts/"+p.ID.String(), nil), "id", p.ID.String())
		rec := httptest.NewRecorder()
		env.Admin.PostGet(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", rec.Code)
		}
		if res := decodeResult[models.Post](t, rec); res.Data.ID != p.ID {
			t.Errorf("id = %s, want %s", res.Data.ID, p.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		id := uuid.New().String()
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/posts/"+id, nil), "id", id)
		rec := httptest.NewRecorder()
		env.Admin.PostGet(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", rec.Code)
		}
		if res := decodeResult[any](t, rec); res.Error != "Post not found" {
			t.Errorf("error = %q", res.Error)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/posts/abc", nil), "id", "abc")
		rec := httptest.NewRecorder()
		env.Admin.PostGet(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", rec.Code)
		}
	})
}

func TestPostUpdate_PublishStampsDate(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPost(t, models.PostInput{Title: "Draft", Content: "x"})

	req := jsonRequest(t, http.MethodPut, "/admin/posts/"+p.ID.String(), models.PostInput{
		Title:   "Live",
		Content: "x",
		Status:  ptr(models.PostStatusPublished),
	})
	req = withChiURLParam(req, "id", p.ID.String())
	rec := httptest.NewRecorder()
	env.Admin.PostUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	got := decodeResult[models.Post](t, rec).Data
	if got.Status != models.PostStatusPublished || got.PublishDate == "" {
		t.Errorf("status %q date %q, want published with a date", got.Status, got.PublishDate)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", p.CreatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v -> %v", p.UpdatedAt, got.UpdatedAt)
	}
}

func TestPostUpdate_UnknownID_Returns404(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New().String()

	req := jsonRequest(t, http.MethodPut, "/admin/posts/"+id, models.PostInput{Title: "x", Content: "y"})
	req = withChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	env.Admin.PostUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestPostDelete(t *testing.T) {
	env := newTestEnv(t)
	p := env.newPost(t, models.PostInput{Title: "Doomed", Content: "x"})

	del := func() *httptest.ResponseRecorder {
		req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/posts/"+p.ID.String(), nil), "id", p.ID.String())
		rec := httptest.NewRecorder()
		env.Admin.PostDelete(rec, req)
		return rec
	}

	if rec := del(); rec.Code != http.StatusOK {
		t.Fatalf("first delete: got status %d, want 200", rec.Code)
	}
	if rec := del(); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: got status %d, want 404", rec.Code)
	}
}

func TestPostsList_FilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	env.newPost(t, models.PostInput{Title: "Bravo", Content: "x", Status: ptr(models.PostStatusPublished)})
	env.newPost(t, models.PostInput{Title: "Alpha", Content: "x"})
	env.newPost(t, models.PostInput{Title: "Charlie", Content: "x", Status: ptr(models.PostStatusPublished)})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Bravo", "Alpha", "Charlie"}},
		{"?sort=title", []string{"Alpha", "Bravo", "Charlie"}},
		{"?sort=title&dir=desc", []string{"Charlie", "Bravo", "Alpha"}},
		{"?status=published", []string{"Bravo", "Charlie"}},
		{"?status=draft&sort=title", []string{"Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Admin.PostsList(rec, httptest.NewRequest(http.MethodGet, "/admin/posts"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", rec.Code)
			}
			posts := decodeResult[[]models.Post](t, rec).Data
			if len(posts) != len(tt.want) {
				t.Fatalf("got %d posts, want %d", len(posts), len(tt.want))
			}
			for i, title := range tt.want {
				if posts[i].Title != title {
					t.Errorf("posts[%d] = %q, want %q", i, posts[i].Title, title)
				}
			}
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.PostsList(rec, httptest.NewRequest(http.MethodGet, "/admin/posts?status=archived", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want 400", rec.Code)
		}
	})
}

func TestPostsReorder(t *testing.T) {
	env := newTestEnv(t)
	a := env.newPost(t, models.PostInput{Title: "A", Content: "x"})
	b := env.newPost(t, models.PostInput{Title: "B", Content: "x"})
	c := env.newPost(t, models.PostInput{Title: "C", Content: "x"})

	rec := httptest.NewRecorder()
	env.Admin.PostsReorder(rec, jsonRequest(t, http.MethodPut, "/admin/posts/order",
		reorderRequest{IDs: []uuid.UUID{c.ID, a.ID}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("reorder: got status %d, want 200 (body %s)", rec.Code, rec.Body)
	}

	posts, err := env.Svc.Posts.List(t.Context())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []uuid.UUID{c.ID, a.ID, b.ID}
	for i, id := range want {
		if posts[i].ID != id {
			t.Errorf("posts[%d] = %s, want %s", i, posts[i].Title, []string{"C", "A", "B"}[i])
		}
	}

	t.Run("unknown id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Admin.PostsReorder(rec, jsonRequest(t, http.MethodPut, "/admin/posts/order",
			reorderRequest{IDs: []uuid.UUID{a.ID, uuid.New()}}))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want 400", rec.Code)
		}
	})
}

// --- Categories ---

func TestCategoryCreate(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.CategoryCreate(rec, jsonRequest(t, http.MethodPost, "/admin/categories",
		models.CategoryInput{Name: "Web Design", Description: "Layouts"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201 (body %s)", rec.Code, rec.Body)
	}
	c := decodeResult[models.Category](t, rec).Data
	if c.Slug != "web-design" || c.PostCount != 0 {
		t.Errorf("category = %+v, want slug web-design and no posts", c)
	}

	rec = httptest.NewRecorder()
	env.Admin.CategoryCreate(rec, jsonRequest(t, http.MethodPost, "/admin/categories",
		models.CategoryInput{Name: "WEB DESIGN"}))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: got status %d, want 409", rec.Code)
	}
	if res := decodeResult[any](t, rec); res.Error != "A category with this name already exists" {
		t.Errorf("error = %q", res.Error)
	}

	rec = httptest.NewRecorder()
	env.Admin.CategoryCreate(rec, jsonRequest(t, http.MethodPost, "/admin/categories",
		models.CategoryInput{Name: "   "}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank: got status %d, want 400", rec.Code)
	}
}

func TestCategoryUpdate(t *testing.T) {
	env := newTestEnv(t)
	design := env.newCategory(t, "Design")
	env.newCategory(t, "Travel")
	env.newPost(t, models.PostInput{Title: "P", Content: "x", Category: ptr("Design")})

	update := func(id, name string) *httptest.ResponseRecorder {
		req := jsonRequest(t, http.MethodPut, "/admin/categories/"+id, models.CategoryInput{Name: name})
		rec := httptest.NewRecorder()
		env.Admin.CategoryUpdate(rec, withChiURLParam(req, "id", id))
		return rec
	}

	rec := update(design.ID.String(), "Visual Design")
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: got status %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	c := decodeResult[models.Category](t, rec).Data
	if c.Name != "Visual Design" || c.Slug != "visual-design" || c.PostCount != 1 {
		t.Errorf("renamed = %+v", c)
	}

	if rec := update(design.ID.String(), "travel"); rec.Code != http.StatusConflict {
		t.Errorf("conflicting rename: got status %d, want 409", rec.Code)
	}
	if rec := update(uuid.New().String(), "Anything"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: got status %d, want 404", rec.Code)
	}
}

func TestCategoryDelete_BlockedByPosts(t *testing.T) {
	env := newTestEnv(t)
	c := env.newCategory(t, "Design")
	p := env.newPost(t, models.PostInput{Title: "P", Content: "x", Category: ptr("Design")})

	del := func() *httptest.ResponseRecorder {
		req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/categories/"+c.ID.String(), nil), "id", c.ID.String())
		rec := httptest.NewRecorder()
		env.Admin.CategoryDelete(rec, req)
		return rec
	}

	rec := del()
	if rec.Code != http.StatusConflict {
		t.Fatalf("delete with posts: got status %d, want 409", rec.Code)
	}
	if res := decodeResult[any](t, rec); !strings.HasPrefix(res.Error, "Cannot delete a category that has posts") {
		t.Errorf("error = %q", res.Error)
	}

	if err := env.Svc.Posts.Delete(t.Context(), p.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if rec := del(); rec.Code != http.StatusOK {
		t.Fatalf("delete after posts removed: got status %d, want 200", rec.Code)
	}
}

func TestCategoriesList_Counts(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	rec := httptest.NewRecorder()
	env.Admin.CategoriesList(rec, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))

	cats := decodeResult[[]models.Category](t, rec).Data
	counts := map[string]int{}
	for _, c := range cats {
		counts[c.Name] = c.PostCount
	}
	want := map[string]int{"Design": 1, "Lifestyle": 1, "Architecture": 1, "Technology": 1, "Psychology": 0, "Travel": 0}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("%s: got %d posts, want %d", name, counts[name], n)
		}
	}
}
