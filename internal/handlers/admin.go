// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Inkwell CMS.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/content"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// recentPostsLimit is how many posts the dashboard lists.
const recentPostsLimit = 5

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	svc       *content.Services
	pageCache *cache.PageCache
	metrics   *metrics.Metrics
}

// NewAdmin creates a new Admin handler group. pageCache and m may be nil.
func NewAdmin(svc *content.Services, pageCache *cache.PageCache, m *metrics.Metrics) *Admin {
	return &Admin{svc: svc, pageCache: pageCache, metrics: m}
}

// Dashboard is the admin landing data: per-status counts and the most
// recently dated posts.
type Dashboard struct {
	Stats       content.Stats     `json:"stats"`
	RecentPosts []models.Post     `json:"recentPosts"`
	Categories  []models.Category `json:"categories"`
	Identity    *models.Identity  `json:"identity,omitempty"`
}

// Dashboard returns post statistics, recent posts and categories.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := a.dashboard(ctx)
	if d != nil {
		d.Identity = middleware.IdentityFromCtx(ctx)
	}
	a.metrics.RecordOperation(ctx, "dashboard", err)
	respond(w, "load dashboard", d, err, http.StatusOK)
}

func (a *Admin) dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := a.svc.Posts.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := a.svc.Posts.ListSorted(ctx, "", content.SortSpec{Field: content.SortByDate, Desc: true})
	if err != nil {
		return nil, err
	}
	if len(recent) > recentPostsLimit {
		recent = recent[:recentPostsLimit]
	}
	cats, err := a.svc.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, RecentPosts: recent, Categories: cats}, nil
}

// --- Posts ---

// PostsList returns every post, optionally filtered by ?status= and
// ordered by ?sort=title|date&dir=asc|desc.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	status := models.PostStatus(q.Get("status"))
	spec := content.ParseSortSpec(q.Get("sort"), q.Get("dir"))

	posts, err := a.svc.Posts.ListSorted(ctx, status, spec)
	a.metrics.RecordOperation(ctx, "list_posts", err)
	respond(w, "load posts", posts, err, http.StatusOK)
}

// PostCreate creates a post authored by the signed-in admin.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	author := middleware.IdentityFromCtx(ctx).Author()
	post, err := a.svc.Posts.Create(ctx, in, author)
	a.afterWrite(ctx, "create_post", err)
	respond(w, "create post", post, err, http.StatusCreated)
}

// PostGet returns a single post of any status.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	post, err := a.svc.Posts.Get(ctx, id)
	a.metrics.RecordOperation(ctx, "get_post", err)
	respond(w, "load post", post, err, http.StatusOK)
}

// PostUpdate replaces the editable fields of a post.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in models.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	post, err := a.svc.Posts.Update(ctx, id, in)
	a.afterWrite(ctx, "update_post", err)
	respond(w, "update post", post, err, http.StatusOK)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	err := a.svc.Posts.Delete(ctx, id)
	a.afterWrite(ctx, "delete_post", err)
	respond[any](w, "delete post", nil, err, http.StatusOK)
}

// reorderRequest is the body of PUT /admin/posts/order.
type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// PostsReorder records a new store order for the listed posts.
func (a *Admin) PostsReorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := a.svc.Posts.Reorder(ctx, req.IDs)
	a.afterWrite(ctx, "reorder_posts", err)
	respond[any](w, "reorder posts", nil, err, http.StatusOK)
}

// --- Categories ---

// CategoriesList returns all categories with post counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cats, err := a.svc.Categories.List(ctx)
	a.metrics.RecordOperation(ctx, "list_categories", err)
	respond(w, "load categories", cats, err, http.StatusOK)
}

// CategoryCreate creates a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}

	cat, err := a.svc.Categories.Create(ctx, in)
	a.afterWrite(ctx, "create_category", err)
	respond(w, "create category", cat, err, http.StatusCreated)
}

// CategoryUpdate renames or re-describes a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in models.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}

	cat, err := a.svc.Categories.Update(ctx, id, in)
	a.afterWrite(ctx, "update_category", err)
	respond(w, "update category", cat, err, http.StatusOK)
}

// CategoryDelete removes a category no post references.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	err := a.svc.Categories.Delete(ctx, id)
	a.afterWrite(ctx, "delete_category", err)
	respond[any](w, "delete category", nil, err, http.StatusOK)
}

// afterWrite records the outcome of a write and clears the public cache
// when it succeeded.
func (a *Admin) afterWrite(ctx context.Context, op string, err error) {
	a.metrics.RecordOperation(ctx, op, err)
	if err == nil {
		a.pageCache.InvalidateAll(ctx)
	}
}
