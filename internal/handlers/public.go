// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"inkwell/internal/cache"
	"inkwell/internal/content"
	"inkwell/internal/metrics"
	"inkwell/internal/models"
)

// Public groups the read-only API for the public site. It checks the
// Valkey page cache first and stores successful responses on a miss.
type Public struct {
	svc       *content.Services
	pageCache *cache.PageCache
	metrics   *metrics.Metrics
}

// NewPublic creates a new Public handler group. pageCache and m may be nil.
func NewPublic(svc *content.Services, pageCache *cache.PageCache, m *metrics.Metrics) *Public {
	return &Public{svc: svc, pageCache: pageCache, metrics: m}
}

// Posts lists published posts, newest first unless ?sort=title|date and
// ?dir=asc|desc say otherwise.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	spec := content.ParseSortSpec(q.Get("sort"), q.Get("dir"))
	if spec.Field == "" {
		spec = content.SortSpec{Field: content.SortByDate, Desc: true}
	}
	dir := "asc"
	if spec.Desc {
		dir = "desc"
	}
	key := cache.PostListKey(spec.Field, dir)

	if p.serveCached(w, r, "posts", key) {
		return
	}

	posts, err := p.svc.Posts.ListSorted(ctx, models.PostStatusPublished, spec)
	p.metrics.RecordOperation(ctx, "public_list_posts", err)
	p.write(w, r, key, "load posts", posts, err)
}

// Post returns a single published post. Drafts and scheduled posts are
// reported as missing.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	key := cache.PostKey(id)

	if p.serveCached(w, r, "post", key) {
		return
	}

	post, err := p.svc.Posts.Get(ctx, id)
	if err == nil && !post.IsPublished() {
		post, err = nil, &content.NotFoundError{Reason: "Post not found"}
	}
	p.metrics.RecordOperation(ctx, "public_get_post", err)
	p.write(w, r, key, "load post", post, err)
}

// Categories lists all categories with their post counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.CategoryListKey()

	if p.serveCached(w, r, "categories", key) {
		return
	}

	cats, err := p.svc.Categories.List(ctx)
	p.metrics.RecordOperation(ctx, "public_list_categories", err)
	p.write(w, r, key, "load categories", cats, err)
}

// serveCached writes a cached body and reports whether it did.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, family, key string) bool {
	cached, ok := p.pageCache.Get(r.Context(), family, key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.Write(cached)
	return true
}

// write encodes the envelope and caches it when the call succeeded.
func (p *Public) write(w http.ResponseWriter, r *http.Request, key, op string, v any, err error) {
	if err != nil {
		respond(w, op, v, err, http.StatusOK)
		return
	}

	body, mErr := json.Marshal(content.OK(v))
	if mErr != nil {
		slog.Error("encode public response failed", "key", key, "error", mErr)
		writeFail(w, http.StatusInternalServerError, "Failed to "+op+". Please try again later.")
		return
	}
	body = append(body, '\n')
	p.pageCache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}
