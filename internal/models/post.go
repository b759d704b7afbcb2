// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records held by the content store and the
// input shapes accepted by the content services.
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

// PostStatuses lists every valid status in display order.
var PostStatuses = []PostStatus{PostStatusPublished, PostStatusDraft, PostStatusScheduled}

// Valid reports whether s is one of the known publishing states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	}
	return false
}

// Author is the denormalized display identity stamped on a post at creation.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Post is a single article with a publication lifecycle. Category references
// a Category by name, not by id.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	PublishDate   string     `json:"publishDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Author        Author     `json:"author"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Clone returns a deep copy so callers never alias stored state.
func (p *Post) Clone() *Post {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	return &c
}

// PostInput carries the fields of the post editor form. Title and Content
// are always required; nil optional fields keep their current value on update
// and take their zero value on create.
type PostInput struct {
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Excerpt       *string     `json:"excerpt,omitempty"`
	FeaturedImage *string     `json:"featuredImage,omitempty"`
	Category      *string     `json:"category,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Status        *PostStatus `json:"status,omitempty"`
	PublishDate   *string     `json:"publishDate,omitempty"`
}

// TimestampLayout is the canonical string form of publish dates:
// UTC with millisecond precision, e.g. "2025-05-15T12:00:00.000Z".
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in the canonical publish date form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
