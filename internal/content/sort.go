// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"slices"
	"strings"
	"time"

	"inkwell/internal/models"
)

// Sortable post fields.
const (
	SortByTitle = "title"
	SortByDate  = "date"
)

// SortSpec describes a post table ordering. The zero value keeps store
// order.
type SortSpec struct {
	Field string
	Desc  bool
}

// ParseSortSpec builds a SortSpec from query parameters. Unknown fields
// yield the zero value.
func ParseSortSpec(field, dir string) SortSpec {
	switch field {
	case SortByTitle, SortByDate:
		return SortSpec{Field: field, Desc: strings.EqualFold(dir, "desc")}
	}
	return SortSpec{}
}

// Toggle returns the ordering after the user picks field: the same field
// flips direction, a new field starts ascending.
func (s SortSpec) Toggle(field string) SortSpec {
	if s.Field == field {
		return SortSpec{Field: field, Desc: !s.Desc}
	}
	return SortSpec{Field: field}
}

// Sort orders posts in place. The sort is stable so ties keep store order.
func (s SortSpec) Sort(posts []models.Post) {
	var cmp func(a, b models.Post) int
	switch s.Field {
	case SortByTitle:
		cmp = func(a, b models.Post) int { return strings.Compare(a.Title, b.Title) }
	case SortByDate:
		cmp = func(a, b models.Post) int { return sortDate(a).Compare(sortDate(b)) }
	default:
		return
	}
	if s.Desc {
		asc := cmp
		cmp = func(a, b models.Post) int { return asc(b, a) }
	}
	slices.SortStableFunc(posts, cmp)
}

// sortDate is the publish date, or the creation time for undated posts.
func sortDate(p models.Post) time.Time {
	if p.PublishDate != "" {
		if t, err := time.Parse(time.RFC3339, p.PublishDate); err == nil {
			return t
		}
	}
	return p.CreatedAt
}
