package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

type seedCategory struct {
	name        string
	description string
}

type seedPost struct {
	title, content, excerpt, category string
	tags                              []string
	status                            models.PostStatus
	publishDate                       string
	createdAt, updatedAt              string
	author                            string
}

var demoCategories = []seedCategory{
	{"Design", "Articles about design principles and aesthetics"},
	{"Lifestyle", "Content related to balanced living and personal growth"},
	{"Architecture", "Exploring architectural concepts and innovations"},
	{"Technology", "Articles about tech trends and digital tools"},
	{"Psychology", "Understanding human behavior and mental processes"},
	{"Travel", "Destinations and travel experiences"},
}

var demoPosts = []seedPost{
	{
		title:       "The Art of Minimalism in Modern Design",
		content:     "<h2>Introduction to Minimalism</h2>\n<p>Minimalism is more than an aesthetic. In design it translates to clean lines, ample white space, and a focus on function.</p>",
		excerpt:     "Explore how minimalism has shaped contemporary design aesthetics and why less continues to be more in today's visual landscape.",
		category:    "Design",
		tags:        []string{"minimalism", "design", "aesthetics"},
		status:      models.PostStatusPublished,
		publishDate: "2025-05-15T12:00:00Z",
		createdAt:   "2025-05-10T10:30:00Z",
		updatedAt:   "2025-05-15T09:45:00Z",
		author:      "Alex Morgan",
	},
	{
		title:       "Finding Balance: Work and Life in 2025",
		content:     "<h2>The Modern Work-Life Challenge</h2>\n<p>In today's hyperconnected world the boundaries between work and personal life have blurred.</p>",
		excerpt:     "Strategies for maintaining harmony between professional ambitions and personal well-being in our increasingly connected world.",
		category:    "Lifestyle",
		tags:        []string{"work-life balance", "productivity", "wellbeing"},
		status:      models.PostStatusPublished,
		publishDate: "2025-05-10T12:00:00Z",
		createdAt:   "2025-05-05T14:20:00Z",
		updatedAt:   "2025-05-10T08:15:00Z",
		author:      "Jamie Chen",
	},
	{
		title:     "The Future of Sustainable Architecture",
		content:   "<h2>Reimagining Buildings for a Sustainable Future</h2>\n<p>New eco-friendly building materials are changing how we think about construction.</p>",
		excerpt:   "How innovative architects are reimagining buildings to reduce environmental impact while creating beautiful spaces.",
		category:  "Architecture",
		tags:      []string{"sustainability", "architecture", "eco-friendly"},
		status:    models.PostStatusDraft,
		createdAt: "2025-05-18T11:40:00Z",
		updatedAt: "2025-05-18T16:30:00Z",
		author:    "Sam Rivera",
	},
	{
		title:       "Digital Minimalism: Reclaiming Attention",
		content:     "<h2>The Attention Economy</h2>\n<p>Our attention has become one of the most valuable commodities in the digital age.</p>",
		excerpt:     "Practical approaches to mindful technology use in an age of constant notifications and digital distractions.",
		category:    "Technology",
		tags:        []string{"digital minimalism", "attention", "technology"},
		status:      models.PostStatusScheduled,
		publishDate: "2025-05-25T12:00:00Z",
		createdAt:   "2025-05-20T09:15:00Z",
		updatedAt:   "2025-05-20T15:45:00Z",
		author:      "Taylor Kim",
	},
}

const demoAvatar = "/placeholder.svg?height=100&width=100"

// Seed fills empty stores with demo categories and posts. It is a no-op
// when either store already holds data.
func Seed(ctx context.Context, svc *Services) error {
	cats, err := svc.Categories.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	posts, err := svc.Posts.posts.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if len(cats) > 0 || len(posts) > 0 {
		slog.Info("content already seeded, skipping")
		return nil
	}

	now := stamp(svc.Categories.now)
	for _, sc := range demoCategories {
		c := &models.Category{
			ID:          uuid.New(),
			Name:        sc.name,
			Slug:        slug.Generate(sc.name),
			Description: sc.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := svc.Categories.categories.Insert(ctx, c); err != nil {
			return fmt.Errorf("seed category %q: %w", sc.name, err)
		}
	}

	for _, sp := range demoPosts {
		p := &models.Post{
			ID:            uuid.New(),
			Title:         sp.title,
			Content:       sp.content,
			Excerpt:       sp.excerpt,
			FeaturedImage: "/placeholder.svg?height=600&width=1200",
			Category:      sp.category,
			Tags:          sp.tags,
			Status:        sp.status,
			CreatedAt:     mustParse(sp.createdAt),
			UpdatedAt:     mustParse(sp.updatedAt),
			Author:        models.Author{Name: sp.author, Avatar: demoAvatar},
		}
		if sp.publishDate != "" {
			p.PublishDate = models.FormatTimestamp(mustParse(sp.publishDate))
		}
		if err := svc.Posts.posts.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed post %q: %w", sp.title, err)
		}
	}

	slog.Info("content seeded with demo data",
		"categories", len(demoCategories),
		"posts", len(demoPosts),
	)
	return nil
}

func mustParse(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
