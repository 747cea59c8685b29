package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field length limits enforced at creation and update time.
const (
	MaxPostTitleLen       = 200
	MaxPostDescriptionLen = 500
)

// Post is a blog post. Posts are public when Published is true; drafts are
// only visible through the admin endpoints.
type Post struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description"`
	Content     string    `json:"content" bson:"content"`
	Image       string    `json:"image" bson:"image"`
	Published   bool      `json:"published" bson:"published"`
	Views       int64     `json:"views" bson:"views"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// NewPost builds a Post from raw input, applying the same normalization the
// storage schema promises: trimmed title and description, lowercase trimmed
// slug. New posts are published by default.
func NewPost(title, slug, description, content, image string) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Slug:        NormalizeSlug(slug),
		Description: strings.TrimSpace(description),
		Content:     content,
		Image:       image,
		Published:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NormalizeSlug lowercases and trims a slug so lookups and the uniqueness
// constraint are case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
