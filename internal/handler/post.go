package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/store"
)

// PostHandler implements the blog post endpoints. Listing and reading are
// public; create, update, and delete sit behind the auth gate.
type PostHandler struct {
	store  store.Store
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(s store.Store, logger *slog.Logger) *PostHandler {
	return &PostHandler{store: s, logger: logger}
}

// List returns published posts, newest first. `?limit=N` caps the result.
// GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context(), true, queryLimit(r))
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBySlug returns a single published post and counts the view.
// GET /api/posts/{slug}
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := model.NormalizeSlug(chi.URLParam(r, "slug"))

	post, err := h.store.ViewPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Error("failed to fetch post", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image"`
}

// Create adds a new post.
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Title, slug, description, and content are required")
		return
	}
	if req.Title == "" || req.Slug == "" || req.Description == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Title, slug, description, and content are required")
		return
	}
	if len(req.Title) > model.MaxPostTitleLen {
		writeError(w, http.StatusBadRequest, "Title must be at most 200 characters")
		return
	}
	if len(req.Description) > model.MaxPostDescriptionLen {
		writeError(w, http.StatusBadRequest, "Description must be at most 500 characters")
		return
	}

	post := model.NewPost(req.Title, req.Slug, req.Description, req.Content, req.Image)
	if err := h.store.CreatePost(r.Context(), post); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "A post with this slug already exists")
			return
		}
		h.logger.Error("failed to create post", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// updatePostRequest uses pointers so absent fields leave the stored value
// untouched while explicit zero values (image "", published false) apply.
type updatePostRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Image       *string `json:"image"`
	Published   *bool   `json:"published"`
}

// Update applies a partial update to a post.
// PUT /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePostRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.store.FindPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Error("failed to fetch post", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if req.Title != nil && *req.Title != "" {
		if len(*req.Title) > model.MaxPostTitleLen {
			writeError(w, http.StatusBadRequest, "Title must be at most 200 characters")
			return
		}
		post.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		post.Slug = model.NormalizeSlug(*req.Slug)
	}
	if req.Description != nil && *req.Description != "" {
		if len(*req.Description) > model.MaxPostDescriptionLen {
			writeError(w, http.StatusBadRequest, "Description must be at most 500 characters")
			return
		}
		post.Description = *req.Description
	}
	if req.Content != nil && *req.Content != "" {
		post.Content = *req.Content
	}
	if req.Image != nil {
		post.Image = *req.Image
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusBadRequest, "A post with this slug already exists")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		default:
			h.logger.Error("failed to update post", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post.
// DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Error("failed to delete post", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
