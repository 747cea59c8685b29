package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

// ContactHandler implements the contact-form endpoints. Submission is
// public; everything else sits behind the auth gate.
type ContactHandler struct {
	store  store.Store
	mailer *service.Mailer
	logger *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(s store.Store, mailer *service.Mailer, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{store: s, mailer: mailer, logger: logger}
}

type submitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit records a contact-form submission and notifies the admin by email.
// The notification is fire-and-forget: a mail failure is logged but never
// fails the submission.
// POST /api/contacts
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitContactRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, email, and message are required")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and message are required")
		return
	}

	contact := model.NewContact(req.Name, req.Email, req.Message, r.RemoteAddr)
	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		h.logger.Error("failed to save contact", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	go func(c model.Contact) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.mailer.SendContactNotification(ctx, &c); err != nil {
			h.logger.Error("contact notification failed", "contact", c.ID, "error", err)
		}
	}(*contact)

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Contact form submitted successfully",
		"id":      contact.ID,
	})
}

// List returns contact submissions, newest first. `?limit=N` caps the result.
// GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.ListContacts(r.Context(), queryLimit(r))
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Get returns a single contact submission and marks it read on first access.
// GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.store.FindContactByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.logger.Error("failed to fetch contact", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !contact.IsRead {
		contact.IsRead = true
		if err := h.store.UpdateContact(r.Context(), contact); err != nil {
			h.logger.Warn("failed to mark contact read", "id", id, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, contact)
}

type updateContactRequest struct {
	IsRead *bool `json:"is_read"`
}

// Update changes a submission's read flag.
// PUT /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateContactRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := h.store.FindContactByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.logger.Error("failed to fetch contact", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if req.IsRead != nil {
		contact.IsRead = *req.IsRead
	}
	if err := h.store.UpdateContact(r.Context(), contact); err != nil {
		h.logger.Error("failed to update contact", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Delete removes a contact submission.
// DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteContact(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Contact not found")
			return
		}
		h.logger.Error("failed to delete contact", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}
