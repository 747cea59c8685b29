package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a contact-form submission. Submissions are created by anonymous
// visitors and managed through the admin endpoints.
type Contact struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	IPAddress string    `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	IsRead    bool      `json:"is_read" bson:"is_read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewContact builds a Contact from raw form input: name and message are
// trimmed, the email is normalized to lowercase.
func NewContact(name, email, message, ipAddress string) *Contact {
	now := time.Now().UTC()
	return &Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Message:   strings.TrimSpace(message),
		IPAddress: ipAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
