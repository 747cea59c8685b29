package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Admin represents an administrative user who can manage posts and contact
// submissions through the admin API. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           string     `json:"id" bson:"_id"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"` // bcrypt hash, never expose
	Name         string     `json:"name" bson:"name"`
	Active       bool       `json:"-" bson:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// NewAdmin builds an Admin from raw registration input. The email is
// normalized to lowercase and the password is bcrypt-hashed; the raw
// password is not retained.
func NewAdmin(email, name, password string) (*Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Admin{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// VerifyPassword compares a candidate password against the stored hash.
// bcrypt performs a constant-time comparison internally.
func (a *Admin) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
