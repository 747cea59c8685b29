package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewAdminHashesPassword(t *testing.T) {
	admin, err := NewAdmin("Admin@Example.COM", "  System Administrator ", "admin123")
	if err != nil {
		t.Fatalf("NewAdmin: %v", err)
	}

	if admin.ID == "" {
		t.Error("expected non-empty ID")
	}
	if admin.Email != "admin@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", admin.Email)
	}
	if admin.Name != "System Administrator" {
		t.Errorf("Name = %q, want trimmed", admin.Name)
	}
	if !admin.Active {
		t.Error("expected new admin to be active")
	}
	if admin.PasswordHash == "admin123" || admin.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}
	if !strings.HasPrefix(admin.PasswordHash, "$2") {
		t.Errorf("PasswordHash = %q, want bcrypt format", admin.PasswordHash)
	}

	if !admin.VerifyPassword("admin123") {
		t.Error("VerifyPassword rejected the correct password")
	}
	if admin.VerifyPassword("wrong-password") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestAdminJSONOmitsPasswordHash(t *testing.T) {
	admin, err := NewAdmin("admin@example.com", "Admin", "secret")
	if err != nil {
		t.Fatalf("NewAdmin: %v", err)
	}

	b, err := json.Marshal(admin)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := m["password_hash"]; ok {
		t.Error("password_hash must never be serialized")
	}
	if strings.Contains(string(b), admin.PasswordHash) {
		t.Error("serialized admin leaks the password hash")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Admin@Example.com", "admin@example.com"},
		{"  a@x.com  ", "a@x.com"},
		{"already@lower.io", "already@lower.io"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewPostDefaults(t *testing.T) {
	post := NewPost("  Title  ", " My-Slug ", " desc ", "content", "")

	if post.Title != "Title" {
		t.Errorf("Title = %q, want trimmed", post.Title)
	}
	if post.Slug != "my-slug" {
		t.Errorf("Slug = %q, want lowercase trimmed", post.Slug)
	}
	if post.Description != "desc" {
		t.Errorf("Description = %q, want trimmed", post.Description)
	}
	if !post.Published {
		t.Error("expected new posts to default to published")
	}
	if post.Views != 0 {
		t.Errorf("Views = %d, want 0", post.Views)
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewContactNormalizes(t *testing.T) {
	c := NewContact("  Jane  ", " Jane@Example.com ", "  hello  ", "203.0.113.9")

	if c.Name != "Jane" {
		t.Errorf("Name = %q, want trimmed", c.Name)
	}
	if c.Email != "jane@example.com" {
		t.Errorf("Email = %q, want normalized", c.Email)
	}
	if c.Message != "hello" {
		t.Errorf("Message = %q, want trimmed", c.Message)
	}
	if c.IsRead {
		t.Error("expected new contact to be unread")
	}
}
