package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/petrotech/siteapi/internal/model"
)

func TestRenderContactNotification(t *testing.T) {
	contact := model.NewContact("Jane Doe", "jane@example.com", "I need a quote.", "203.0.113.9")

	body, err := RenderContactNotification(contact)
	if err != nil {
		t.Fatalf("RenderContactNotification: %v", err)
	}

	for _, want := range []string{"Jane Doe", "jane@example.com", "I need a quote.", "New Contact Form Submission"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRenderContactNotificationEscapesHTML(t *testing.T) {
	contact := model.NewContact("Eve", "eve@example.com", `<script>alert("x")</script>`, "")

	body, err := RenderContactNotification(contact)
	if err != nil {
		t.Fatalf("RenderContactNotification: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("message content must be HTML-escaped")
	}
}

func TestDisabledMailerIsNoOp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewMailer(MailerConfig{Host: "smtp.example.com", Port: 587}, logger)
	if err != nil {
		t.Fatalf("NewMailer: %v", err)
	}

	if m.Enabled() {
		t.Error("mailer without credentials should be disabled")
	}
	contact := model.NewContact("Jane", "jane@example.com", "hello", "")
	if err := m.SendContactNotification(context.Background(), contact); err != nil {
		t.Errorf("disabled Send = %v, want nil", err)
	}
}
