package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petrotech/siteapi/internal/model"
)

func newAdmin(t *testing.T, email string) *model.Admin {
	t.Helper()
	admin, err := model.NewAdmin(email, "Test Admin", "admin123")
	if err != nil {
		t.Fatalf("NewAdmin: %v", err)
	}
	return admin
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := s.CreateAdmin(ctx, newAdmin(t, "a@x.com")); err != nil {
		t.Fatalf("first CreateAdmin: %v", err)
	}
	err := s.CreateAdmin(ctx, newAdmin(t, "a@x.com"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second CreateAdmin = %v, want ErrConflict", err)
	}
}

func TestCreateAdminConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateAdmin(ctx, newAdmin(t, "race@x.com"))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful inserts = %d, want exactly 1", ok)
	}
	if conflicts != workers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, workers-1)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	first, created, err := EnsureAdmin(ctx, s, "Admin@Example.com", "System Administrator", "admin123")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if !created {
		t.Error("expected first EnsureAdmin to create the admin")
	}
	if first.Email != "admin@example.com" {
		t.Errorf("Email = %q, want normalized", first.Email)
	}

	second, created, err := EnsureAdmin(ctx, s, "admin@example.com", "Someone Else", "different")
	if err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if created {
		t.Error("expected second EnsureAdmin to be a no-op")
	}
	if second.ID != first.ID {
		t.Errorf("second EnsureAdmin returned a different admin: %q vs %q", second.ID, first.ID)
	}
	if !second.VerifyPassword("admin123") {
		t.Error("seed overwrote the existing admin's password")
	}
}

func TestTouchAdminLogin(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	admin := newAdmin(t, "a@x.com")
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	if err := s.TouchAdminLogin(ctx, admin.ID); err != nil {
		t.Fatalf("TouchAdminLogin: %v", err)
	}
	got, err := s.FindAdminByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("FindAdminByID: %v", err)
	}
	if got.LastLoginAt == nil {
		t.Fatal("expected LastLoginAt to be set")
	}
	if time.Since(*got.LastLoginAt) > time.Minute {
		t.Errorf("LastLoginAt = %v, want recent", got.LastLoginAt)
	}
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := s.CreatePost(ctx, model.NewPost("First", "shared-slug", "d", "c", "")); err != nil {
		t.Fatalf("first CreatePost: %v", err)
	}
	err := s.CreatePost(ctx, model.NewPost("Second", "shared-slug", "d", "c", ""))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second CreatePost = %v, want ErrConflict", err)
	}
}

func TestViewPostBySlugIncrementsViews(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	post := model.NewPost("Post", "my-post", "d", "c", "")
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		got, err := s.ViewPostBySlug(ctx, "my-post")
		if err != nil {
			t.Fatalf("ViewPostBySlug: %v", err)
		}
		if got.Views != i {
			t.Errorf("Views = %d, want %d", got.Views, i)
		}
	}
}

func TestViewPostBySlugSkipsDrafts(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	post := model.NewPost("Draft", "draft-post", "d", "c", "")
	post.Published = false
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	_, err := s.ViewPostBySlug(ctx, "draft-post")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ViewPostBySlug on draft = %v, want ErrNotFound", err)
	}
}

func TestListPostsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	base := time.Now().UTC()
	for i, slug := range []string{"oldest", "middle", "newest"} {
		p := model.NewPost(slug, slug, "d", "c", "")
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost(%s): %v", slug, err)
		}
	}
	draft := model.NewPost("draft", "a-draft", "d", "c", "")
	draft.Published = false
	draft.CreatedAt = base.Add(time.Hour)
	if err := s.CreatePost(ctx, draft); err != nil {
		t.Fatalf("CreatePost(draft): %v", err)
	}

	posts, err := s.ListPosts(ctx, true, 2)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Slug != "newest" || posts[1].Slug != "middle" {
		t.Errorf("order = [%s %s], want newest first", posts[0].Slug, posts[1].Slug)
	}

	all, err := s.ListPosts(ctx, false, 0)
	if err != nil {
		t.Fatalf("ListPosts(all): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("len(all) = %d, want 4 including the draft", len(all))
	}
}

func TestUpdatePostSlugConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	first := model.NewPost("First", "first", "d", "c", "")
	second := model.NewPost("Second", "second", "d", "c", "")
	for _, p := range []*model.Post{first, second} {
		if err := s.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	second.Slug = "first"
	err := s.UpdatePost(ctx, second)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("UpdatePost = %v, want ErrConflict", err)
	}

	second.Slug = "renamed"
	if err := s.UpdatePost(ctx, second); err != nil {
		t.Fatalf("UpdatePost with free slug: %v", err)
	}
}

func TestContactLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	c := model.NewContact("Jane", "jane@example.com", "hello", "203.0.113.9")
	if err := s.CreateContact(ctx, c); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	got, err := s.FindContactByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindContactByID: %v", err)
	}
	if got.IsRead {
		t.Error("expected new contact to be unread")
	}

	got.IsRead = true
	if err := s.UpdateContact(ctx, got); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	again, err := s.FindContactByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindContactByID: %v", err)
	}
	if !again.IsRead {
		t.Error("expected contact to be marked read")
	}

	if err := s.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if _, err := s.FindContactByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindContactByID after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteContact(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteContact = %v, want ErrNotFound", err)
	}
}
