package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petrotech/siteapi/internal/model"
)

// Memory is an in-memory Store with the same semantics as the MongoDB
// implementation, including the uniqueness guarantees. It backs the test
// suites; all methods are safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	admins   map[string]model.Admin
	posts    map[string]model.Post
	contacts map[string]model.Contact
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		admins:   make(map[string]model.Admin),
		posts:    make(map[string]model.Post),
		contacts: make(map[string]model.Contact),
	}
}

// ---------------------------------------------------------------------------
// Admins
// ---------------------------------------------------------------------------

func (m *Memory) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			admin := a
			return &admin, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.admins[id]; ok {
		admin := a
		return &admin, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == admin.Email {
			return ErrConflict
		}
	}
	m.admins[admin.ID] = *admin
	return nil
}

func (m *Memory) TouchAdminLogin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	a.LastLoginAt = &now
	a.UpdatedAt = now
	m.admins[id] = a
	return nil
}

func (m *Memory) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admins := make([]model.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		admins = append(admins, a)
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.After(admins[j].CreatedAt)
	})
	return admins, nil
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

func (m *Memory) CreatePost(ctx context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return ErrConflict
		}
	}
	m.posts[post.ID] = *post
	return nil
}

func (m *Memory) ListPosts(ctx context.Context, publishedOnly bool, limit int64) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := []model.Post{}
	for _, p := range m.posts {
		if publishedOnly && !p.Published {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *Memory) FindPostByID(ctx context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		post := p
		return &post, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) FindPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ViewPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.posts {
		if p.Slug == slug && p.Published {
			p.Views++
			m.posts[id] = p
			post := p
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdatePost(ctx context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return ErrNotFound
	}
	for id, p := range m.posts {
		if id != post.ID && p.Slug == post.Slug {
			return ErrConflict
		}
	}
	post.UpdatedAt = time.Now().UTC()
	m.posts[post.ID] = *post
	return nil
}

func (m *Memory) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

func (m *Memory) CreateContact(ctx context.Context, contact *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[contact.ID] = *contact
	return nil
}

func (m *Memory) ListContacts(ctx context.Context, limit int64) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contacts := make([]model.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		contacts = append(contacts, c)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	if limit > 0 && int64(len(contacts)) > limit {
		contacts = contacts[:limit]
	}
	return contacts, nil
}

func (m *Memory) FindContactByID(ctx context.Context, id string) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.contacts[id]; ok {
		contact := c
		return &contact, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateContact(ctx context.Context, contact *model.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[contact.ID]; !ok {
		return ErrNotFound
	}
	contact.UpdatedAt = time.Now().UTC()
	m.contacts[contact.ID] = *contact
	return nil
}

func (m *Memory) DeleteContact(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

// ---------------------------------------------------------------------------

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close(ctx context.Context) error { return nil }
