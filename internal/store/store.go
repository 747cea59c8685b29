// Package store persists admins, posts, and contact submissions. The
// production implementation is backed by MongoDB; an in-memory implementation
// with the same semantics backs the test suites.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrotech/siteapi/internal/model"
)

const connectTimeout = 10 * time.Second

// Store is the persistence contract consumed by the handlers, the auth gate,
// and the CLI. Uniqueness of admin emails and post slugs is enforced at this
// layer: concurrent duplicate inserts yield exactly one success and one
// ErrConflict.
type Store interface {
	// Admins
	FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindAdminByID(ctx context.Context, id string) (*model.Admin, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	TouchAdminLogin(ctx context.Context, id string) error
	ListAdmins(ctx context.Context) ([]model.Admin, error)

	// Posts
	CreatePost(ctx context.Context, post *model.Post) error
	ListPosts(ctx context.Context, publishedOnly bool, limit int64) ([]model.Post, error)
	FindPostByID(ctx context.Context, id string) (*model.Post, error)
	FindPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	ViewPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error

	// Contacts
	CreateContact(ctx context.Context, contact *model.Contact) error
	ListContacts(ctx context.Context, limit int64) ([]model.Contact, error)
	FindContactByID(ctx context.Context, id string) (*model.Contact, error)
	UpdateContact(ctx context.Context, contact *model.Contact) error
	DeleteContact(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var _ Store = (*Mongo)(nil)

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	client   *mongo.Client
	admins   *mongo.Collection
	posts    *mongo.Collection
	contacts *mongo.Collection
}

// Open connects to MongoDB, verifies the connection with a ping, and ensures
// the unique indexes the uniqueness invariants depend on.
func Open(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:   client,
		admins:   db.Collection("admins"),
		posts:    db.Collection("posts"),
		contacts: db.Collection("contacts"),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.admins.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("admins email index: %w", err)
	}

	_, err = m.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("posts slug index: %w", err)
	}

	_, err = m.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("posts listing index: %w", err)
	}

	_, err = m.contacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("contacts listing index: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects from the database.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
