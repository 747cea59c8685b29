package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrotech/siteapi/internal/model"
)

// CreatePost inserts a new post. Returns ErrConflict if the slug is taken.
func (m *Mongo) CreatePost(ctx context.Context, post *model.Post) error {
	_, err := m.posts.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

// ListPosts returns posts newest first. When publishedOnly is set, drafts are
// excluded. A limit of zero means no limit.
func (m *Mongo) ListPosts(ctx context.Context, publishedOnly bool, limit int64) ([]model.Post, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := m.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindPostByID looks up a post by its document ID.
func (m *Mongo) FindPostByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := m.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPostBySlug looks up a post by slug regardless of publication state.
func (m *Mongo) FindPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := m.posts.FindOne(ctx, bson.M{"slug": slug}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ViewPostBySlug returns a published post by slug and atomically increments
// its view counter. The returned post reflects the incremented count.
func (m *Mongo) ViewPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := m.posts.FindOneAndUpdate(ctx,
		bson.M{"slug": slug, "published": true},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces the stored post with the given one and refreshes its
// UpdatedAt. Returns ErrNotFound for an unknown ID and ErrConflict when the
// new slug collides with another post.
func (m *Mongo) UpdatePost(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := m.posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post. Returns ErrNotFound for an unknown ID.
func (m *Mongo) DeletePost(ctx context.Context, id string) error {
	res, err := m.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
