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

// CreateContact inserts a new contact submission.
func (m *Mongo) CreateContact(ctx context.Context, contact *model.Contact) error {
	_, err := m.contacts.InsertOne(ctx, contact)
	return err
}

// ListContacts returns contact submissions newest first. A limit of zero
// means no limit.
func (m *Mongo) ListContacts(ctx context.Context, limit int64) ([]model.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := m.contacts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	contacts := []model.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindContactByID looks up a contact submission by its document ID.
func (m *Mongo) FindContactByID(ctx context.Context, id string) (*model.Contact, error) {
	var contact model.Contact
	err := m.contacts.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact replaces the stored contact and refreshes its UpdatedAt.
// Returns ErrNotFound for an unknown ID.
func (m *Mongo) UpdateContact(ctx context.Context, contact *model.Contact) error {
	contact.UpdatedAt = time.Now().UTC()
	res, err := m.contacts.ReplaceOne(ctx, bson.M{"_id": contact.ID}, contact)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact submission. Returns ErrNotFound for an
// unknown ID.
func (m *Mongo) DeleteContact(ctx context.Context, id string) error {
	res, err := m.contacts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
