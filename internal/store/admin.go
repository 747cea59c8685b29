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

// FindAdminByEmail looks up an admin by normalized email. Callers lowercase
// the email before querying.
func (m *Mongo) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := m.admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindAdminByID looks up an admin by its document ID.
func (m *Mongo) FindAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	var admin model.Admin
	err := m.admins.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin inserts a new admin. Returns ErrConflict if an admin with the
// same email already exists; the unique index makes the check atomic under
// concurrent registration.
func (m *Mongo) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	_, err := m.admins.InsertOne(ctx, admin)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

// TouchAdminLogin records a successful login. Callers treat failures as
// best-effort.
func (m *Mongo) TouchAdminLogin(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := m.admins.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"last_login_at": now, "updated_at": now},
	})
	return err
}

// ListAdmins returns all admins, newest first. Used by the CLI.
func (m *Mongo) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	cur, err := m.admins.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var admins []model.Admin
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
