package store

import (
	"context"
	"errors"

	"github.com/petrotech/siteapi/internal/model"
)

// EnsureAdmin creates the bootstrap admin if no admin with the given email
// exists. It is idempotent: subsequent calls (and concurrent first runs) find
// the existing record and leave it untouched. Returns the admin and whether
// it was created by this call.
func EnsureAdmin(ctx context.Context, s Store, email, name, password string) (*model.Admin, bool, error) {
	email = model.NormalizeEmail(email)

	admin, err := s.FindAdminByEmail(ctx, email)
	if err == nil {
		return admin, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	admin, err = model.NewAdmin(email, name, password)
	if err != nil {
		return nil, false, err
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with a concurrent seed; the winner's record stands.
			admin, err = s.FindAdminByEmail(ctx, email)
			return admin, false, err
		}
		return nil, false, err
	}
	return admin, true, nil
}
