package store

import (
	"context"

	"wardwatch-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence façade for accounts.
type UserStore interface {
	// Create persists a new user, returning ErrDuplicateEmail when the email
	// is already registered.
	Create(ctx context.Context, u models.User) (models.User, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// CountAdmins counts admin accounts. Used by the startup seeder's
	// existence check.
	CountAdmins(ctx context.Context) (int64, error)
}
