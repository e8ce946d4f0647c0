package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

// AccountRepository is the storage contract for accounts. Implementations
// must enforce email uniqueness atomically with the write and assign the
// CreatedAt/UpdatedAt timestamps themselves.
type AccountRepository interface {
	// Create persists a new account. The user's Password field must already
	// hold the hash; implementations never see plaintext. Fails with
	// ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail looks up an account by its lowercase email.
	// Fails with ErrNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID fails with ErrNotFound when no account matches.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// Update applies a partial $set patch and returns the updated account.
	// Fields absent from the patch are left untouched. Fails with ErrNotFound.
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error)

	// List returns accounts matching the filter, sorted by creation time.
	List(ctx context.Context, filter bson.M) ([]models.User, error)
}
