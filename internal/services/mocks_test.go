package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/repository"
)

// Compile-time check to ensure MockAccountRepository implements AccountRepository
var _ repository.AccountRepository = (*MockAccountRepository)(nil)

// MockAccountRepository is a func-field mock of the repository contract.
type MockAccountRepository struct {
	CreateFunc      func(ctx context.Context, user *models.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	FindByIDFunc    func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateFunc      func(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error)
	ListFunc        func(ctx context.Context, filter bson.M) ([]models.User, error)
}

func (m *MockAccountRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, errors.New("FindByEmailFunc not implemented in mock")
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *MockAccountRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, errors.New("UpdateFunc not implemented in mock")
}

func (m *MockAccountRepository) List(ctx context.Context, filter bson.M) ([]models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented in mock")
}

var _ repository.AccountRepository = (*memAccountRepository)(nil)

// memAccountRepository is an in-memory stand-in for the Mongo repository,
// with the same uniqueness and partial-update semantics.
type memAccountRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemAccountRepository() *memAccountRepository {
	return &memAccountRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memAccountRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memAccountRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memAccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memAccountRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range patch {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "specialization":
			u.Specialization = v.(string)
		case "password":
			u.Password = v.(string)
		case "role":
			u.Role = v.(models.Role)
		case "verificationStatus":
			u.VerificationStatus = v.(models.VerificationStatus)
		case "isVerified":
			u.IsVerified = v.(bool)
		case "qualifications":
			u.Qualifications = v.([]models.Qualification)
		case "experience":
			u.Experience = v.([]models.Experience)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

func (r *memAccountRepository) List(ctx context.Context, filter bson.M) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if role, ok := filter["role"]; ok && u.Role != role.(models.Role) {
			continue
		}
		if status, ok := filter["verificationStatus"]; ok && u.VerificationStatus != status.(models.VerificationStatus) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}
