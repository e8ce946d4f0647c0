package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

// MongoAccountRepository stores accounts in the "users" collection.
type MongoAccountRepository struct {
	col *mongo.Collection
}

var _ AccountRepository = (*MongoAccountRepository)(nil)

func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. The index makes the
// duplicate-email check and the insert a single atomic step, so two
// concurrent registrations with the same email cannot both succeed.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoAccountRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return mapErr(err)
	}
	return nil
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *MongoAccountRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range patch {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *MongoAccountRepository) List(ctx context.Context, filter bson.M) ([]models.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, mapErr(err)
	}
	return users, nil
}

// mapErr turns a blown deadline into ErrTimeout so callers can tell a slow
// store apart from bad credentials.
func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return ErrTimeout
	}
	return err
}
