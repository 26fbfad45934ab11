package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusdesk/internal/model"
)

// AccountStore is the polymorphic lookup surface shared by the user and admin
// stores, so callers that only care about "an account with this email" do not
// need to know about two concrete types. UpdatePhoto returns
// mongo.ErrNoDocuments when no account matches.
type AccountStore interface {
	UpdatePhoto(ctx context.Context, email, photo string) error
}

// UserRepository defines student persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, email, hash string) error
	UpdatePhoto(ctx context.Context, email, photo string) error
	DeleteByRole(ctx context.Context, role string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository builds a mongo-backed repository over the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection("users")}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) UpdatePhoto(ctx context.Context, email, photo string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"photo": photo, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) DeleteByRole(ctx context.Context, role string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"role": role})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique email index. Registration does a
// check-then-insert; the index closes the race between concurrent registrations.
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
