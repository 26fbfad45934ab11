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

// AdminRepository defines admin persistence operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByEmailAndDepartment(ctx context.Context, email, department string) (*model.Admin, error)
	ListByDepartment(ctx context.Context, department string) ([]model.Admin, error)
	UpdateUsername(ctx context.Context, email, username string) (*model.Admin, error)
	UpdatePhoto(ctx context.Context, email, photo string) error
	SetResetCode(ctx context.Context, email, code string, expiry time.Time) error
	ResetPassword(ctx context.Context, email, hash string) error
	EnsureIndexes(ctx context.Context) error
}

type adminRepository struct {
	col *mongo.Collection
}

// NewAdminRepository builds a mongo-backed repository over the admins collection.
func NewAdminRepository(db *mongo.Database) AdminRepository {
	return &adminRepository{col: db.Collection("admins")}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, admin)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmailAndDepartment does the compound lookup used at admin login: an
// admin belongs to exactly one department for login purposes.
func (r *adminRepository) FindByEmailAndDepartment(ctx context.Context, email, department string) (*model.Admin, error) {
	var admin model.Admin
	filter := bson.M{"email": email, "department": department}
	if err := r.col.FindOne(ctx, filter).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) ListByDepartment(ctx context.Context, department string) ([]model.Admin, error) {
	cur, err := r.col.Find(ctx, bson.M{"department": department})
	if err != nil {
		return nil, err
	}
	var admins []model.Admin
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) UpdateUsername(ctx context.Context, email, username string) (*model.Admin, error) {
	var admin model.Admin
	after := options.After
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"username": username, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) UpdatePhoto(ctx context.Context, email, photo string) error {
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

func (r *adminRepository) SetResetCode(ctx context.Context, email, code string, expiry time.Time) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"resetCode": code, "resetExpiry": expiry, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ResetPassword stores the new hash and clears the reset fields in one update.
func (r *adminRepository) ResetPassword(ctx context.Context, email, hash string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set":   bson.M{"password": hash, "updatedAt": time.Now()},
		"$unset": bson.M{"resetCode": "", "resetExpiry": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureIndexes creates the unique email index. Uniqueness is by email alone,
// not (email, department), even though login matches on the pair.
func (r *adminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
