package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campusdesk/internal/model"
)

// ComplaintRepository defines complaint persistence operations.
type ComplaintRepository interface {
	Insert(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Complaint, error)
	List(ctx context.Context, department string) ([]model.Complaint, error)
	SearchByType(ctx context.Context, pattern string) ([]model.Complaint, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type complaintRepository struct {
	col *mongo.Collection
}

// NewComplaintRepository builds a mongo-backed repository over the complaints collection.
func NewComplaintRepository(db *mongo.Database) ComplaintRepository {
	return &complaintRepository{col: db.Collection("complaints")}
}

func (r *complaintRepository) Insert(ctx context.Context, complaint *model.Complaint) error {
	now := time.Now()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, complaint)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		complaint.ID = oid
	}
	return nil
}

func (r *complaintRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// List returns all complaints, optionally restricted to an exact department.
func (r *complaintRepository) List(ctx context.Context, department string) ([]model.Complaint, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}
	return r.find(ctx, filter)
}

// SearchByType matches type against a case-insensitive substring pattern.
func (r *complaintRepository) SearchByType(ctx context.Context, pattern string) ([]model.Complaint, error) {
	filter := bson.M{}
	if pattern != "" {
		filter["type"] = primitive.Regex{Pattern: pattern, Options: "i"}
	}
	return r.find(ctx, filter)
}

func (r *complaintRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Complaint, error) {
	return r.find(ctx, bson.M{"studentId": studentID})
}

func (r *complaintRepository) find(ctx context.Context, filter bson.M) ([]model.Complaint, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	complaints := []model.Complaint{}
	if err := cur.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateFields applies the given fields verbatim. Callers strip _id and
// studentId before handing the map over.
func (r *complaintRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
