package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint status values. The enum is flat: any status may move to any other.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusResolved   = "Resolved"
	StatusRejected   = "Rejected"
)

// ValidStatus reports whether s is one of the allowed complaint statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Attachment is a file submitted with a complaint. Bytes live on disk; Path is
// the location the file is served from.
type Attachment struct {
	Filename    string `json:"filename" bson:"filename"`
	ContentType string `json:"contentType" bson:"contentType"`
	Path        string `json:"path" bson:"path"`
}

// Complaint represents a student complaint. StudentID holds the raw student
// identifier value, not a reference into the users collection.
type Complaint struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentID     string             `json:"studentId" bson:"studentId"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	Type          string             `json:"type" bson:"type"`
	Department    string             `json:"department" bson:"department"`
	Date          time.Time          `json:"date" bson:"date"`
	ComplaintText string             `json:"complaintText" bson:"complaintText"`
	Status        string             `json:"status" bson:"status"`
	Attachments   []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updatedAt"`
}
