package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered student account.
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"` // stored trimmed and lower-cased
	Password   string             `json:"-" bson:"password"`  // bcrypt hash; legacy records may hold plain text until first login
	Role       string             `json:"role,omitempty" bson:"role"`
	StudentID  string             `json:"studentId" bson:"studentId"`
	Department string             `json:"department" bson:"department"`
	Photo      string             `json:"photo,omitempty" bson:"photo,omitempty"` // base64 image
	CreatedAt  time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updatedAt"`
}
