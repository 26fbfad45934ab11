package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin represents a department administrator account. Department acts as the
// partition key for login and complaint routing.
type Admin struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"` // always a bcrypt hash
	Department  string             `json:"department" bson:"department"`
	Photo       string             `json:"photo,omitempty" bson:"photo,omitempty"`
	ResetCode   string             `json:"-" bson:"resetCode,omitempty"`
	ResetExpiry *time.Time         `json:"-" bson:"resetExpiry,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}
