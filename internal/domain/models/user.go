// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: on owned records, the owner's email address
//   - ID / _id: the MongoDB ObjectID of the user document itself

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account holder.
//
// Email is the natural key: campaigns and ad accounts reference their owner
// by email (user_id), so it is stored lowercase and never changes after
// registration.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	FullName    string             `bson:"full_name" json:"full_name"`
	FullNameCI  string             `bson:"full_name_ci" json:"-"` // folded for search
	PhoneNumber *string            `bson:"phone_number,omitempty" json:"phone_number"`
	Company     *string            `bson:"company,omitempty" json:"company"`

	HashedPassword string `bson:"hashed_password" json:"-"` // bcrypt hash (never in JSON)

	IsActive   bool     `bson:"is_active" json:"is_active"`
	AdAccounts []string `bson:"ad_accounts" json:"ad_accounts"` // hex ids of linked ad accounts

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Token is the body returned by register and login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewBearerToken wraps a signed token string.
func NewBearerToken(s string) Token {
	return Token{AccessToken: s, TokenType: "bearer"}
}
