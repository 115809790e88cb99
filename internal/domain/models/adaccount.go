package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ad account connection states.
const (
	AdAccountConnected    = "connected"
	AdAccountDisconnected = "disconnected"
	AdAccountError        = "error"
	AdAccountPending      = "pending"
)

// AllAdAccountStatuses returns every valid ad account status.
func AllAdAccountStatuses() []string {
	return []string{AdAccountConnected, AdAccountDisconnected, AdAccountError, AdAccountPending}
}

// IsValidAdAccountStatus reports whether s is a valid ad account status.
func IsValidAdAccountStatus(s string) bool {
	return contains(AllAdAccountStatuses(), s)
}

// AdAccount is an advertising account on an external platform linked by a user.
// (UserID, Platform, AccountID) is unique.
type AdAccount struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Platform    string             `bson:"platform" json:"platform"`
	AccountID   string             `bson:"account_id" json:"account_id"`
	AccountName string             `bson:"account_name" json:"account_name"`
	Currency    string             `bson:"currency" json:"currency"`

	// Platform credentials are stored but never returned to clients.
	AccessToken  string  `bson:"access_token" json:"-"`
	RefreshToken *string `bson:"refresh_token,omitempty" json:"-"`

	Status      string          `bson:"status" json:"status"`
	Permissions map[string]bool `bson:"permissions,omitempty" json:"permissions"`
	ConnectedAt time.Time       `bson:"connected_at" json:"connected_at"`
	LastSync    *time.Time      `bson:"last_sync" json:"last_sync"`
	Metadata    map[string]any  `bson:"metadata,omitempty" json:"-"`
}

// DefaultPermissions returns the permission set granted to a newly linked account.
func DefaultPermissions() map[string]bool {
	return map[string]bool{
		"ads_management":        true,
		"ads_read":              true,
		"pages_read_engagement": false,
	}
}
