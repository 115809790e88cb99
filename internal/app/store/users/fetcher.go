// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users  *mongo.Collection
	logger *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users:  db.Collection("users"),
		logger: logger,
	}
}

// FetchActive retrieves a user by email and returns nil if the user is not
// found, inactive, or if any error occurs.
func (f *Fetcher) FetchActive(ctx context.Context, email string) *auth.User {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"email":     1,
		"full_name": 1,
		"is_active": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"email": normalize.Email(email)}, proj).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.logger.Error("user fetch failed", zap.String("user_id", email), zap.Error(err))
		}
		return nil
	}
	if !u.IsActive {
		return nil
	}

	return &auth.User{
		ID:       u.ID.Hex(),
		Email:    u.Email,
		FullName: u.FullName,
	}
}
