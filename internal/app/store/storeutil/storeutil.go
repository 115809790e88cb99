// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// List window bounds shared by list endpoints.
const (
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// ErrNotFound is returned by stores when no owner-scoped document matches.
var ErrNotFound = errors.New("not found")

// Window returns *options.FindOptions for an offset window, newest first.
// Callers validate skip and limit; out-of-range values are clamped here.
func Window(skip, limit int64) *options.FindOptions {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
}

// NotFound maps mongo.ErrNoDocuments to ErrNotFound and passes other errors through.
func NotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Owned returns a filter matching id within the owner's documents.
func Owned(userID string, id any) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}
