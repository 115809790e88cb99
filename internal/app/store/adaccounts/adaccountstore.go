// internal/app/store/adaccounts/adaccountstore.go
package adaccountstore

import (
	"context"
	"errors"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateAccount is returned when the owner already linked the same
// external account on the same platform.
var ErrDuplicateAccount = errors.New("ad account already connected")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ad_accounts")}
}

// List returns every ad account owned by userID, oldest first.
func (s *Store) List(ctx context.Context, userID string) ([]models.AdAccount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "connected_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AdAccount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether userID already linked accountID on platform.
func (s *Store) Exists(ctx context.Context, userID, platform, accountID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"platform":   platform,
		"account_id": accountID,
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a newly linked account. Status is set to connected,
// connected_at to now and last_sync is cleared.
func (s *Store) Create(ctx context.Context, a models.AdAccount) (models.AdAccount, error) {
	a.ID = primitive.NewObjectID()
	a.Status = models.AdAccountConnected
	a.ConnectedAt = time.Now().UTC()
	a.LastSync = nil
	if a.Currency == "" {
		a.Currency = "USD"
	}
	if a.Permissions == nil {
		a.Permissions = models.DefaultPermissions()
	}
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AdAccount{}, ErrDuplicateAccount
		}
		return models.AdAccount{}, err
	}
	return a, nil
}

// Get loads one account scoped to its owner.
func (s *Store) Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.AdAccount, error) {
	var a models.AdAccount
	if err := s.c.FindOne(ctx, storeutil.Owned(userID, id)).Decode(&a); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &a, nil
}

// Update applies the supplied fields and returns the updated account.
// An empty mask is a read.
func (s *Store) Update(ctx context.Context, userID string, id primitive.ObjectID, m *patch.Mask) (*models.AdAccount, error) {
	if m.Empty() {
		return s.Get(ctx, userID, id)
	}
	var a models.AdAccount
	err := s.c.FindOneAndUpdate(ctx,
		storeutil.Owned(userID, id),
		bson.M{"$set": m.SetDoc()},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &a, nil
}

// Delete removes one account scoped to its owner.
func (s *Store) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, storeutil.Owned(userID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}
