// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - email: the natural key; campaigns and ad accounts store it as user_id
//   - ID / _id: the MongoDB ObjectID of the user document

import (
	"context"
	"errors"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// GetByEmail loads a user by (normalized) email.
// Returns storeutil.ErrNotFound if no user matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &u, nil
}

// Create inserts a new user after normalizing fields. New users are active
// with no linked ad accounts. The unique email index is the final arbiter
// of duplicates; a lost race still yields ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.IsActive = true
	if u.AdAccounts == nil {
		u.AdAccounts = []string{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile applies the supplied fields and returns the updated user.
// updated_at is always refreshed. Email cannot be changed here.
func (s *Store) UpdateProfile(ctx context.Context, email string, m *patch.Mask) (*models.User, error) {
	set := m.SetDoc()
	for _, e := range set {
		if e.Key == "full_name" {
			if name, ok := e.Value.(string); ok {
				set = append(set, bson.E{Key: "full_name_ci", Value: text.Fold(name)})
			}
			break
		}
	}
	set = append(set, bson.E{Key: "updated_at", Value: time.Now().UTC()})

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &u, nil
}

// AddAdAccount appends an ad account id to the user's ad_accounts list.
func (s *Store) AddAdAccount(ctx context.Context, email, accountID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$push": bson.M{"ad_accounts": accountID}},
	)
	return err
}

// RemoveAdAccount removes an ad account id from the user's ad_accounts list.
func (s *Store) RemoveAdAccount(ctx context.Context, email, accountID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$pull": bson.M{"ad_accounts": accountID}},
	)
	return err
}

// SetActive enables or disables a user. Inactive users cannot authenticate.
func (s *Store) SetActive(ctx context.Context, email string, active bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}
