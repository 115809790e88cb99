package indexes_test

import (
	"errors"
	"testing"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/indexes"
	"github.com/ashishmicrocom/adPatterns/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_UniqueAdAccount(t *testing.T) {
	db := testutil.SetupTestDB(t) // runs EnsureAll
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := bson.M{"user_id": "a@example.com", "platform": "meta", "account_id": "act_1", "status": "connected"}
	if _, err := db.Collection("ad_accounts").InsertOne(ctx, doc); err != nil {
		t.Fatalf("first InsertOne() error = %v", err)
	}
	_, err := db.Collection("ad_accounts").InsertOne(ctx, bson.M{
		"user_id": "a@example.com", "platform": "meta", "account_id": "act_1", "status": "connected",
	})
	if !indexes.IsDuplicateKeyErr(err) {
		t.Errorf("second InsertOne() error = %v, want duplicate key", err)
	}

	// Same external account for a different owner is allowed.
	_, err = db.Collection("ad_accounts").InsertOne(ctx, bson.M{
		"user_id": "b@example.com", "platform": "meta", "account_id": "act_1", "status": "connected",
	})
	if err != nil {
		t.Errorf("InsertOne() for other owner error = %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() second run error = %v", err)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"generic", errors.New("boom"), false},
		{"E11000 message", errors.New("E11000 duplicate key error collection"), true},
		{"lowercase duplicate key", errors.New("write failed: duplicate key"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := indexes.IsDuplicateKeyErr(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyErr() = %v, want %v", got, tt.want)
			}
		})
	}
}
