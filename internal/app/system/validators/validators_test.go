package validators

import (
	"errors"
	"testing"

	"github.com/ashishmicrocom/adPatterns/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	for _, coll := range []string{"users", "ad_accounts", "campaigns"} {
		exists, err := collectionExists(ctx, db, coll)
		if err != nil {
			t.Errorf("collectionExists(%s) error = %v", coll, err)
			continue
		}
		if !exists {
			t.Errorf("collection %s should exist after EnsureAll", coll)
		}
	}

	// Second run must be a no-op.
	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll() error = %v", err)
	}
}

func TestEnsureAll_RejectsBadCampaignStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	_, err := db.Collection("campaigns").InsertOne(ctx, bson.M{
		"user_id":   "owner@example.com",
		"name":      "Launch",
		"platform":  "meta",
		"objective": "sales",
		"budget":    50.0,
		"status":    "running",
	})
	if err == nil {
		t.Error("InsertOne() with unknown status should fail document validation")
	}
}

func TestEnsureCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := ensureCollection(ctx, db, "new_collection")
	if err != nil {
		t.Fatalf("First ensureCollection() error = %v", err)
	}
	if !created {
		t.Error("First ensureCollection() should return created=true")
	}

	created, err = ensureCollection(ctx, db, "new_collection")
	if err != nil {
		t.Fatalf("Second ensureCollection() error = %v", err)
	}
	if created {
		t.Error("Second ensureCollection() should return created=false")
	}
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(error) bool
		err  error
		want bool
	}{
		{"exists nil", isNamespaceExistsErr, nil, false},
		{"exists message", isNamespaceExistsErr, errors.New("collection already exists"), true},
		{"exists code 48", isNamespaceExistsErr, mongo.CommandError{Code: 48, Message: "exists"}, true},
		{"no such command message", isNoSuchCommand, errors.New("NO SUCH COMMAND"), true},
		{"no such command code 59", isNoSuchCommand, mongo.CommandError{Code: 59}, true},
		{"no such command generic", isNoSuchCommand, errors.New("boom"), false},
		{"not implemented code 115", isNotImplemented, mongo.CommandError{Code: 115}, true},
		{"not supported message", isNotImplemented, errors.New("not supported"), true},
		{"not implemented generic", isNotImplemented, errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchemasRequireOwner(t *testing.T) {
	for name, schema := range map[string]bson.M{
		"ad_accounts": adAccountsSchema(),
		"campaigns":   campaignsSchema(),
	} {
		js, ok := schema["$jsonSchema"].(bson.M)
		if !ok {
			t.Fatalf("%s: $jsonSchema should be a bson.M", name)
		}
		required, _ := js["required"].(bson.A)
		found := false
		for _, r := range required {
			if r == "user_id" {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: user_id should be required", name)
		}
	}
}
