// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collections lists every collection the service owns with its
// JSON-Schema. Enum values come from the domain models so the database
// and the API accept exactly the same sets.
func collections() []struct {
	name   string
	schema bson.M
} {
	return []struct {
		name   string
		schema bson.M
	}{
		{"users", usersSchema()},
		{"ad_accounts", adAccountsSchema()},
		{"campaigns", campaignsSchema()},
	}
}

// EnsureAll creates missing collections and attaches their validators
// (validationLevel "moderate": existing invalid documents are left alone
// until they are next written). Deployments without collMod support
// skip the validator step.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, c := range collections() {
		if _, err := ensureCollection(ctx, db, c.name); err != nil {
			problems = append(problems, c.name+": "+err.Error())
			continue
		}
		err := setValidator(ctx, db, c.name, c.schema)
		switch {
		case err == nil:
		case isNoSuchCommand(err), isNotImplemented(err):
			zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
		default:
			problems = append(problems, c.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection reports created=true only when this call created it.
// A failed listing falls through to CreateCollection, where a concurrent
// creator shows up as NamespaceExists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, err := collectionExists(ctx, db, name); err == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error classification ------------------------- */

// commandErr matches a server error by code, then by message fragment.
func commandErr(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, []int32{48}, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, []int32{59}, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, []int32{115}, "not implemented", "not supported")
}

/* ------------------------------ schemas -------------------------------- */

func objectSchema(required []string, props bson.M) bson.M {
	req := make(bson.A, len(required))
	for i, r := range required {
		req[i] = r
	}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   req,
		"properties": props,
	}}
}

func enumOf(values []string) bson.M {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.M{"enum": a}
}

var nonEmptyString = bson.M{"bsonType": "string", "minLength": 1}

func usersSchema() bson.M {
	return objectSchema(
		[]string{"email", "full_name", "hashed_password", "is_active"},
		bson.M{
			// stored lowercase
			"email":           bson.M{"bsonType": "string", "minLength": 3, "pattern": "^[^A-Z]*$"},
			"full_name":       bson.M{"bsonType": "string"},
			"hashed_password": nonEmptyString,
			"is_active":       bson.M{"bsonType": "bool"},
			"ad_accounts":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
		},
	)
}

func adAccountsSchema() bson.M {
	return objectSchema(
		[]string{"user_id", "platform", "account_id", "status"},
		bson.M{
			"user_id":    nonEmptyString,
			"platform":   enumOf(models.AllPlatforms()),
			"account_id": nonEmptyString,
			"status":     enumOf(models.AllAdAccountStatuses()),
		},
	)
}

func campaignsSchema() bson.M {
	return objectSchema(
		[]string{"user_id", "name", "platform", "objective", "budget", "status"},
		bson.M{
			"user_id":   nonEmptyString,
			"platform":  enumOf(models.AllPlatforms()),
			"objective": enumOf(models.AllObjectives()),
			"budget":    bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}},
			"status":    enumOf(models.AllCampaignStatuses()),
		},
	)
}
