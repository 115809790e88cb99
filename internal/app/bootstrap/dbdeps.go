// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backend connections created in ConnectDB and passed to
// EnsureSchema, Startup, BuildHandler, and Shutdown.
//
// The dataset CSV is not a dependency here: it is re-read per request so
// that replacing the file takes effect without a restart.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
