// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires AdPatterns into the WAFFLE lifecycle.
// app.Run calls them in order: configuration, DB connect, schema setup,
// one-time startup, HTTP handler construction, and graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "adpatterns",   // used only for logging/diagnostics
	LoadConfig:     LoadConfig,     // load core + app config
	ValidateConfig: ValidateConfig, // Mongo URI, token secret, rate limits
	ConnectDB:      ConnectDB,      // connect to MongoDB and return DBDeps
	EnsureSchema:   EnsureSchema,   // collection validators + indexes
	Startup:        Startup,        // report dataset and OAuth providers
	BuildHandler:   BuildHandler,   // build the HTTP router + middleware stack
	Shutdown:       Shutdown,       // disconnect MongoDB on shutdown
}
