package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: the owner's email address, as carried in the token subject
//   - ID: the MongoDB ObjectID hex of the user document

import (
	"context"
	"net/http"
	"strings"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/metrics"
	"go.uber.org/zap"
)

const credentialsMessage = "Could not validate credentials"

/*─────────────────────────────────────────────────────────────────────────────*
| Collaborators                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenVerifier turns a bearer token into its subject (the user's email).
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFetcher fetches fresh user data from the database.
// Implementations return nil if the user is not found or is inactive.
type UserFetcher interface {
	FetchActive(ctx context.Context, email string) *User
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User represents the authenticated user in the request context.
// It is loaded from the database on every request so a deactivated
// account stops working immediately.
type User struct {
	ID       string
	Email    string
	FullName string
}

// UserID returns the owner key used to scope campaigns and ad accounts.
func (u *User) UserID() string { return u.Email }

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag from the request context.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a User into the request context for testing.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Middleware resolves bearer tokens to users.
type Middleware struct {
	verifier TokenVerifier
	fetcher  UserFetcher
	logger   *zap.Logger
}

// NewMiddleware wires a token verifier and user fetcher.
func NewMiddleware(v TokenVerifier, f UserFetcher, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: v, fetcher: f, logger: logger}
}

// RequireBearer rejects the request with 401 unless it carries a valid
// bearer token for an active user. On success the user is placed in the
// request context.
func (m *Middleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			metrics.RecordAuthFailure("missing_token")
			jsonutil.Unauthorized(w, "Not authenticated")
			return
		}

		email, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("bearer token rejected",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			metrics.RecordAuthFailure("invalid_token")
			jsonutil.Unauthorized(w, credentialsMessage)
			return
		}

		u := m.fetcher.FetchActive(r.Context(), email)
		if u == nil {
			m.logger.Warn("bearer token for unknown or inactive user",
				zap.String("user_id", email),
				zap.String("path", r.URL.Path))
			metrics.RecordAuthFailure("inactive_user")
			jsonutil.Unauthorized(w, credentialsMessage)
			return
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireUser is a guard for handlers mounted behind RequireBearer.
// It writes 401 and returns false when no user is in context.
func RequireUser(w http.ResponseWriter, r *http.Request) (*User, bool) {
	u, ok := CurrentUser(r)
	if !ok || u == nil {
		jsonutil.Unauthorized(w, "Not authenticated")
		return nil, false
	}
	return u, true
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| Secret hygiene                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// IsWeakSecret reports whether a signing secret is too short or looks like
// a placeholder. Production startup refuses weak secrets.
func IsWeakSecret(key string) bool {
	if len(key) < 32 {
		return true
	}
	lower := strings.ToLower(key)
	patterns := []string{
		"dev-only",
		"change-me",
		"changeme",
		"placeholder",
		"your-secret",
		"example",
		"insecure",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
