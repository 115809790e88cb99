package authapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	userstore "github.com/ashishmicrocom/adPatterns/internal/app/store/users"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/tokens"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"github.com/ashishmicrocom/adPatterns/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const testSecret = "test-signing-secret-0123456789abcdef"

type env struct {
	db     *mongo.Database
	issuer *tokens.Issuer
	router chi.Router
}

func newEnv(t *testing.T, limit LoginLimit) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	issuer := tokens.NewIssuer(testSecret, 30*time.Minute)
	h := NewHandler(db, issuer, logger)
	mw := auth.NewMiddleware(issuer, userstore.NewFetcher(db, logger), logger)
	return &env{db: db, issuer: issuer, router: Routes(h, mw, limit)}
}

func (e *env) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) register(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/register", map[string]any{
		"email":     email,
		"full_name": "Ada Lovelace",
		"password":  password,
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var tok models.Token
	rec.DecodeJSON(t, &tok)
	return tok.AccessToken
}

func formLogin(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func bearer(req *http.Request, tok string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func TestRegister(t *testing.T) {
	e := newEnv(t, LoginLimit{})

	t.Run("returns bearer token", func(t *testing.T) {
		rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/register", map[string]any{
			"email":        "Ada@Example.com",
			"full_name":    "Ada Lovelace",
			"password":     "secret123",
			"phone_number": "555-0100",
		}))
		rec.AssertStatus(t, http.StatusCreated)

		var tok models.Token
		rec.DecodeJSON(t, &tok)
		if tok.TokenType != "bearer" || tok.AccessToken == "" {
			t.Fatalf("token = %+v", tok)
		}
		sub, err := e.issuer.Verify(tok.AccessToken)
		if err != nil || sub != "ada@example.com" {
			t.Errorf("token subject = %q, %v; want normalized email", sub, err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/register", map[string]any{
			"email":     "ada@example.com",
			"full_name": "Someone Else",
			"password":  "secret123",
		}))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertError(t, "Email already registered")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body any
			want string
		}{
			{"bad email", map[string]any{"email": "nope", "full_name": "A", "password": "secret123"}, "A valid email address is required."},
			{"missing name", map[string]any{"email": "b@example.com", "password": "secret123"}, "Full name is required."},
			{"short password", map[string]any{"email": "b@example.com", "full_name": "B", "password": "123"}, "Password must be at least 6 characters."},
			{"malformed body", "{", "invalid JSON body"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/register", tt.body))
				rec.AssertStatus(t, http.StatusBadRequest)
				rec.AssertError(t, tt.want)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	e := newEnv(t, LoginLimit{})
	e.register(t, "ada@example.com", "secret123")

	t.Run("form login", func(t *testing.T) {
		rec := e.do(formLogin("ADA@example.com", "secret123"))
		rec.AssertStatus(t, http.StatusOK)
		var tok models.Token
		rec.DecodeJSON(t, &tok)
		if tok.AccessToken == "" {
			t.Error("empty access token")
		}
	})

	t.Run("json login", func(t *testing.T) {
		rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/login/json", map[string]any{
			"email": "ada@example.com", "password": "secret123",
		}))
		rec.AssertStatus(t, http.StatusOK)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := e.do(formLogin("ada@example.com", "wrong-pass"))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertError(t, "Incorrect email or password")
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("WWW-Authenticate = %q", rec.Header().Get("WWW-Authenticate"))
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := e.do(testutil.JSONRequest(t, http.MethodPost, "/login/json", map[string]any{
			"email": "nobody@example.com", "password": "secret123",
		}))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertError(t, "Incorrect email or password")
	})

	t.Run("inactive user", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()
		e.register(t, "gone@example.com", "secret123")
		if err := userstore.New(e.db).SetActive(ctx, "gone@example.com", false); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		rec := e.do(formLogin("gone@example.com", "secret123"))
		rec.AssertStatus(t, http.StatusUnauthorized)
	})

	t.Run("missing form fields", func(t *testing.T) {
		rec := e.do(formLogin("", ""))
		rec.AssertStatus(t, http.StatusBadRequest)
	})
}

func TestLogin_RateLimited(t *testing.T) {
	e := newEnv(t, LoginLimit{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		e.do(formLogin("x@example.com", "whatever")).AssertStatus(t, http.StatusUnauthorized)
	}
	rec := e.do(formLogin("x@example.com", "whatever"))
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertError(t, "Too many login attempts, try again later")
}

func TestMe(t *testing.T) {
	e := newEnv(t, LoginLimit{})
	tok := e.register(t, "ada@example.com", "secret123")

	t.Run("returns profile without credentials", func(t *testing.T) {
		rec := e.do(bearer(httptest.NewRequest(http.MethodGet, "/me", nil), tok))
		rec.AssertStatus(t, http.StatusOK)

		var body map[string]any
		rec.DecodeJSON(t, &body)
		if body["email"] != "ada@example.com" || body["full_name"] != "Ada Lovelace" {
			t.Errorf("body = %v", body)
		}
		if _, leaked := body["hashed_password"]; leaked {
			t.Error("hashed_password must not be serialized")
		}
		if body["is_active"] != true {
			t.Errorf("is_active = %v", body["is_active"])
		}
	})

	t.Run("missing token", func(t *testing.T) {
		rec := e.do(httptest.NewRequest(http.MethodGet, "/me", nil))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertError(t, "Not authenticated")
	})

	t.Run("expired token", func(t *testing.T) {
		old := e.issuer.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
		stale, _, err := old.Issue("ada@example.com")
		if err != nil {
			t.Fatal(err)
		}
		rec := e.do(bearer(httptest.NewRequest(http.MethodGet, "/me", nil), stale))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertError(t, "Could not validate credentials")
	})

	t.Run("token for unknown user", func(t *testing.T) {
		ghost, _, err := e.issuer.Issue("ghost@example.com")
		if err != nil {
			t.Fatal(err)
		}
		rec := e.do(bearer(httptest.NewRequest(http.MethodGet, "/me", nil), ghost))
		rec.AssertStatus(t, http.StatusUnauthorized)
	})
}

func TestUpdateMe(t *testing.T) {
	e := newEnv(t, LoginLimit{})
	tok := e.register(t, "ada@example.com", "secret123")

	req := bearer(testutil.JSONRequest(t, http.MethodPut, "/me", map[string]any{
		"company":  "Analytical Engines",
		"password": "newsecret1",
	}), tok)
	rec := e.do(req)
	rec.AssertStatus(t, http.StatusOK)

	var u models.User
	rec.DecodeJSON(t, &u)
	if u.FullName != "Ada Lovelace" {
		t.Errorf("full_name = %q, omitted field must be unchanged", u.FullName)
	}
	if u.Company == nil || *u.Company != "Analytical Engines" {
		t.Errorf("company = %v", u.Company)
	}

	e.do(formLogin("ada@example.com", "secret123")).AssertStatus(t, http.StatusUnauthorized)
	e.do(formLogin("ada@example.com", "newsecret1")).AssertStatus(t, http.StatusOK)

	t.Run("blank name rejected", func(t *testing.T) {
		rec := e.do(bearer(testutil.JSONRequest(t, http.MethodPut, "/me", map[string]any{"full_name": "  "}), tok))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertError(t, "Full name is required.")
	})
}
