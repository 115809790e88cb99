package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents the authenticated caller in handler tests.
type TestUser struct {
	ID       string
	Email    string
	FullName string
}

// Owner returns a TestUser with a fresh ID and the given email.
func Owner(email string) TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Email:    email,
		FullName: "Test Owner",
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the bearer middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.User{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

// JSONRequest builds a request with body marshalled as JSON.
// A string body is sent verbatim.
func JSONRequest(t testing.TB, method, target string, body any) *http.Request {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// AuthedJSONRequest is JSONRequest with user injected into the context.
func AuthedJSONRequest(t testing.TB, method, target string, body any, user TestUser) *http.Request {
	return WithUser(JSONRequest(t, method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertError checks that the body is {"error": expected}.
func (r *ResponseRecorder) AssertError(t interface{ Errorf(string, ...any) }, expected string) {
	var body map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &body); err != nil {
		t.Errorf("response is not JSON: %v", err)
		return
	}
	if got, _ := body["error"].(string); got != expected {
		t.Errorf("error message: got %q, want %q", got, expected)
	}
}

// DecodeJSON unmarshals the response body into v.
func (r *ResponseRecorder) DecodeJSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
}
