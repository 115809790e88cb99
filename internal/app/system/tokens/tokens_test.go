package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-long-enough-123"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)

	tok, exp, err := iss.Issue("owner@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 2*time.Second)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", sub)
}

func TestIssue_SubSecondClockKeepsExactTTL(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 700*int(time.Millisecond), time.UTC)
	ttl := 30 * time.Minute

	tok, exp, err := NewIssuer(testSecret, ttl).WithClock(fixedClock(issuedAt)).Issue("owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Truncate(time.Second).Add(ttl), exp)

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(tok, &claims)
	require.NoError(t, err)
	assert.Equal(t, ttl, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))

	_, err = NewIssuer(testSecret, ttl).WithClock(fixedClock(exp.Add(-100 * time.Millisecond))).Verify(tok)
	assert.NoError(t, err)
	_, err = NewIssuer(testSecret, ttl).WithClock(fixedClock(exp)).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute

	tok, _, err := NewIssuer(testSecret, ttl).WithClock(fixedClock(issuedAt)).Issue("owner@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"just issued", issuedAt, false},
		{"one second before expiry", issuedAt.Add(ttl - time.Second), false},
		{"at expiry", issuedAt.Add(ttl), true},
		{"after expiry", issuedAt.Add(ttl + time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewIssuer(testSecret, ttl).WithClock(fixedClock(tt.at))
			_, err := v.Verify(tok)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, _, err := NewIssuer(testSecret, time.Hour).Issue("owner@example.com")
	require.NoError(t, err)

	_, err = NewIssuer("some-other-secret-value-0123456789", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "owner@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "owner@example.com"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	for _, tok := range []string{"", "not-a-jwt", strings.Repeat("a.", 3)} {
		_, err := iss.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestIssue_UniqueIDs(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour).WithClock(fixedClock(time.Now()))
	a, _, err := iss.Issue("owner@example.com")
	require.NoError(t, err)
	b, _, err := iss.Issue("owner@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "jti should differ between tokens")
}
