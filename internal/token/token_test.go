package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	Secret: []byte("0123456789abcdef0123456789abcdef"),
	TTL:    time.Minute,
}

func TestIssueAndParse(t *testing.T) {
	signed, err := Issue(testConfig, "alice", "todo")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := Parse(testConfig, signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Client)
	assert.Equal(t, "todo", claims.Target)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssue_DefaultTTL(t *testing.T) {
	signed, err := Issue(Config{Secret: testConfig.Secret}, "alice", "")
	require.NoError(t, err)

	claims, err := Parse(testConfig, signed)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Invalid(t *testing.T) {
	valid, err := Issue(testConfig, "alice", "todo")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    Issuer,
		},
	}).SignedString(testConfig.Secret)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "someone-else",
		},
	}).SignedString(testConfig.Secret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		cfg   Config
		token string
	}{
		{name: "wrong secret", cfg: Config{Secret: []byte("another-secret-another-secret-xx")}, token: valid},
		{name: "expired", cfg: testConfig, token: expired},
		{name: "foreign issuer", cfg: testConfig, token: foreign},
		{name: "alg none", cfg: testConfig, token: unsigned},
		{name: "garbage", cfg: testConfig, token: "not.a.token"},
		{name: "empty", cfg: testConfig, token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Parse(tt.cfg, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
