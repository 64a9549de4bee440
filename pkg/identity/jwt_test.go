package identity

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims providerClaims) string {
	t.Helper()
	raw, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestJWTVerifier(t *testing.T) {
	v, err := NewJWTVerifier("secret")
	require.NoError(t, err)

	valid := sign(t, "secret", providerClaims{
		Email:        "luis@example.com",
		Role:         "authenticated",
		UserMetadata: map[string]any{"full_name": "Luis"},
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user-9",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	id, err := v.Verify(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id.ID)
	assert.Equal(t, "Luis", id.DisplayName())

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrUnauthenticated},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "wrong secret", token: sign(t, "other", providerClaims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "u"}}), wantErr: ErrInvalidToken},
		{name: "expired", token: sign(t, "secret", providerClaims{RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "u",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}), wantErr: ErrInvalidToken},
		{name: "no subject", token: sign(t, "secret", providerClaims{Email: "x@example.com"}), wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTVerifier_DefaultsRole(t *testing.T) {
	v, err := NewJWTVerifier("secret")
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), sign(t, "secret", providerClaims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "u"}}))
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, id.Role)
	assert.NotNil(t, id.Metadata)
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier("")
	assert.Error(t, err)
}
