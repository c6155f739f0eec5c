package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "unit-test-secret"

func mintToken(t *testing.T, secret, sessionID string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invoke(token string) (*fasthttp.RequestCtx, bool) {
	var reached bool
	handler := SessionAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		reached = true
	})

	ctx := &fasthttp.RequestCtx{}
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	handler(ctx)
	return ctx, reached
}

func TestSessionAuthForwardsSessionID(t *testing.T) {
	token := mintToken(t, testSecret, "sess-1", time.Now().Add(time.Hour))

	ctx, reached := invoke(token)
	assert.True(t, reached)
	assert.Equal(t, "sess-1", string(ctx.Request.Header.Peek(SessionHeader)))
}

func TestSessionAuthRejections(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{name: "wrong signing key", token: mintToken(t, "other-secret", "sess-1", time.Now().Add(time.Hour))},
		{name: "expired token", token: mintToken(t, testSecret, "sess-1", time.Now().Add(-time.Hour))},
		{name: "empty session claim", token: mintToken(t, testSecret, "", time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, reached := invoke(tt.token)
			assert.False(t, reached)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
		})
	}
}

func TestSessionAuthRejectsWrongAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sess-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	ctx, reached := invoke(signed)
	assert.False(t, reached)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
