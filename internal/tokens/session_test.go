package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_SignParse(t *testing.T) {
	t.Parallel()

	iss := &Issuer{Secret: []byte("test-secret")}
	sid, uid := uuid.NewString(), uuid.NewString()
	exp := time.Now().Add(time.Hour).UTC()

	tok, err := iss.Sign(sid, uid, exp)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, sid, claims.ID)
	assert.Equal(t, uid, claims.Subject)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	t.Parallel()

	iss := &Issuer{Secret: []byte("test-secret")}
	other := &Issuer{Secret: []byte("other-secret")}

	expired, err := iss.Sign("sid", "uid", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	foreign, err := other.Sign("sid", "uid", time.Now().Add(time.Minute))
	require.NoError(t, err)
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString(iss.Secret)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "sid", Subject: "uid"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name string
		tok  string
	}{
		{name: "empty", tok: ""},
		{name: "garbage", tok: "not-a-jwt"},
		{name: "expired", tok: expired},
		{name: "wrong secret", tok: foreign},
		{name: "missing session id", tok: noID},
		{name: "alg none", tok: none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := iss.Parse(tt.tok)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
