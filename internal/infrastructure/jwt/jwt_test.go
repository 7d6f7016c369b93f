package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse_Success(t *testing.T) {
	s := New("super-secret")
	values := map[string]string{"user_id": "7", "user_rol": "1"}

	tok, err := s.Sign(values, time.Hour)
	require.NoError(t, err, "Sign should not error")
	require.NotEmpty(t, tok, "token must not be empty")

	claims, err := s.Parse(tok)
	require.NoError(t, err, "Parse should not error for fresh token")
	require.NotNil(t, claims)

	assert.Equal(t, values, claims.Values)
	assert.Equal(t, issuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now().Add(-1*time.Second)))
}

func TestParse_Table(t *testing.T) {
	type fields struct {
		secret string
	}
	type want struct {
		ok    bool
		err   string
		check func(t *testing.T, c *Claims)
	}

	makeToken := func(secret string, exp time.Duration) string {
		s := New(secret)
		tok, err := s.Sign(map[string]string{"user_id": "42"}, exp)
		require.NoError(t, err)
		return tok
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Values:           map[string]string{"user_id": "1"},
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields fields
		token  string
		want   want
	}{
		{
			name:   "valid token",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", 5*time.Minute),
			want: want{
				ok: true,
				check: func(t *testing.T, c *Claims) {
					assert.Equal(t, "42", c.Values["user_id"])
				},
			},
		},
		{
			name:   "invalid secret (signature mismatch)",
			fields: fields{secret: "k2"},
			token:  makeToken("k1", 5*time.Minute),
			want:   want{err: "invalid token"},
		},
		{
			name:   "expired token",
			fields: fields{secret: "k1"},
			token:  makeToken("k1", -1*time.Minute),
			want:   want{err: "invalid token"},
		},
		{
			name:   "unsigned token",
			fields: fields{secret: "k1"},
			token:  noneToken,
			want:   want{err: "invalid token"},
		},
		{
			name:   "malformed token string",
			fields: fields{secret: "k1"},
			token:  "not-a-jwt",
			want:   want{err: "invalid token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fields.secret)

			claims, err := s.Parse(tt.token)
			if tt.want.ok {
				require.NoError(t, err)
				require.NotNil(t, claims)
				if tt.want.check != nil {
					tt.want.check(t, claims)
				}
			} else {
				require.Error(t, err)
				assert.EqualError(t, err, tt.want.err)
				assert.Nil(t, claims)
			}
		})
	}
}
