package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_SignAndParse(t *testing.T) {
	ts := TokenService{Secret: []byte("secret"), Issuer: "review-feed", Duration: time.Hour}

	token, exp, err := ts.Sign("u1", "u1@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
}

func TestTokenService_RejectsForeignSecretAndExpired(t *testing.T) {
	ts := TokenService{Secret: []byte("secret"), Issuer: "review-feed", Duration: time.Hour}
	other := TokenService{Secret: []byte("other"), Issuer: "review-feed", Duration: time.Hour}

	token, _, err := other.Sign("u1", "u1@example.com")
	require.NoError(t, err)
	_, err = ts.Parse(token)
	assert.Error(t, err)

	expired := TokenService{Secret: []byte("secret"), Issuer: "review-feed", Duration: -time.Minute}
	token, _, err = expired.Sign("u1", "u1@example.com")
	require.NoError(t, err)
	_, err = ts.Parse(token)
	assert.Error(t, err)
}
