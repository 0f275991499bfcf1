package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loftmebel/loft-backend/pkg/config"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "loft-test",
	ExpirationMinutes: 15,
}

func testPayload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID:     uuid.New(),
		CustomerID: uuid.New(),
		Email:      "ivan@example.com",
		JTI:        "jti-123",
	}
}

func TestMintAndParseRoundtrip(t *testing.T) {
	t.Parallel()

	payload := testPayload()
	token, err := MintAccessToken(testJWTConfig, time.Now().UTC(), payload)
	require.NoError(t, err)

	claims, err := ParseAccessToken(testJWTConfig, token)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, claims.UserID)
	assert.Equal(t, payload.CustomerID, claims.CustomerID)
	assert.Equal(t, payload.Email, claims.Email)
	assert.Equal(t, payload.JTI, claims.ID)
	assert.Equal(t, testJWTConfig.Issuer, claims.Issuer)
}

func TestMintGeneratesJTIWhenBlank(t *testing.T) {
	t.Parallel()

	payload := testPayload()
	payload.JTI = "  "
	token, err := MintAccessToken(testJWTConfig, time.Now().UTC(), payload)
	require.NoError(t, err)

	claims, err := ParseAccessToken(testJWTConfig, token)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
}

func TestMintValidatesConfigAndPayload(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	_, err := MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, now, testPayload())
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Secret: "x", ExpirationMinutes: 1}, now, testPayload())
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Secret: "x", Issuer: "y"}, now, testPayload())
	require.Error(t, err)

	payload := testPayload()
	payload.UserID = uuid.Nil
	_, err = MintAccessToken(testJWTConfig, now, payload)
	require.Error(t, err)

	payload = testPayload()
	payload.CustomerID = uuid.Nil
	_, err = MintAccessToken(testJWTConfig, now, payload)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := MintAccessToken(testJWTConfig, time.Now().UTC().Add(-time.Hour), testPayload())
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig, token)
	require.Error(t, err)
}

func TestParseAllowExpiredRecoversClaims(t *testing.T) {
	t.Parallel()

	payload := testPayload()
	token, err := MintAccessToken(testJWTConfig, time.Now().UTC().Add(-time.Hour), payload)
	require.NoError(t, err)

	claims, err := ParseAccessTokenAllowExpired(testJWTConfig, token)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, claims.UserID)
	assert.Equal(t, payload.JTI, claims.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := MintAccessToken(testJWTConfig, time.Now().UTC(), testPayload())
	require.NoError(t, err)

	other := testJWTConfig
	other.Secret = "different-secret"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)

	_, err = ParseAccessTokenAllowExpired(other, token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken(testJWTConfig, "not.a.jwt")
	require.Error(t, err)
}
