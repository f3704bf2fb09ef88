package auth

import (
	"context"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Identity = &config.IdentityConfig{
		Issuer:   "https://id.example.com",
		Audience: "bazaar",
		Secret:   "test-secret",
	}

	return cfg
}

func mintToken(t *testing.T, secret string, mutate func(*identityClaims)) string {
	t.Helper()

	claims := &identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|user-1",
			Issuer:    "https://id.example.com",
			Audience:  jwt.ClaimStrings{"bazaar"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "buyer@example.com",
		Name:  "Buyer One",
		Role:  "VENDOR",
	}
	if mutate != nil {
		mutate(claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	verifier, err := NewJWTVerifier(testConfig())
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), mintToken(t, "test-secret", nil))
	require.NoError(t, err)
	assert.Equal(t, "auth0|user-1", identity.SubjectID)
	assert.Equal(t, "buyer@example.com", identity.Email)
	assert.Equal(t, "Buyer One", identity.Name)
	assert.Equal(t, entity.RoleVendor, identity.Role)
}

func TestJWTVerifier_Verify_WrongSecret(t *testing.T) {
	verifier, err := NewJWTVerifier(testConfig())
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), mintToken(t, "other-secret", nil))
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_Expired(t *testing.T) {
	verifier, err := NewJWTVerifier(testConfig())
	require.NoError(t, err)

	token := mintToken(t, "test-secret", func(c *identityClaims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})
	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_WrongIssuer(t *testing.T) {
	verifier, err := NewJWTVerifier(testConfig())
	require.NoError(t, err)

	token := mintToken(t, "test-secret", func(c *identityClaims) {
		c.Issuer = "https://evil.example.com"
	})
	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTVerifier_Verify_UnknownRoleDefaultsToClient(t *testing.T) {
	verifier, err := NewJWTVerifier(testConfig())
	require.NoError(t, err)

	token := mintToken(t, "test-secret", func(c *identityClaims) {
		c.Role = "SUPERUSER"
	})
	identity, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleClient, identity.Role)
}

func TestNewJWTVerifier_MissingConfig(t *testing.T) {
	_, err := NewJWTVerifier(&config.Config{})
	assert.Error(t, err)
}
