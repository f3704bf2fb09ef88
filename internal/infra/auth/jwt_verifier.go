// Package auth implements bearer-token verification against the external
// identity provider.
package auth

import (
	"context"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// identityClaims is the claim set issued by the identity provider.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// jwtVerifier implements service.IdentityVerifier for HMAC-signed provider tokens.
type jwtVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTVerifier is the constructor for jwtVerifier.
func NewJWTVerifier(cfg *config.Config) (service.IdentityVerifier, error) {
	if cfg.Identity == nil || cfg.Identity.Secret == "" {
		return nil, errors.New("identity verification is not configured")
	}

	return &jwtVerifier{
		secret:   []byte(cfg.Identity.Secret),
		issuer:   cfg.Identity.Issuer,
		audience: cfg.Identity.Audience,
	}, nil
}

// Verify validates the token signature, expiry, issuer and audience, and
// extracts the subject mapping used for upsert-on-login.
func (v *jwtVerifier) Verify(_ context.Context, token string) (*service.Identity, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}

	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, options...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify identity token")
	}
	if !parsed.Valid {
		return nil, errors.New("identity token is invalid")
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token is missing a subject")
	}

	role := entity.Role(claims.Role)
	if !role.IsValid() {
		role = entity.RoleClient
	}

	return &service.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      role,
	}, nil
}
