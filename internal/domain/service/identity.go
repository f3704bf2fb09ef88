package service

import (
	"context"

	"bazaar/internal/domain/entity"
)

// Identity is the verified subject extracted from a bearer token.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
	Role      entity.Role
}

// IdentityVerifier delegates token verification to the external identity
// provider. Verification yields the subject mapping used for upsert-on-login.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
