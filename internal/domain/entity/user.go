// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity. Accounts are created lazily on the first
// successful identity-provider verification (upsert-on-login) and are never
// hard-deleted.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	SubjectID string    // The identity provider's subject claim that maps to this account.
	Email     string    // The user's primary contact email.
	Name      string    // The user's display name.
	Role      Role      // The user's role (CLIENT, VENDOR or ADMIN).
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
