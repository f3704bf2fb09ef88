package entity

import (
	"time"

	"github.com/google/uuid"
)

// Download is an append-only event log row recording a successful signed-URL
// issuance. Rows are never mutated or deleted; the log doubles as the audit
// trail and as the sliding-window source for rate limiting.
type Download struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	AssetID   uuid.UUID
	CreatedAt time.Time
}
