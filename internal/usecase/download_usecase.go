// Package usecase defines the application's use case interfaces and the DTOs
// they exchange with the delivery layer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetSummary is the denormalized asset view returned with a download grant.
type AssetSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Vendor   string    `json:"vendor"`
}

// DownloadGrant is a successfully issued, time-limited download link.
type DownloadGrant struct {
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expiresAt"`
	ExpiresIn int          `json:"expiresIn"` // seconds
	Asset     AssetSummary `json:"asset"`
}

// DownloadRecord is one row of a user's download history.
type DownloadRecord struct {
	ID        uuid.UUID `json:"id"`
	AssetID   uuid.UUID `json:"assetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageMeta describes a page of results.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// DownloadHistory is a page of a user's download log.
type DownloadHistory struct {
	Data []*DownloadRecord `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// DownloadUsecase issues ownership-gated, rate-limited signed download URLs.
type DownloadUsecase interface {
	// IssueDownloadURL mints a signed URL for the asset's private source file.
	// requestedExpirySeconds of nil selects the configured default; values
	// outside the configured bounds are rejected.
	IssueDownloadURL(ctx context.Context, userID, assetID uuid.UUID, requestedExpirySeconds *int) (*DownloadGrant, error)

	// CanDownload reports whether the user currently holds download rights
	// for the asset and has rate-limit budget left. Soft gate: never returns
	// an entitlement error.
	CanDownload(ctx context.Context, userID, assetID uuid.UUID) (bool, error)

	// History returns a page of the user's download log, newest first.
	History(ctx context.Context, userID uuid.UUID, page, limit int) (*DownloadHistory, error)
}
