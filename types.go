package memecat

import "time"

// Meme is a catalog record mirroring one object in the blob store.
// The surrogate id is assigned by the catalog on first insert and is
// immutable thereafter; Name equals the blob-store object key.
type Meme struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// SyncResult is the normalized blob-store response reconciled into the
// catalog. LastUpdatedAt carries the store's authoritative last-modified
// time. Status is informational ("Modified", "Deleted") and never persisted.
type SyncResult struct {
	Status        string    `json:"status,omitempty"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// MemePatch is a partial catalog update. Nil fields retain their prior
// values; a patch never touches the blob store.
type MemePatch struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

// ListQuery holds offset/limit pagination for catalog listings.
type ListQuery struct {
	Offset int
	Limit  int
}

// NormalizeTime strips sub-second precision and converts to UTC so that
// timestamps survive the blob-store wire format round trip unchanged.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// StringPtr returns a pointer to s. Convenience for optional fields.
func StringPtr(s string) *string {
	return &s
}
