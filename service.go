package memecat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// MemeRepo defines the interface for catalog record persistence.
// Implementations own the relational record set exclusively; no other
// component mutates catalog rows.
//
// All methods accept a context for cancellation and timeout control.
type MemeRepo interface {
	// Upsert reconciles a blob-store response into a catalog row keyed by
	// name. If a row with the same name exists, its description and
	// last_updated_at are overwritten with the synchronized values and the
	// id is left untouched; otherwise a new row is inserted.
	//
	// The lookup and the write are intentionally not wrapped in a single
	// serializable transaction: two concurrent upserts for the same new
	// name can race to insert two rows. Duplicate names are tolerated and
	// resolved by first-match-wins on lookup.
	Upsert(ctx context.Context, res SyncResult) (Meme, error)

	// Get retrieves a catalog record by its surrogate id.
	// Returns ErrNotFound if no row exists.
	Get(ctx context.Context, id int64) (Meme, error)

	// GetByName retrieves the first catalog record with the given name.
	// Returns ErrNotFound if no row exists.
	GetByName(ctx context.Context, name string) (Meme, error)

	// List returns catalog records in insertion (id) order, paginated by
	// offset and limit. No filtering is applied.
	List(ctx context.Context, q ListQuery) ([]Meme, error)

	// Update applies a partial patch to the record with the given id.
	// Only non-nil patch fields are written; omitted fields retain their
	// prior values. Returns ErrNotFound if no row exists.
	Update(ctx context.Context, id int64, patch MemePatch) (Meme, error)

	// Delete removes the record with the given id.
	// Returns ErrNotFound if no row exists.
	Delete(ctx context.Context, id int64) error
}

// Gateway bridges the catalog to the blob-store service across a trust
// boundary. Every call re-authenticates and injects a fresh bearer token;
// there is no token caching, trading latency for simplicity.
//
// Authentication failures surface as ErrAuthenticationFailed and must not
// be mistaken for ErrNotFound.
type Gateway interface {
	// CreateOrUpdate uploads bytes plus a description and returns the
	// normalized blob-store result. Propagates ErrUnprocessable when the
	// store cannot confirm the write.
	CreateOrUpdate(ctx context.Context, name string, content io.Reader, description string) (SyncResult, error)

	// Get stats a single object. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) (SyncResult, error)

	// List enumerates all objects in the store.
	List(ctx context.Context) ([]SyncResult, error)

	// Delete removes an object, returning its pre-deletion snapshot.
	// Returns ErrNotFound if absent.
	Delete(ctx context.Context, name string) (SyncResult, error)
}

// CatalogService keeps the relational catalog convergent with the
// authoritative blob store. Writes go blob store first; a catalog row is
// only ever written for a confirmed blob write.
type CatalogService struct {
	repo    MemeRepo
	gateway Gateway
}

func NewCatalogService(repo MemeRepo, gateway Gateway) (*CatalogService, error) {
	if repo == nil {
		return nil, fmt.Errorf("new catalog service: repo is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("new catalog service: gateway is required")
	}
	return &CatalogService{repo: repo, gateway: gateway}, nil
}

// Create uploads an object through the gateway and upserts its catalog row.
//
// The method performs the following steps:
//  1. Validates the object name
//  2. Forwards bytes and description to the blob-store boundary
//  3. On gateway failure, propagates without touching the catalog
//  4. Upserts the catalog row keyed by name (id preserved on re-upload)
//
// The merge is field-level last-writer-wins: every field present in the
// synchronized blob-store result overwrites the existing catalog value.
func (s *CatalogService) Create(ctx context.Context, name string, content io.Reader, description string) (Meme, error) {
	if err := ctx.Err(); err != nil {
		return Meme{}, fmt.Errorf("create meme: %w", err)
	}

	if !IsValidName(name) {
		return Meme{}, fmt.Errorf("create meme %q: %w", name, ErrInvalidInput)
	}

	res, err := s.gateway.CreateOrUpdate(ctx, name, content, description)
	if err != nil {
		// No partial row is ever written for a failed blob write.
		return Meme{}, fmt.Errorf("create meme %q: %w", name, err)
	}

	meme, err := s.repo.Upsert(ctx, res)
	if err != nil {
		return Meme{}, fmt.Errorf("create meme %q: upsert: %w", name, err)
	}

	slog.Info("meme added", "name", meme.Name, "id", meme.ID)
	return meme, nil
}

// Get is a point lookup by surrogate id.
func (s *CatalogService) Get(ctx context.Context, id int64) (Meme, error) {
	if err := ctx.Err(); err != nil {
		return Meme{}, fmt.Errorf("get meme: %w", err)
	}

	meme, err := s.repo.Get(ctx, id)
	if err != nil {
		return Meme{}, fmt.Errorf("get meme %d: %w", id, err)
	}

	return meme, nil
}

// List returns catalog records in id order.
func (s *CatalogService) List(ctx context.Context, q ListQuery) ([]Meme, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list memes: %w", err)
	}

	memes, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list memes: %w", err)
	}

	return memes, nil
}

// Update applies a catalog-only metadata edit. The blob store is not
// touched: the stored object's description intentionally diverges from the
// patched catalog value on this path.
func (s *CatalogService) Update(ctx context.Context, id int64, patch MemePatch) (Meme, error) {
	if err := ctx.Err(); err != nil {
		return Meme{}, fmt.Errorf("update meme: %w", err)
	}

	if patch.Name != nil && !IsValidName(*patch.Name) {
		return Meme{}, fmt.Errorf("update meme %d: %w", id, ErrInvalidInput)
	}

	meme, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Meme{}, fmt.Errorf("update meme %d: %w", id, err)
	}

	slog.Info("meme updated", "name", meme.Name, "id", meme.ID)
	return meme, nil
}

// Delete removes the blob first, then the catalog row. Blob-first ordering
// minimizes the chance of an orphaned catalog row outliving its blob; a
// gateway failure here is logged and does not abort the row delete.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete meme: %w", err)
	}

	meme, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meme %d: %w", id, err)
	}

	if _, err := s.gateway.Delete(ctx, meme.Name); err != nil {
		slog.Warn("blob delete failed, removing catalog row anyway", "name", meme.Name, "err", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete meme %d: %w", id, err)
	}

	slog.Info("meme deleted", "name", meme.Name, "id", meme.ID)
	return nil
}
