package e2e_test

import (
	"context"
	"database/sql"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/database/sqlite"
	"github.com/memecat/memecat/gateway"
	memecathttp "github.com/memecat/memecat/http"
	"github.com/memecat/memecat/token"
)

// memBlobStore is an in-memory stand-in for the MinIO-backed store: same
// stat-first delete and put-then-stat confirmation shape, no network.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string]memecat.SyncResult
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string]memecat.SyncResult)}
}

func (s *memBlobStore) Put(ctx context.Context, name string, content io.Reader, size int64, description string) (memecat.SyncResult, error) {
	if _, err := io.ReadAll(content); err != nil {
		return memecat.SyncResult{}, memecat.ErrStorageUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := memecat.SyncResult{
		Status:        "Modified",
		Name:          name,
		Description:   memecat.StringPtr(description),
		LastUpdatedAt: memecat.NormalizeTime(time.Now()),
	}
	s.objects[name] = res
	return res, nil
}

func (s *memBlobStore) Stat(ctx context.Context, name string) (memecat.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.objects[name]
	if !ok {
		return memecat.SyncResult{}, memecat.ErrNotFound
	}
	res.Status = ""
	return res, nil
}

func (s *memBlobStore) List(ctx context.Context) ([]memecat.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]memecat.SyncResult, 0, len(s.objects))
	for _, res := range s.objects {
		res.Status = ""
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (s *memBlobStore) Delete(ctx context.Context, name string) (memecat.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.objects[name]
	if !ok {
		return memecat.SyncResult{}, memecat.ErrNotFound
	}
	delete(s.objects, name)
	res.Status = "Deleted"
	return res, nil
}

// description returns the blob-side description for divergence checks.
func (s *memBlobStore) description(name string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.objects[name]
	if !ok {
		return nil
	}
	return res.Description
}

// testStack is both services wired over real HTTP with a sqlite catalog.
type testStack struct {
	catalogURL string
	storeURL   string
	db         *sql.DB
	blobs      *memBlobStore
}

func startStack(t *testing.T) *testStack {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db), "migrate")

	users := sqlite.NewUserRepo(db)
	hash, err := token.HashPassword("secret")
	require.NoError(t, err, "hash password")
	_, err = users.Create(ctx, "admin", hash)
	require.NoError(t, err, "seed user")

	tokens, err := token.NewService(token.Config{
		Secret:    "e2e-secret",
		Algorithm: "HS256",
		Expiry:    5 * time.Minute,
	}, users)
	require.NoError(t, err, "token service")

	blobs := newMemBlobStore()
	storeHandler := memecathttp.NewStoreHandler(&memecathttp.StoreConfig{}, blobs, tokens, tokens)
	storeServer := httptest.NewServer(storeHandler.Router())
	t.Cleanup(storeServer.Close)

	gw, err := gateway.New(gateway.Config{
		RootURL:  storeServer.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err, "gateway")

	service, err := memecat.NewCatalogService(sqlite.NewRepo(db), gw)
	require.NoError(t, err, "catalog service")

	catalogHandler := memecathttp.NewCatalogHandler(&memecathttp.CatalogConfig{}, service)
	catalogServer := httptest.NewServer(catalogHandler.Router())
	t.Cleanup(catalogServer.Close)

	return &testStack{
		catalogURL: catalogServer.URL,
		storeURL:   storeServer.URL,
		db:         db,
		blobs:      blobs,
	}
}
