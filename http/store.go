package http

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/memecat/memecat"
	"github.com/memecat/memecat/token"
)

// BlobStore is the blob-store surface exposed over the trust boundary.
type BlobStore interface {
	Put(ctx context.Context, name string, content io.Reader, size int64, description string) (memecat.SyncResult, error)
	Stat(ctx context.Context, name string) (memecat.SyncResult, error)
	List(ctx context.Context) ([]memecat.SyncResult, error)
	Delete(ctx context.Context, name string) (memecat.SyncResult, error)
}

// TokenIssuer issues bearer tokens for valid credentials.
type TokenIssuer interface {
	Issue(ctx context.Context, username, password string) (token.Token, error)
}

type StoreConfig struct {
	CORS          CORSConfig
	MaxUploadSize int64 // bytes, 0 means no limit
}

// StoreHandler exposes the blob store plus token issuance. All blob routes
// require a bearer token.
type StoreHandler struct {
	config StoreConfig
	store  BlobStore
	issuer TokenIssuer
	tokens TokenVerifier
}

// NewStoreHandler creates a new StoreHandler. issuer and verifier are
// usually the same *token.Service.
func NewStoreHandler(config *StoreConfig, store BlobStore, issuer TokenIssuer, verifier TokenVerifier) *StoreHandler {
	return &StoreHandler{
		config: *config,
		store:  store,
		issuer: issuer,
		tokens: verifier,
	}
}

// Router returns the blob-store API routes.
func (h *StoreHandler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/", h.handleRoot)
	r.Post("/auth/token", h.handleIssueToken)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(h.tokens))
		r.Post("/minio/create_or_update", h.handleCreateOrUpdate)
		r.Get("/minio/get", h.handleGet)
		r.Get("/minio/list", h.handleList)
		r.Delete("/minio/delete", h.handleDelete)
	})

	return r
}

func (h *StoreHandler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *StoreHandler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Malformed form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		WriteError(w, http.StatusBadRequest, "invalid_credentials", "Username and password are required")
		return
	}

	tok, err := h.issuer.Issue(r.Context(), username, password)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, tok)
}

func (h *StoreHandler) handleCreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Missing file upload")
		return
	}
	defer func() { _ = file.Close() }()

	description := r.FormValue("description")

	if !memecat.IsValidName(header.Filename) {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid object name")
		return
	}

	result, err := h.store.Put(r.Context(), header.Filename, file, header.Size, description)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *StoreHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Missing name parameter")
		return
	}

	result, err := h.store.Stat(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *StoreHandler) handleList(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.List(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, results)
}

func (h *StoreHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Missing name parameter")
		return
	}

	result, err := h.store.Delete(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}
