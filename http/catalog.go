package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/memecat/memecat"
)

const defaultListLimit = 50

// CatalogService is the surface of the catalog consumed by the handlers.
type CatalogService interface {
	Create(ctx context.Context, name string, content io.Reader, description string) (memecat.Meme, error)
	Get(ctx context.Context, id int64) (memecat.Meme, error)
	List(ctx context.Context, q memecat.ListQuery) ([]memecat.Meme, error)
	Update(ctx context.Context, id int64, patch memecat.MemePatch) (memecat.Meme, error)
	Delete(ctx context.Context, id int64) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type CatalogConfig struct {
	CORS          CORSConfig
	MaxUploadSize int64 // bytes, 0 means no limit
}

// CatalogHandler provides the meme catalog REST API.
type CatalogHandler struct {
	config  CatalogConfig
	service CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(config *CatalogConfig, service CatalogService) *CatalogHandler {
	return &CatalogHandler{
		config:  *config,
		service: service,
	}
}

// Router returns the catalog API routes.
func (h *CatalogHandler) Router() http.Handler {
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
	r.Post("/memes/", h.handleCreate)
	r.Get("/memes/", h.handleList)
	r.Get("/memes/{id}", h.handleGet)
	r.Put("/memes/{id}", h.handleUpdate)
	r.Delete("/memes/{id}", h.handleDelete)

	return r
}

func (h *CatalogHandler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
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

	meme, err := h.service.Create(r.Context(), header.Filename, file, description)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, meme)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			limit = max(1, min(100, parsed))
		}
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			offset = max(0, parsed)
		}
	}

	memes, err := h.service.List(r.Context(), memecat.ListQuery{Offset: offset, Limit: limit})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, memes)
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	meme, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, meme)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch memecat.MemePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Malformed JSON body")
		return
	}

	meme, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, meme)
}

func (h *CatalogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid id")
		return 0, false
	}
	return id, true
}
