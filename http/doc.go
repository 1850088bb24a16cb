// Package http provides the REST APIs of both services: the meme catalog
// (CatalogHandler) and the authenticated blob-store boundary (StoreHandler).
// Handlers are thin: they map verbs to service operations and sentinel
// errors to status codes.
package http
