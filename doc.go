// Package memecat provides a catalog of named binary objects backed by two
// collaborating stores: an object-blob store holding the bytes and a
// relational catalog holding a queryable record per object.
//
// The blob store is the source of truth for existence and content; the
// catalog is a secondary index kept convergent with it by the upsert
// protocol in CatalogService. Divergence between the two stores is surfaced
// as an error, never silently healed.
//
// # Key Components
//
//   - CatalogService: reconciles blob-store writes into catalog records
//   - MemeRepo: interface for catalog persistence (PostgreSQL, SQLite)
//   - Gateway: authenticated HTTP client to the blob-store service
//   - BlobStore: interface for blob operations (MinIO)
//
// # Example Usage
//
//	service, err := memecat.NewCatalogService(repo, gw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Upload an object and synchronize its catalog record
//	meme, err := service.Create(ctx, "shark.jpg", file, "a shark")
//
//	// Point lookup by catalog id
//	meme, err = service.Get(ctx, 1)
//
// See the http package for the REST APIs and the database packages for
// catalog backend implementations.
package memecat
