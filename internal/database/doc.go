// Package database owns the embedded SQLite store: schema migration, the
// full-text shadow index over verses, and the read API shared by the build
// pipeline, the update client and the annotation repositories.
//
// # Layout
//
// The package itself handles store-wide concerns (open, migrate, FTS,
// corpus reads). Mutable per-user aggregates each get a repository
// subpackage:
//
//   - highlights: versioned highlight rows with tombstoned deletes
//   - notes:      versioned notes with tag links
//   - tags:       per-user tag management
//   - settings:   metadata key-value rows, including the update marker
//
// # Building
//
// The search index uses SQLite's FTS5 extension, which mattn/go-sqlite3
// only includes behind a build tag. Build and test with:
//
//	go build -tags sqlite_fts5
//	go test -tags sqlite_fts5 ./...
//
// A build without the tag is rejected at compile time (see fts_tag.go).
//
// # Usage
//
//	db, err := database.NewDatabase("./corpus.db")
//	hits, err := db.SearchVerses("beginning", 20)
package database
