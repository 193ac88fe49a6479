//go:build !sqlite_fts5

package database

// The verse search index is an FTS5 virtual table, and mattn/go-sqlite3
// only compiles the FTS5 extension in when the sqlite_fts5 build tag is
// set. Without it every store open fails at schema setup with
// "no such module: fts5", so the tag is required rather than optional.
//
// Build with: go build -tags sqlite_fts5
// Test with:  go test -tags sqlite_fts5 ./...
func init() {
	theSqliteFts5BuildTagIsRequired()
}
