// Package updates implements the corpus delta-update protocol: a
// server-side directory of immutable, versioned change manifests, and the
// client that applies aggregated changes transactionally before advancing
// its persisted version marker.
package updates

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// Directive operations
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeDirective is one row-level mutation. The transport treats it as
// opaque; the client interprets table/operation/where/data when applying.
// Insert directives are applied with insert-or-replace semantics so that a
// re-applied manifest is harmless; manifest authors must keep every
// directive idempotent.
type ChangeDirective struct {
	Table     string         `json:"table" validate:"required"`
	Operation string         `json:"operation" validate:"required,oneof=insert update delete"`
	Where     map[string]any `json:"where,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Manifest is one published update file. Immutable once published: the
// server only ever adds new files with higher versions.
type Manifest struct {
	LatestVersion int               `json:"latest_version" validate:"required,gt=0"`
	Description   string            `json:"description"`
	Changes       []ChangeDirective `json:"changes" validate:"dive"`
}

var validate = validator.New()

// ParseManifest decodes and validates one manifest file.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}

// CheckResponse is the aggregated answer to "what changed since version N".
// Changes is always present (an empty list, never a missing key) so
// callers never have to distinguish absence from emptiness.
type CheckResponse struct {
	LatestVersion   int               `json:"latest_version"`
	CurrentVersion  int               `json:"current_version"`
	HasUpdates      bool              `json:"has_updates"`
	Changes         []ChangeDirective `json:"changes"`
	UpdateSizeBytes int               `json:"update_size_bytes"`
	Description     string            `json:"description"`
}
