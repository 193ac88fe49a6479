package updates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store serves aggregated updates from a directory of manifest files.
// Manifests are immutable once published, so concurrent readers need no
// locking; the directory is rescanned on every check so newly published
// files are picked up without a restart.
type Store struct {
	dir string
}

// NewStore creates a manifest store over a directory of *.json manifests.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// LoadManifests reads every manifest in the directory, sorted by version
// ascending. A malformed manifest file is an error: the directory is
// server-owned and a bad file there means a broken publish.
func (s *Store) LoadManifests() ([]Manifest, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	manifests := make([]Manifest, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening manifest %s: %w", filepath.Base(path), err)
		}
		m, err := ParseManifest(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", filepath.Base(path), err)
		}
		manifests = append(manifests, *m)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].LatestVersion < manifests[j].LatestVersion
	})
	return manifests, nil
}

// Check aggregates every manifest strictly newer than currentVersion into
// one response: changes concatenated in version order, descriptions joined
// with semicolons, and a byte-size hint from the serialized changes. A
// client at (or past) the latest version, or an empty store, gets an
// explicit no-updates response.
func (s *Store) Check(currentVersion int) (*CheckResponse, error) {
	manifests, err := s.LoadManifests()
	if err != nil {
		return nil, err
	}

	resp := &CheckResponse{
		LatestVersion:  currentVersion,
		CurrentVersion: currentVersion,
		Changes:        []ChangeDirective{},
	}

	var descriptions []string
	for _, m := range manifests {
		if m.LatestVersion > resp.LatestVersion {
			resp.LatestVersion = m.LatestVersion
		}
		if m.LatestVersion <= currentVersion {
			continue
		}
		resp.Changes = append(resp.Changes, m.Changes...)
		if m.Description != "" {
			descriptions = append(descriptions, m.Description)
		}
	}

	if len(resp.Changes) == 0 && resp.LatestVersion == currentVersion {
		return resp, nil
	}

	resp.HasUpdates = resp.LatestVersion > currentVersion
	resp.Description = strings.Join(descriptions, "; ")

	payload, err := json.Marshal(resp.Changes)
	if err != nil {
		return nil, err
	}
	resp.UpdateSizeBytes = len(payload)

	return resp, nil
}
