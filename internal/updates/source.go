package updates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPSource fetches update manifests from a remote update server exposing
// the /api/updates boundary.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source against a server base URL such as
// "https://updates.example.com".
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Check implements Source.
func (s *HTTPSource) Check(currentVersion int) (*CheckResponse, error) {
	url := fmt.Sprintf("%s/api/updates?current_version=%d", s.baseURL, currentVersion)

	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update server returned status %d", resp.StatusCode)
	}

	var check CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		return nil, fmt.Errorf("decoding update response: %w", err)
	}
	if check.Changes == nil {
		check.Changes = []ChangeDirective{}
	}
	return &check, nil
}
