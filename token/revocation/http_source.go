package revocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/informesapp/go-auth-core/internal/errors"
)

// RevokedListPath is the issuer endpoint serving the full revoked set.
// The full-snapshot encoding is the only wire contract the sync protocol
// depends on.
const RevokedListPath = "/auth/revoked"

const sourceTimeout = 5 * time.Second

// RevokedList is the wire form of the issuer's snapshot endpoint.
type RevokedList struct {
	TokenIDs []string `json:"token_ids"`
}

// HTTPSource fetches the revoked set from the issuing service. The
// client carries a timeout so a hung issuer cannot starve the sync loop.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

var _ Source = (*HTTPSource)(nil)

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: sourceTimeout},
	}
}

func (s *HTTPSource) FetchRevoked(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+RevokedListPath, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "revocation.HTTPSource build request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "revocation.HTTPSource fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("revocation.HTTPSource unexpected status %d", resp.StatusCode)
	}

	var list RevokedList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.Wrapf(err, "revocation.HTTPSource decode")
	}
	return list.TokenIDs, nil
}
