// Package registry talks to the model registry's metadata API.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Sentinel errors for registry lookups. Use errors.Is() to check for them.
var (
	// ErrUnreachable indicates a transport-level failure before any
	// response was received.
	ErrUnreachable = errors.New("registry: unreachable")

	// ErrMalformedResponse indicates the registry body does not match the
	// expected contract (undecodable, or missing modelVersions).
	ErrMalformedResponse = errors.New("registry: malformed response")

	// ErrVersionNotFound indicates the requested version id is absent from
	// the model's version list.
	ErrVersionNotFound = errors.New("registry: version not found")
)

// StatusError is returned when the registry answers with a non-success
// HTTP status. It carries the status for diagnostics.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "registry: unexpected status " + strconv.Itoa(e.Status)
}

// Client resolves model metadata over HTTP. It never caches and never
// retries; every lookup is a fresh round trip. Metadata lookups are
// unauthenticated; only asset downloads carry the bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a registry client on top of an injected HTTP client.
// The baseURL is normalized by removing trailing slashes.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Versions fetches the model's full version list from
// {base}/models/{modelID}.
func (c *Client) Versions(ctx context.Context, modelID int) ([]VersionRecord, error) {
	url := fmt.Sprintf("%s/models/%d", c.baseURL, modelID)
	c.log.Debug().Str("url", url).Int("model_id", modelID).Msg("fetching model metadata")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching model %d: %v: %w", modelID, err, ErrUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var m wireModel
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing model %d: %w", modelID, ErrMalformedResponse)
	}
	if m.ModelVersions == nil {
		return nil, fmt.Errorf("model %d: missing modelVersions: %w", modelID, ErrMalformedResponse)
	}

	records := make([]VersionRecord, 0, len(m.ModelVersions))
	for _, v := range m.ModelVersions {
		records = append(records, v.record())
	}
	return records, nil
}

// Version selects the record whose id equals versionID from the model's
// version list. Returns ErrVersionNotFound when no entry matches.
func (c *Client) Version(ctx context.Context, modelID, versionID int) (VersionRecord, error) {
	records, err := c.Versions(ctx, modelID)
	if err != nil {
		return VersionRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == versionID {
			c.log.Debug().
				Int("version_id", versionID).
				Int("files", len(rec.Files)).
				Msg("selected version")
			return rec, nil
		}
	}
	return VersionRecord{}, fmt.Errorf("model %d version %d: %w", modelID, versionID, ErrVersionNotFound)
}
