package family

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// defaultRegistryTimeout bounds a single registry lookup. The registry sits
// on the critical path of distribution calculation, so a hung call must not
// hold the request open indefinitely.
const defaultRegistryTimeout = 10 * time.Second

// RegistryConfig configures the civil registry client.
type RegistryConfig struct {
	// BaseURL of the registry API, e.g. https://registry.example.go.ke.
	BaseURL string

	// Token is the bearer credential for the registry API. Empty for
	// deployments where the registry sits inside a trusted network.
	Token string

	// Timeout per lookup; zero means defaultRegistryTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, for tests.
	HTTPClient *http.Client
}

// Registry is a Provider backed by the civil registry's HTTP API. One
// lookup per call, no client-side caching; wrap it in Cached for that.
type Registry struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewRegistry builds a registry client from the given configuration.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registry base URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRegistryTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Registry{
		http:    client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
	}, nil
}

// FamilyStructure fetches the family tree of the deceased as recorded by
// the registry. Unknown persons map to sentinel.ErrNotFound so callers
// treat the registry and the fixture provider uniformly.
func (r *Registry) FamilyStructure(ctx context.Context, deceasedID id.PersonID) (*FamilyStructure, error) {
	url := fmt.Sprintf("%s/v1/families/%s", r.baseURL, deceasedID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("family registry lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("family structure for %s: %w", deceasedID, sentinel.ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("family registry returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var structure FamilyStructure
	if err := json.NewDecoder(resp.Body).Decode(&structure); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	if err := structure.Validate(); err != nil {
		return nil, fmt.Errorf("registry returned inconsistent structure: %w", err)
	}
	return &structure, nil
}
