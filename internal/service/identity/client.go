package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/userhub/admin-api/pkg/logger"
)

// Info is the enrichment payload returned by the external identity service.
type Info struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// Client looks up identity details for a login. Lookups are fallible by
// contract: callers must degrade gracefully when the service is down.
type Client interface {
	Lookup(ctx context.Context, login string) (*Info, error)
}

type httpClient struct {
	baseURL string
	hc      *http.Client
	cache   *gocache.Cache
	logger  *logger.Logger
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func NewHTTPClient(cfg Config, log *logger.Logger) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		hc:      &http.Client{Timeout: cfg.Timeout},
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:  log,
	}
}

func (c *httpClient) Lookup(ctx context.Context, login string) (*Info, error) {
	if cached, ok := c.cache.Get(login); ok {
		return cached.(*Info), nil
	}

	endpoint := fmt.Sprintf("%s/identities/%s", c.baseURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	c.cache.SetDefault(login, &info)
	return &info, nil
}
