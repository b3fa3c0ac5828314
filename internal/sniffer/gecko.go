package sniffer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// GeckoConfig holds settings for the GeckoTerminal adapter.
type GeckoConfig struct {
	BaseURL        string
	Network        string
	Page           int
	TimeoutSeconds int
}

// GeckoSource polls GeckoTerminal's new-pools route. No API key required.
type GeckoSource struct {
	cfg        GeckoConfig
	httpClient *http.Client
	now        func() time.Time // swappable for tests
}

func NewGeckoSource(cfg GeckoConfig) *GeckoSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.geckoterminal.com"
	}
	if cfg.Network == "" {
		cfg.Network = "solana"
	}
	if cfg.Page <= 0 {
		cfg.Page = 1
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	return &GeckoSource{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}
}

func (g *GeckoSource) Name() string { return "geckoterminal" }

type geckoPoolsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name          string `json:"name"`
			PoolCreatedAt string `json:"pool_created_at"`
		} `json:"attributes"`
	} `json:"data"`
}

// FetchRecent returns pools created within lookback. The pool id is the dedup
// identifier; the base-side of the pair name becomes the symbol. Pools with a
// missing id, name, or creation time are skipped.
func (g *GeckoSource) FetchRecent(ctx context.Context, lookback time.Duration) ([]Listing, error) {
	u := fmt.Sprintf("%s/api/v2/networks/%s/new_pools?page=%s",
		g.cfg.BaseURL, g.cfg.Network, strconv.Itoa(g.cfg.Page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geckoterminal: request new_pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geckoterminal: new_pools returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geckoterminal: read new_pools: %w", err)
	}

	var pools geckoPoolsResponse
	if err := json.Unmarshal(body, &pools); err != nil {
		return nil, fmt.Errorf("geckoterminal: decode new_pools: %w", err)
	}

	now := g.now().UTC()
	var fresh []Listing
	for _, p := range pools.Data {
		if p.ID == "" || p.Attributes.Name == "" || p.Attributes.PoolCreatedAt == "" {
			continue
		}
		created, err := time.Parse(time.RFC3339, p.Attributes.PoolCreatedAt)
		if err != nil {
			continue
		}
		if now.Sub(created) > lookback {
			continue
		}
		fresh = append(fresh, Listing{
			Symbol:     pairBase(p.Attributes.Name),
			Name:       p.Attributes.Name,
			Identifier: p.ID,
			ObservedAt: created.UTC(),
		})
	}
	return fresh, nil
}

// pairBase extracts the base token symbol from a pair name like "WIF / SOL".
func pairBase(name string) string {
	base, _, _ := strings.Cut(name, "/")
	return strings.TrimSpace(base)
}
