package sniffer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// BirdeyeConfig holds settings for the BirdEye adapter.
type BirdeyeConfig struct {
	BaseURL            string
	Chain              string
	APIKey             string // optional for the public updated-tokens route
	RateLimitPerMinute int
	TimeoutSeconds     int
	MinMarketCapUSD    float64
	MinLiquidityUSD    float64
}

// BirdeyeSource polls BirdEye for recently updated tokens. It also exposes
// the keyed tokenlist and price routes used by manual tooling and the
// live-price option of the execution stub.
type BirdeyeSource struct {
	cfg         BirdeyeConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	now         func() time.Time // swappable for tests
}

func NewBirdeyeSource(cfg BirdeyeConfig) *BirdeyeSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://public-api.birdeye.so"
	}
	if cfg.Chain == "" {
		cfg.Chain = "solana"
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 30
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	return &BirdeyeSource{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60), 1),
		now:         time.Now,
	}
}

func (b *BirdeyeSource) Name() string { return "birdeye" }

type birdeyeUpdatedResponse struct {
	Data []struct {
		Address     string `json:"address"`
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		UpdatedUnix int64  `json:"updated_unix"`
		CreatedUnix int64  `json:"created_unix"`
	} `json:"data"`
}

// FetchRecent returns tokens whose metadata updated within lookback. Records
// missing an address, symbol, or timestamp are skipped; the age boundary is
// inclusive.
func (b *BirdeyeSource) FetchRecent(ctx context.Context, lookback time.Duration) ([]Listing, error) {
	now := b.now().UTC()
	cutoff := now.Add(-lookback)

	params := url.Values{"time": {strconv.FormatInt(cutoff.Unix(), 10)}}
	body, err := b.get(ctx, "/public/token/updated", params)
	if err != nil {
		return nil, err
	}

	var resp birdeyeUpdatedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("birdeye: decode updated tokens: %w", err)
	}

	var fresh []Listing
	for _, item := range resp.Data {
		ts := item.UpdatedUnix
		if ts == 0 {
			ts = item.CreatedUnix
		}
		if item.Address == "" || item.Symbol == "" || ts == 0 {
			continue
		}
		observed := time.Unix(ts, 0).UTC()
		if now.Sub(observed) > lookback {
			continue
		}
		name := item.Name
		if name == "" {
			name = item.Symbol
		}
		fresh = append(fresh, Listing{
			Symbol:     item.Symbol,
			Name:       name,
			Identifier: item.Address,
			ObservedAt: observed,
		})
	}
	return fresh, nil
}

// Token is one entry from the keyed tokenlist route.
type Token struct {
	Address      string  `json:"address"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	MarketCap    float64 `json:"mc"`
	Liquidity    float64 `json:"liquidity"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
}

type birdeyeTokenListResponse struct {
	Data struct {
		Tokens []Token `json:"tokens"`
	} `json:"data"`
}

// TokenList fetches the chain tokenlist, drops thin tokens below the market
// cap and liquidity floors, and returns the top entries by 24h volume.
func (b *BirdeyeSource) TokenList(ctx context.Context, limit int) ([]Token, error) {
	params := url.Values{"chain": {b.cfg.Chain}}
	body, err := b.get(ctx, "/defi/tokenlist", params)
	if err != nil {
		return nil, err
	}

	var resp birdeyeTokenListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("birdeye: decode tokenlist: %w", err)
	}

	filtered := resp.Data.Tokens[:0:0]
	for _, t := range resp.Data.Tokens {
		if t.MarketCap > b.cfg.MinMarketCapUSD && t.Liquidity > b.cfg.MinLiquidityUSD {
			filtered = append(filtered, t)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Volume24hUSD > filtered[j].Volume24hUSD
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

type birdeyePriceResponse struct {
	Data struct {
		Value float64 `json:"value"`
	} `json:"data"`
}

// Price fetches the current price for a token address. Returns 0 with an
// error when the route fails.
func (b *BirdeyeSource) Price(ctx context.Context, address string) (float64, error) {
	params := url.Values{"address": {address}}
	body, err := b.get(ctx, "/defi/price", params)
	if err != nil {
		return 0, err
	}
	var resp birdeyePriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("birdeye: decode price: %w", err)
	}
	return resp.Data.Value, nil
}

func (b *BirdeyeSource) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-chain", b.cfg.Chain)
	if b.cfg.APIKey != "" {
		req.Header.Set("X-API-KEY", b.cfg.APIKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("birdeye: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("birdeye: %s returned HTTP %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("birdeye: read %s: %w", path, err)
	}
	return body, nil
}
