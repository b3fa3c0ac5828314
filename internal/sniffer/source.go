// Package sniffer watches upstream listing providers for freshly created
// tokens and pools and feeds them into the alpha queue.
package sniffer

import (
	"context"
	"time"
)

// Listing is one normalized record from a listing provider. Identifier is the
// provider's stable dedup key (mint address for BirdEye, pool id for
// GeckoTerminal).
type Listing struct {
	Symbol     string
	Name       string
	Identifier string
	ObservedAt time.Time
}

// Source is a provider of recently created or updated listings. FetchRecent
// returns records no older than lookback; the poll loop treats an error as an
// empty cycle, so implementations just report what went wrong.
type Source interface {
	Name() string
	FetchRecent(ctx context.Context, lookback time.Duration) ([]Listing, error)
}
