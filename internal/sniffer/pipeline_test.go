package sniffer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ashborn/internal/alpha"
	"ashborn/internal/brain"
	"ashborn/internal/execsim"
	"ashborn/internal/ledger"
)

// End-to-end pass through the pipeline: listing -> dedup -> queue -> drain ->
// dispatch -> execution -> ledger.
func TestListingBecomesRecordedBuy(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop()

	book, err := ledger.Open(filepath.Join(dir, "trades.txt"))
	require.NoError(t, err)

	pinned := func(context.Context, string) decimal.Decimal {
		return decimal.NewFromFloat(2.5)
	}
	mind := brain.New(book, execsim.NewStub(pinned, log), 0.20, log)

	queue := alpha.NewQueue()
	drainer := alpha.NewDrainer(queue, mind, 0.20, time.Second, log)

	src := &stubSource{name: "stub", listings: []Listing{
		{Symbol: "FOO", Name: "Foo Coin", Identifier: "addr1", ObservedAt: time.Now().UTC()},
	}}
	w := NewWatcher([]Source{src}, alpha.NewDedupFilter(), queue,
		NewDiscoveryLog(filepath.Join(dir, "new_tokens.txt")), 10*time.Minute, time.Minute, log)

	ctx := context.Background()
	w.Scan(ctx)
	drainer.Tick(ctx)

	assert.True(t, book.Contains("FOO"), "drained event must end up in the ledger")

	// The same listing on later polls never produces a second buy, and a
	// manual buy for the same symbol is refused by the ledger.
	w.Scan(ctx)
	drainer.Tick(ctx)
	mind.Handle(ctx, brain.Parse("buy FOO 1.0"))

	reloaded, err := ledger.Open(filepath.Join(dir, "trades.txt"))
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Size(), "exactly one ledger line for FOO")
}
