package sniffer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/alpha"
)

type stubSource struct {
	name     string
	listings []Listing
	err      error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) FetchRecent(context.Context, time.Duration) ([]Listing, error) {
	return s.listings, s.err
}

func newTestWatcher(t *testing.T, sources ...Source) (*Watcher, *alpha.Queue, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "new_tokens.txt")
	queue := alpha.NewQueue()
	w := NewWatcher(sources, alpha.NewDedupFilter(), queue,
		NewDiscoveryLog(logPath), 10*time.Minute, time.Minute, zap.NewNop())
	return w, queue, logPath
}

func TestScanQueuesFreshListingOnce(t *testing.T) {
	observed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	src := &stubSource{name: "stub", listings: []Listing{
		{Symbol: "FOO", Name: "Foo Coin", Identifier: "addr1", ObservedAt: observed},
	}}
	w, queue, logPath := newTestWatcher(t, src)

	w.Scan(context.Background())
	// A second poll cycle returns the same listing; it must not re-announce.
	w.Scan(context.Background())

	events := queue.Drain()
	if len(events) != 1 {
		t.Fatalf("want exactly one queued event, got %d", len(events))
	}
	if events[0].Symbol != "FOO" || events[0].Name != "Foo Coin" {
		t.Fatalf("unexpected event: %+v", events[0])
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("discovery log: %v", err)
	}
	want := "[NEW] FOO – Foo Coin | addr1  (2026-08-31T12:00:00Z UTC)\n"
	if string(data) != want {
		t.Fatalf("discovery log mismatch:\nwant %q\ngot  %q", want, string(data))
	}
}

func TestScanSkipsIncompleteListings(t *testing.T) {
	src := &stubSource{name: "stub", listings: []Listing{
		{Symbol: "", Name: "No Symbol", Identifier: "addr1"},
		{Symbol: "NOID", Name: "No Identifier", Identifier: ""},
		{Symbol: "OK", Name: "Fine", Identifier: "addr2"},
	}}
	w, queue, _ := newTestWatcher(t, src)

	w.Scan(context.Background())

	events := queue.Drain()
	if len(events) != 1 || events[0].Symbol != "OK" {
		t.Fatalf("want only the complete listing queued, got %+v", events)
	}
}

func TestScanFailingSourceCostsOneEmptyCycle(t *testing.T) {
	bad := &stubSource{name: "bad", err: errors.New("connection timed out")}
	good := &stubSource{name: "good", listings: []Listing{
		{Symbol: "FOO", Name: "Foo", Identifier: "addr1"},
	}}
	w, queue, _ := newTestWatcher(t, bad, good)

	w.Scan(context.Background())

	events := queue.Drain()
	if len(events) != 1 {
		t.Fatalf("failing source must not block the others, got %d events", len(events))
	}
}

func TestDiscoveryLogAppends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sub", "new_tokens.txt")
	dlog := NewDiscoveryLog(logPath)

	for _, sym := range []string{"A", "B"} {
		err := dlog.Append(Listing{Symbol: sym, Name: sym, Identifier: sym + "1",
			ObservedAt: time.Unix(0, 0)})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(string(data)), "\n")); got != 2 {
		t.Fatalf("want 2 lines, got %d", got)
	}
}
