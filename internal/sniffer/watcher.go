package sniffer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/alpha"
	"ashborn/internal/observ"
)

// Watcher is the producer side of the alpha pipeline. On every scan it asks
// each source for fresh listings, drops anything already seen this session,
// logs the discovery, and queues an alpha event.
type Watcher struct {
	sources  []Source
	filter   *alpha.DedupFilter
	queue    *alpha.Queue
	dlog     *DiscoveryLog
	lookback time.Duration
	interval time.Duration
	log      *zap.Logger
}

func NewWatcher(sources []Source, filter *alpha.DedupFilter, queue *alpha.Queue,
	dlog *DiscoveryLog, lookback, interval time.Duration, log *zap.Logger) *Watcher {
	return &Watcher{
		sources:  sources,
		filter:   filter,
		queue:    queue,
		dlog:     dlog,
		lookback: lookback,
		interval: interval,
		log:      log.Named("sniffer"),
	}
}

// Run scans immediately, then on every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.log.Info("sniffer started",
		zap.Duration("interval", w.interval),
		zap.Duration("lookback", w.lookback))

	w.Scan(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("sniffer stopped")
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan polls every source once. Upstream failures cost one empty cycle for
// that source and nothing more.
func (w *Watcher) Scan(ctx context.Context) {
	for _, src := range w.sources {
		listings, err := src.FetchRecent(ctx, w.lookback)
		if err != nil {
			observ.IncCounter("sniffer_fetch_errors_total", map[string]string{"source": src.Name()})
			w.log.Error("fetch failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}

		fresh := 0
		for _, l := range listings {
			if l.Symbol == "" || l.Identifier == "" {
				continue
			}
			if !w.filter.Admit(l.Identifier) {
				continue
			}
			fresh++
			observ.IncCounter("tokens_discovered_total", map[string]string{"source": src.Name()})
			w.log.Info("new token detected",
				zap.String("source", src.Name()),
				zap.String("symbol", l.Symbol),
				zap.String("name", l.Name),
				zap.String("identifier", l.Identifier))
			if err := w.dlog.Append(l); err != nil {
				w.log.Warn("discovery log write failed", zap.Error(err))
			}
			w.queue.Push(alpha.NewEvent(l.Symbol, l.Name, time.Now().UTC()))
		}
		w.log.Debug("scan complete",
			zap.String("source", src.Name()),
			zap.Int("returned", len(listings)),
			zap.Int("fresh", fresh))
	}
}
