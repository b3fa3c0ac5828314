package alpha

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/brain"
	"ashborn/internal/observ"
)

// Dispatcher is the sink for promoted buy commands; satisfied by brain.Brain.
type Dispatcher interface {
	Handle(ctx context.Context, cmd brain.Command)
}

// Drainer is the single consumer of the alpha queue. On every tick it drains
// the whole queue and promotes each not-yet-seen event into a BUY command.
//
// The (symbol, enqueue-time) seen set is a second dedup layer on top of the
// producer-side identifier filter: the producer catches the same token showing
// up across polls, this one catches re-delivery of an already queued event
// from another path. Neither replaces the other.
type Drainer struct {
	queue     *Queue
	disp      Dispatcher
	snipeSize float64
	interval  time.Duration
	log       *zap.Logger

	promoted map[string]struct{} // single goroutine, no lock needed
}

func NewDrainer(queue *Queue, disp Dispatcher, snipeSize float64, interval time.Duration, log *zap.Logger) *Drainer {
	return &Drainer{
		queue:     queue,
		disp:      disp,
		snipeSize: snipeSize,
		interval:  interval,
		log:       log.Named("drainer"),
		promoted:  map[string]struct{}{},
	}
}

// Run ticks until ctx is cancelled. Each tick finishes its drain before the
// loop exits.
func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("alpha drain loop started", zap.Duration("interval", d.interval))
	for {
		select {
		case <-ctx.Done():
			d.log.Info("alpha drain loop stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick drains the queue once. Exported so tests and manual tools can step the
// loop without a ticker.
func (d *Drainer) Tick(ctx context.Context) {
	events := d.queue.Drain()
	for _, ev := range events {
		k := ev.key()
		if _, ok := d.promoted[k]; ok {
			observ.IncCounter("alpha_duplicates_dropped_total", nil)
			d.log.Debug("duplicate alpha event dropped",
				zap.String("symbol", ev.Symbol), zap.Time("enqueued_at", ev.EnqueuedAt))
			continue
		}
		d.promoted[k] = struct{}{}

		amount := d.snipeSize
		cmd := brain.Command{Action: brain.Buy, Token: ev.Symbol, Amount: &amount}
		d.log.Info("promoting alpha event to buy",
			zap.String("symbol", ev.Symbol),
			zap.String("name", ev.Name),
			zap.Float64("amount", amount))
		observ.IncCounter("alpha_events_promoted_total", nil)
		d.disp.Handle(ctx, cmd)
	}
}
