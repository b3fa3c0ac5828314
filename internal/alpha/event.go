// Package alpha holds the alpha-event pipeline: the queue of freshly
// discovered tokens, the dedup layers around it, and the drain loop that
// promotes queued events into buy commands.
package alpha

import (
	"fmt"
	"strings"
	"time"
)

// Event is a pending notification that a new token was discovered and has not
// been acted on yet.
type Event struct {
	Symbol     string
	Name       string
	EnqueuedAt time.Time
}

// NewEvent normalizes the symbol to uppercase and stamps the enqueue time.
func NewEvent(symbol, name string, now time.Time) Event {
	return Event{
		Symbol:     strings.ToUpper(strings.TrimSpace(symbol)),
		Name:       name,
		EnqueuedAt: now,
	}
}

// key identifies an event for consumer-side dedup. Two events are duplicates
// only when both symbol and enqueue time match exactly; same-symbol events
// with different timestamps pass through.
func (e Event) key() string {
	return fmt.Sprintf("%s|%d", e.Symbol, e.EnqueuedAt.UnixNano())
}
