package alpha

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/brain"
)

type captureDispatcher struct {
	commands []brain.Command
}

func (c *captureDispatcher) Handle(_ context.Context, cmd brain.Command) {
	c.commands = append(c.commands, cmd)
}

func TestDrainerPromotesEventToBuy(t *testing.T) {
	q := NewQueue()
	disp := &captureDispatcher{}
	d := NewDrainer(q, disp, 0.20, time.Second, zap.NewNop())

	q.Push(NewEvent("FOO", "Foo Coin", time.Now().UTC()))
	d.Tick(context.Background())

	if len(disp.commands) != 1 {
		t.Fatalf("want 1 promoted command, got %d", len(disp.commands))
	}
	cmd := disp.commands[0]
	if cmd.Action != brain.Buy || cmd.Token != "FOO" {
		t.Fatalf("want BUY FOO, got %s %s", cmd.Action, cmd.Token)
	}
	if cmd.Amount == nil || *cmd.Amount != 0.20 {
		t.Fatalf("want default snipe size 0.20, got %v", cmd.Amount)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty after drain")
	}
}

func TestDrainerDropsDuplicateKey(t *testing.T) {
	q := NewQueue()
	disp := &captureDispatcher{}
	d := NewDrainer(q, disp, 0.20, time.Second, zap.NewNop())

	ts := time.Now().UTC()
	ev := NewEvent("FOO", "Foo Coin", ts)
	q.Push(ev)
	q.Push(ev) // re-delivered with identical (symbol, enqueued_at)
	d.Tick(context.Background())

	if len(disp.commands) != 1 {
		t.Fatalf("identical (symbol, timestamp) should promote once, got %d", len(disp.commands))
	}

	// Re-delivery across a later tick is also suppressed.
	q.Push(ev)
	d.Tick(context.Background())
	if len(disp.commands) != 1 {
		t.Fatalf("re-delivery across ticks should be suppressed, got %d", len(disp.commands))
	}

	// Same symbol with a different timestamp is not a duplicate at this layer.
	q.Push(NewEvent("FOO", "Foo Coin", ts.Add(time.Second)))
	d.Tick(context.Background())
	if len(disp.commands) != 2 {
		t.Fatalf("different timestamp should promote, got %d commands", len(disp.commands))
	}
}

func TestDrainerEmptyQueueTickIsNoop(t *testing.T) {
	q := NewQueue()
	disp := &captureDispatcher{}
	d := NewDrainer(q, disp, 0.20, time.Second, zap.NewNop())

	d.Tick(context.Background())
	if len(disp.commands) != 0 {
		t.Fatalf("empty queue tick should promote nothing")
	}
}
