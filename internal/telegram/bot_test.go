package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ashborn/internal/brain"
)

type captureDispatcher struct {
	commands []brain.Command
}

func (c *captureDispatcher) Handle(_ context.Context, cmd brain.Command) {
	c.commands = append(c.commands, cmd)
}

func newTestBot(t *testing.T) (*Bot, *captureDispatcher) {
	t.Helper()
	disp := &captureDispatcher{}
	b, err := New("AshBorn", "123:test-token", 42, time.Second, disp, zap.NewNop())
	require.NoError(t, err)
	return b, disp
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New("AshBorn", "", 42, time.Second, &captureDispatcher{}, zap.NewNop())
	require.Error(t, err, "missing token must fail fast")
}

func TestUnauthorizedUserIsRefused(t *testing.T) {
	b, disp := newTestBot(t)

	reply, cmd := b.handleText(999, "buy SOL 5")

	assert.Nil(t, cmd, "dispatcher must never see commands from strangers")
	assert.Contains(t, reply, "not allowed")
	assert.Empty(t, disp.commands)
}

func TestUnknownCommandGetsUsageReply(t *testing.T) {
	b, _ := newTestBot(t)

	reply, cmd := b.handleText(42, "do something cool")

	assert.Nil(t, cmd)
	assert.Contains(t, reply, "Unknown command")
}

func TestAcceptedCommandIsAcknowledged(t *testing.T) {
	b, _ := newTestBot(t)

	reply, cmd := b.handleText(42, "buy SOL 0.2")

	require.NotNil(t, cmd)
	assert.Equal(t, brain.Buy, cmd.Action)
	assert.Equal(t, "SOL", cmd.Token)
	require.NotNil(t, cmd.Amount)
	assert.Equal(t, 0.2, *cmd.Amount)
	assert.Equal(t, "AshBorn accepted BUY SOL 0.2", reply)
}

func TestStatusAcknowledgement(t *testing.T) {
	b, _ := newTestBot(t)

	reply, cmd := b.handleText(42, "status")

	require.NotNil(t, cmd)
	assert.Equal(t, brain.Status, cmd.Action)
	assert.Equal(t, "AshBorn accepted STATUS", reply)
}
