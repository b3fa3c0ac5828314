package brain

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/execsim"
	"ashborn/internal/ledger"
	"ashborn/internal/observ"
)

// Executor places a buy. The simulated engine never fails, but the signature
// carries an error so a real engine can slot in without changing the
// ledger-write-after-success ordering below.
type Executor interface {
	Buy(ctx context.Context, token string, amount float64) (execsim.Receipt, error)
}

// Brain dispatches commands. Safe for concurrent use from multiple sources;
// the buy path serializes check-and-record per symbol so two concurrent
// triggers for the same token cannot both pass the ledger check.
type Brain struct {
	ledger     *ledger.Ledger
	exec       Executor
	defaultBuy float64
	log        *zap.Logger
	startedAt  time.Time

	mu    sync.Mutex
	symMu map[string]*sync.Mutex
}

func New(l *ledger.Ledger, exec Executor, defaultBuy float64, log *zap.Logger) *Brain {
	return &Brain{
		ledger:     l,
		exec:       exec,
		defaultBuy: defaultBuy,
		log:        log.Named("brain"),
		startedAt:  time.Now().UTC(),
		symMu:      map[string]*sync.Mutex{},
	}
}

// Handle routes one command. It never returns an error: failures are absorbed
// and logged, matching what every command source expects.
func (b *Brain) Handle(ctx context.Context, cmd Command) {
	observ.IncCounter("commands_total", map[string]string{"action": string(cmd.Action)})

	switch cmd.Action {
	case Buy:
		b.handleBuy(ctx, cmd)
	case Sell:
		// Accepted but not implemented yet.
		b.log.Info("sell requested, not implemented",
			zap.String("token", cmd.Token))
	case Status:
		b.logStatus()
	case Rebalance:
		b.log.Info("rebalance requested, nothing to do yet")
	default:
		b.log.Warn("no operation mapped for command", zap.String("action", string(cmd.Action)))
	}
}

func (b *Brain) handleBuy(ctx context.Context, cmd Command) {
	if cmd.Token == "" {
		b.log.Warn("buy command without token, ignoring")
		return
	}

	amount := b.defaultBuy
	if cmd.Amount != nil {
		amount = *cmd.Amount
	}

	lock := b.symbolLock(cmd.Token)
	lock.Lock()
	defer lock.Unlock()

	if b.ledger.Contains(cmd.Token) {
		b.log.Info("token already traded, skipping buy", zap.String("token", cmd.Token))
		observ.IncCounter("buys_skipped_total", nil)
		return
	}

	receipt, err := b.exec.Buy(ctx, cmd.Token, amount)
	if err != nil {
		b.log.Error("buy failed", zap.String("token", cmd.Token), zap.Error(err))
		return
	}

	// Ledger write only after a reported-successful execution.
	if err := b.ledger.Record(receipt.Token); err != nil {
		b.log.Error("ledger record failed", zap.String("token", receipt.Token), zap.Error(err))
		return
	}

	observ.IncCounter("buys_executed_total", nil)
	b.log.Info("buy recorded",
		zap.String("receipt_id", receipt.ID),
		zap.String("token", receipt.Token),
		zap.Float64("amount", receipt.Amount),
		zap.String("price", receipt.Price.String()),
		zap.String("total_cost", receipt.TotalCost.String()))
}

func (b *Brain) logStatus() {
	counters := observ.Counters()
	b.log.Info("bot status",
		zap.Duration("uptime", time.Since(b.startedAt)),
		zap.Int("symbols_traded", b.ledger.Size()),
		zap.Any("counters", counters))
}

func (b *Brain) symbolLock(symbol string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.symMu[symbol]
	if !ok {
		m = &sync.Mutex{}
		b.symMu[symbol] = m
	}
	return m
}
