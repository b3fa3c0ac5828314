// Package execsim is the stand-in order-execution engine. Every buy succeeds
// and produces a synthetic receipt; nothing touches a wallet or a chain.
package execsim

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Receipt is the fake trade record. It is logged, never persisted; only the
// symbol goes to the trade ledger.
type Receipt struct {
	ID        string          `json:"id"`
	Token     string          `json:"token"`
	Amount    float64         `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
}

// PriceFunc supplies the synthetic per-token price. Injectable so tests pin a
// deterministic value and so a live quote source can replace the default.
type PriceFunc func(ctx context.Context, token string) decimal.Decimal

// RandomPrice returns prices uniformly in [0.01, 5.00), rounded to 4 places.
func RandomPrice(_ context.Context, _ string) decimal.Decimal {
	p := 0.01 + rand.Float64()*(5.00-0.01)
	return decimal.NewFromFloat(p).Round(4)
}

// Stub simulates buys.
type Stub struct {
	price PriceFunc
	log   *zap.Logger
}

func NewStub(price PriceFunc, log *zap.Logger) *Stub {
	if price == nil {
		price = RandomPrice
	}
	return &Stub{price: price, log: log.Named("execsim")}
}

// Buy produces a receipt with total_cost = amount * price. The error return
// exists for whatever real engine replaces this; the stub never fails.
func (s *Stub) Buy(ctx context.Context, token string, amount float64) (Receipt, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	price := s.price(ctx, token)
	total := price.Mul(decimal.NewFromFloat(amount)).Round(4)

	r := Receipt{
		ID:        ulid.Make().String(),
		Token:     token,
		Amount:    amount,
		Price:     price,
		TotalCost: total,
		Timestamp: time.Now().UTC(),
		Status:    "success",
	}
	s.log.Info("simulated buy",
		zap.String("receipt_id", r.ID),
		zap.String("token", token),
		zap.Float64("amount", amount),
		zap.String("price", price.String()),
		zap.String("total_cost", total.String()))
	return r, nil
}
