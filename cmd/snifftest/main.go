// Command snifftest runs one manual fetch against BirdEye and prints what
// came back. Handy for checking the API key and the tokenlist filters without
// starting the bot.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ashborn/internal/config"
	"ashborn/internal/sniffer"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	src := sniffer.NewBirdeyeSource(sniffer.BirdeyeConfig{
		BaseURL:            cfg.Birdeye.BaseURL,
		Chain:              cfg.Birdeye.Chain,
		APIKey:             cfg.BirdeyeAPIKey,
		RateLimitPerMinute: cfg.Birdeye.RateLimitPerMinute,
		TimeoutSeconds:     cfg.Birdeye.TimeoutSeconds,
		MinMarketCapUSD:    cfg.Birdeye.MinMarketCapUSD,
		MinLiquidityUSD:    cfg.Birdeye.MinLiquidityUSD,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Fetching top tokens from BirdEye...")
	tokens, err := src.TokenList(ctx, 5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokenlist fetch failed: %v\n", err)
		os.Exit(1)
	}
	if len(tokens) == 0 {
		fmt.Println("no tokens returned")
		os.Exit(1)
	}
	for _, t := range tokens {
		price, err := src.Price(ctx, t.Address)
		if err != nil {
			fmt.Printf("  %-10s %-24s vol=%.0f price=?  (%v)\n", t.Symbol, t.Address, t.Volume24hUSD, err)
			continue
		}
		fmt.Printf("  %-10s %-24s vol=%.0f price=%.6f\n", t.Symbol, t.Address, t.Volume24hUSD, price)
	}

	lookback := time.Duration(cfg.Sniffer.LookbackMinutes) * time.Minute
	fmt.Printf("Fetching tokens updated in the last %s...\n", lookback)
	fresh, err := src.FetchRecent(ctx, lookback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recent fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d fresh token(s)\n", len(fresh))
	for _, l := range fresh {
		fmt.Printf("  [NEW] %s – %s | %s  (%s UTC)\n",
			l.Symbol, l.Name, l.Identifier, l.ObservedAt.Format(time.RFC3339))
	}
}
