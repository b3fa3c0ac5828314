package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"ashborn/internal/alpha"
	"ashborn/internal/brain"
	"ashborn/internal/cmdfile"
	"ashborn/internal/config"
	"ashborn/internal/execsim"
	"ashborn/internal/ledger"
	"ashborn/internal/observ"
	"ashborn/internal/sniffer"
	"ashborn/internal/telegram"
)

func main() {
	cfgPath := os.Getenv("BOT_CONFIG")
	if cfgPath == "" {
		cfgPath = "bot.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := observ.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	banner := color.New(color.FgHiMagenta, color.Bold)
	banner.Printf("[%s] is waking up at %s\n", cfg.BotName, time.Now().UTC().Format(time.RFC3339))

	book, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		log.Fatal("ledger load failed", zap.String("path", cfg.LedgerPath), zap.Error(err))
	}
	log.Info("trade ledger loaded",
		zap.String("path", cfg.LedgerPath),
		zap.Int("symbols", book.Size()))

	stub := execsim.NewStub(execsim.RandomPrice, log)
	mind := brain.New(book, stub, cfg.Alpha.SnipeSizeSOL, log)

	queue := alpha.NewQueue()
	filter := alpha.NewDedupFilter()
	drainer := alpha.NewDrainer(queue, mind, cfg.Alpha.SnipeSizeSOL,
		time.Duration(cfg.Alpha.DrainIntervalSeconds)*time.Second, log)

	sources := []sniffer.Source{
		sniffer.NewBirdeyeSource(sniffer.BirdeyeConfig{
			BaseURL:            cfg.Birdeye.BaseURL,
			Chain:              cfg.Birdeye.Chain,
			APIKey:             cfg.BirdeyeAPIKey,
			RateLimitPerMinute: cfg.Birdeye.RateLimitPerMinute,
			TimeoutSeconds:     cfg.Birdeye.TimeoutSeconds,
			MinMarketCapUSD:    cfg.Birdeye.MinMarketCapUSD,
			MinLiquidityUSD:    cfg.Birdeye.MinLiquidityUSD,
		}),
	}
	if cfg.Gecko.Enabled {
		sources = append(sources, sniffer.NewGeckoSource(sniffer.GeckoConfig{
			BaseURL:        cfg.Gecko.BaseURL,
			Network:        cfg.Gecko.Network,
			Page:           cfg.Gecko.Page,
			TimeoutSeconds: cfg.Gecko.TimeoutSeconds,
		}))
	}

	watcher := sniffer.NewWatcher(sources, filter, queue,
		sniffer.NewDiscoveryLog(cfg.Sniffer.DiscoveryLogPath),
		time.Duration(cfg.Sniffer.LookbackMinutes)*time.Minute,
		time.Duration(cfg.Sniffer.ScanIntervalSeconds)*time.Second, log)

	fileWatcher := cmdfile.NewWatcher(cfg.CommandFile.Path,
		time.Duration(cfg.CommandFile.PollIntervalSeconds)*time.Second, mind, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	var wg sync.WaitGroup
	run := func(f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	run(watcher.Run)
	run(drainer.Run)
	run(fileWatcher.Run)

	if cfg.Telegram.BotToken != "" {
		tg, err := telegram.New(cfg.BotName, cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			time.Duration(cfg.Telegram.ReconnectSeconds)*time.Second, mind, log)
		if err != nil {
			log.Error("telegram front end disabled", zap.Error(err))
		} else {
			run(tg.Run)
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram front end disabled")
	}

	wg.Wait()
	log.Info("all loops stopped, shut down complete")
}
