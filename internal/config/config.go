package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Birdeye struct {
	BaseURL            string  `yaml:"base_url"`
	Chain              string  `yaml:"chain"`
	RateLimitPerMinute int     `yaml:"rate_limit_per_minute"`
	TimeoutSeconds     int     `yaml:"timeout_seconds"`
	MinMarketCapUSD    float64 `yaml:"min_market_cap_usd"`
	MinLiquidityUSD    float64 `yaml:"min_liquidity_usd"`
}

type Gecko struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	Network        string `yaml:"network"`
	Page           int    `yaml:"page"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Sniffer struct {
	ScanIntervalSeconds int    `yaml:"scan_interval_seconds"`
	LookbackMinutes     int    `yaml:"lookback_minutes"`
	DiscoveryLogPath    string `yaml:"discovery_log_path"`
}

type Alpha struct {
	DrainIntervalSeconds int     `yaml:"drain_interval_seconds"`
	SnipeSizeSOL         float64 `yaml:"snipe_size_sol"`
}

type CommandFile struct {
	Path                string `yaml:"path"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

type Telegram struct {
	BotToken         string `yaml:"-"` // env only, never from file
	ChatID           int64  `yaml:"-"`
	ReconnectSeconds int    `yaml:"reconnect_seconds"`
}

type Root struct {
	BotName     string      `yaml:"bot_name"`
	LogLevel    string      `yaml:"log_level"`
	LedgerPath  string      `yaml:"ledger_path"`
	Birdeye     Birdeye     `yaml:"birdeye"`
	Gecko       Gecko       `yaml:"gecko"`
	Sniffer     Sniffer     `yaml:"sniffer"`
	Alpha       Alpha       `yaml:"alpha"`
	CommandFile CommandFile `yaml:"command_file"`
	Telegram    Telegram    `yaml:"telegram"`

	BirdeyeAPIKey string `yaml:"-"` // env only
}

// Load reads the YAML config (the file is optional), fills defaults, then
// overlays environment variables. A .env file in the working directory is
// loaded first if present; real environment wins over .env.
func Load(path string) (Root, error) {
	var c Root
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, err
			}
		} else if !os.IsNotExist(err) {
			return c, err
		}
	}

	if c.BotName == "" {
		c.BotName = "AshBorn"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LedgerPath == "" {
		c.LedgerPath = "data/trades.txt"
	}
	if c.Birdeye.BaseURL == "" {
		c.Birdeye.BaseURL = "https://public-api.birdeye.so"
	}
	if c.Birdeye.Chain == "" {
		c.Birdeye.Chain = "solana"
	}
	if c.Birdeye.RateLimitPerMinute == 0 {
		c.Birdeye.RateLimitPerMinute = 30
	}
	if c.Birdeye.TimeoutSeconds == 0 {
		c.Birdeye.TimeoutSeconds = 10
	}
	if c.Birdeye.MinMarketCapUSD == 0 {
		c.Birdeye.MinMarketCapUSD = 10_000
	}
	if c.Birdeye.MinLiquidityUSD == 0 {
		c.Birdeye.MinLiquidityUSD = 10_000
	}
	if c.Gecko.BaseURL == "" {
		c.Gecko.BaseURL = "https://api.geckoterminal.com"
	}
	if c.Gecko.Network == "" {
		c.Gecko.Network = "solana"
	}
	if c.Gecko.Page == 0 {
		c.Gecko.Page = 1
	}
	if c.Gecko.TimeoutSeconds == 0 {
		c.Gecko.TimeoutSeconds = 10
	}
	if c.Sniffer.ScanIntervalSeconds == 0 {
		c.Sniffer.ScanIntervalSeconds = 60
	}
	if c.Sniffer.LookbackMinutes == 0 {
		c.Sniffer.LookbackMinutes = 10
	}
	if c.Sniffer.DiscoveryLogPath == "" {
		c.Sniffer.DiscoveryLogPath = "data/new_tokens.txt"
	}
	if c.Alpha.DrainIntervalSeconds == 0 {
		c.Alpha.DrainIntervalSeconds = 5
	}
	if c.Alpha.SnipeSizeSOL == 0 {
		c.Alpha.SnipeSizeSOL = 0.20
	}
	if c.CommandFile.Path == "" {
		c.CommandFile.Path = "command.txt"
	}
	if c.CommandFile.PollIntervalSeconds == 0 {
		c.CommandFile.PollIntervalSeconds = 2
	}
	if c.Telegram.ReconnectSeconds == 0 {
		c.Telegram.ReconnectSeconds = 5
	}

	applyEnv(&c)
	return c, nil
}

// applyEnv overlays environment variables. Priority: ENV > .env file > yaml.
func applyEnv(c *Root) {
	_ = godotenv.Load()

	if v := os.Getenv("BOT_NAME"); v != "" {
		c.BotName = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BIRDEYE_API_KEY"); v != "" {
		c.BirdeyeAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
}
