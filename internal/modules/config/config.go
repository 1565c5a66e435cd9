package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	sourceChatENV     = "SOURCE_CHAT_ID"
	targetChatENV     = "TARGET_CHAT_ID"
	binanceKeyENV     = "BINANCE_API_KEY"
	binanceSecretENV  = "BINANCE_API_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token        string `yaml:"token"`
		SourceChatID int64  `yaml:"source_chat_id"`
		TargetChatID int64  `yaml:"target_chat_id"`
	} `yaml:"telegram"`

	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Testnet   bool   `yaml:"testnet"`
	} `yaml:"binance"`

	Trading struct {
		Enabled bool `yaml:"enabled"`
		// Fixed entry size in base asset; every entry uses it as-is.
		Quantity       float64  `yaml:"quantity"`
		Leverage       int      `yaml:"leverage"`
		PricePrecision int32    `yaml:"price_precision"`
		AllowSymbols   []string `yaml:"allow_symbols"`
		Workers        int      `yaml:"workers"`
		QueueSize      int      `yaml:"queue_size"`
	} `yaml:"trading"`

	Log struct {
		Dir        string `yaml:"dir"`
		MarkerPath string `yaml:"marker_path"`
		// Hour-of-day where the operational day rolls over (21 => the
		// trading day runs 21:00→21:00). 0 is plain midnight.
		CutoverHour int    `yaml:"cutover_hour"`
		Timezone    string `yaml:"timezone"`
	} `yaml:"log"`

	Dispatch struct {
		Times []string `yaml:"times"` // "HH:MM" in Log.Timezone
		// Durations come from env only (DISPATCH_POLL_INTERVAL,
		// POST_SEND_SLEEP); yaml.v2 has no duration decoding.
		PollInterval  time.Duration `yaml:"-"`
		PostSendSleep time.Duration `yaml:"-"`
	} `yaml:"dispatch"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {
	// Local runs keep credentials in .env; deployed runs use real env
	// vars and the file simply is not there.
	_ = godotenv.Load()

	config := Config{}
	config.Trading.Leverage = 10
	config.Trading.PricePrecision = 4
	config.Trading.Workers = 2
	config.Trading.QueueSize = 64
	config.Log.Dir = "logs"
	config.Log.CutoverHour = 21
	config.Log.Timezone = "America/Sao_Paulo"
	config.Dispatch.Times = []string{"09:00", "21:00"}
	config.Dispatch.PollInterval = 20 * time.Second
	config.Dispatch.PostSendSleep = 90 * time.Second
	config.Health.Addr = ":8080"
	config.Jaeger.Port = 6831

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	if file, err := os.Open("configs/" + configFileName); err == nil {
		decoder := yaml.NewDecoder(file)
		err = decoder.Decode(&config)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if id, ok := int64FromEnv(sourceChatENV); ok {
		config.Telegram.SourceChatID = id
	}
	if id, ok := int64FromEnv(targetChatENV); ok {
		config.Telegram.TargetChatID = id
	}
	if v := os.Getenv(binanceKeyENV); v != "" {
		config.Binance.APIKey = v
	}
	if v := os.Getenv(binanceSecretENV); v != "" {
		config.Binance.APISecret = v
	}
	config.Trading.Enabled = boolFromEnv("TRADING_ENABLED", config.Trading.Enabled)
	config.Trading.Quantity = floatFromEnv("ORDER_QUANTITY", config.Trading.Quantity)
	config.Trading.Leverage = intFromEnv("LEVERAGE", config.Trading.Leverage)
	if v := os.Getenv("ALLOW_SYMBOLS"); v != "" {
		config.Trading.AllowSymbols = splitList(v)
	}
	if v := os.Getenv("DISPATCH_TIMES"); v != "" {
		config.Dispatch.Times = splitList(v)
	}
	config.Dispatch.PollInterval = durationFromEnv("DISPATCH_POLL_INTERVAL", config.Dispatch.PollInterval)
	config.Dispatch.PostSendSleep = durationFromEnv("POST_SEND_SLEEP", config.Dispatch.PostSendSleep)
	config.Log.CutoverHour = intFromEnv("CUTOVER_HOUR", config.Log.CutoverHour)
	if v := os.Getenv("TIMEZONE"); v != "" {
		config.Log.Timezone = v
	}
	if v := os.Getenv("JAEGER_AGENT_HOST"); v != "" {
		config.Jaeger.Host = v
	}
	if config.Log.MarkerPath == "" {
		config.Log.MarkerPath = config.Log.Dir + "/.last_dispatch.json"
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (%s)", tokenTelegramENV)
	}
	if c.Telegram.SourceChatID == 0 || c.Telegram.TargetChatID == 0 {
		return fmt.Errorf("source/target chat ids are required (%s, %s)", sourceChatENV, targetChatENV)
	}
	if c.Log.CutoverHour < 0 || c.Log.CutoverHour > 23 {
		return fmt.Errorf("cutover hour must be in [0,23], got %d", c.Log.CutoverHour)
	}
	for _, tm := range c.Dispatch.Times {
		if _, err := time.Parse("15:04", tm); err != nil {
			return fmt.Errorf("bad dispatch time %q: %w", tm, err)
		}
	}
	if c.Trading.Enabled {
		if c.Binance.APIKey == "" || c.Binance.APISecret == "" {
			return fmt.Errorf("binance credentials are required when trading is enabled")
		}
		if c.Trading.Quantity <= 0 {
			return fmt.Errorf("ORDER_QUANTITY must be > 0 when trading is enabled")
		}
		if c.Trading.Leverage <= 0 {
			return fmt.Errorf("LEVERAGE must be > 0")
		}
	}
	return nil
}

// Location resolves the configured timezone; bad names fall back to
// UTC rather than killing startup.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Log.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int64FromEnv(key string) (int64, bool) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}
