package main

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

type Config struct {
	ListenAddr     string `json:"listen_addr"`
	OpeningRule    string `json:"opening_rule"`
	TurnDelayMs    int    `json:"turn_delay_ms"`
	TickIntervalMs int    `json:"tick_interval_ms"`
	AiMoveDelayMs  int    `json:"ai_move_delay_ms"`
	AiSeed         int64  `json:"ai_seed"`
	AiLogMoves     bool   `json:"ai_log_moves"`
	ArchivePath    string `json:"archive_path"`
	HintsEnabled   bool   `json:"hints_enabled"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		OpeningRule: RuleStandard,

		// The console pauses between turns so bot games stay readable.
		TurnDelayMs:    500,
		TickIntervalMs: 50,
		AiMoveDelayMs:  0,

		// 0 seeds from the clock.
		AiSeed:     0,
		AiLogMoves: false,

		ArchivePath:  "",
		HintsEnabled: true,
	}
}

// ConfigFromEnv overlays GOMOKU_* environment variables on base.
func ConfigFromEnv(base Config) Config {
	cfg := base
	cfg.ListenAddr = getenv("GOMOKU_LISTEN_ADDR", cfg.ListenAddr)
	cfg.OpeningRule = NewOpeningRule(getenv("GOMOKU_OPENING_RULE", cfg.OpeningRule)).Name()
	cfg.TurnDelayMs = getenvInt("GOMOKU_TURN_DELAY_MS", cfg.TurnDelayMs)
	cfg.TickIntervalMs = getenvInt("GOMOKU_TICK_MS", cfg.TickIntervalMs)
	cfg.AiMoveDelayMs = getenvInt("GOMOKU_AI_MOVE_DELAY_MS", cfg.AiMoveDelayMs)
	cfg.AiSeed = getenvInt64("GOMOKU_AI_SEED", cfg.AiSeed)
	cfg.AiLogMoves = getenvBool("GOMOKU_AI_LOG_MOVES", cfg.AiLogMoves)
	cfg.ArchivePath = getenv("GOMOKU_ARCHIVE_PATH", cfg.ArchivePath)
	cfg.HintsEnabled = getenvBool("GOMOKU_HINTS", cfg.HintsEnabled)
	if cfg.TickIntervalMs <= 0 {
		cfg.TickIntervalMs = 50
	}
	if cfg.TurnDelayMs < 0 {
		cfg.TurnDelayMs = 0
	}
	return cfg
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
