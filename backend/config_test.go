package main

import "testing"

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GOMOKU_LISTEN_ADDR", ":9090")
	t.Setenv("GOMOKU_OPENING_RULE", "Pro")
	t.Setenv("GOMOKU_TURN_DELAY_MS", "-5")
	t.Setenv("GOMOKU_TICK_MS", "0")
	t.Setenv("GOMOKU_AI_SEED", "1234")
	t.Setenv("GOMOKU_HINTS", "false")
	t.Setenv("GOMOKU_AI_MOVE_DELAY_MS", "not-a-number")

	cfg := ConfigFromEnv(DefaultConfig())
	if cfg.ListenAddr != ":9090" || cfg.OpeningRule != RulePro {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TurnDelayMs != 0 || cfg.TickIntervalMs != 50 {
		t.Fatalf("expected clamped delays, got %d and %d", cfg.TurnDelayMs, cfg.TickIntervalMs)
	}
	if cfg.AiSeed != 1234 || cfg.HintsEnabled {
		t.Fatalf("unexpected seed or hints %+v", cfg)
	}
	if cfg.AiMoveDelayMs != DefaultConfig().AiMoveDelayMs {
		t.Fatalf("unparsable value should keep the default, got %d", cfg.AiMoveDelayMs)
	}
}

func TestConfigFromEnvUnknownRule(t *testing.T) {
	t.Setenv("GOMOKU_OPENING_RULE", "Swap2")
	if cfg := ConfigFromEnv(DefaultConfig()); cfg.OpeningRule != RuleStandard {
		t.Fatalf("unknown rule should fall back to Standard, got %s", cfg.OpeningRule)
	}
}

func TestConfigStoreUpdate(t *testing.T) {
	store := &ConfigStore{config: DefaultConfig()}
	cfg := store.Get()
	cfg.AiMoveDelayMs = 250
	store.Update(cfg)
	if store.Get().AiMoveDelayMs != 250 {
		t.Fatalf("update not visible")
	}
}
