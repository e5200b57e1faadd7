package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_RPS", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "")

	cfg := Load()
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected default provider gemini, got %q", cfg.LLMProvider)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("expected default gemini model, got %q", cfg.GeminiModel)
	}
	if cfg.GeminiRPS != 2 {
		t.Fatalf("expected default gemini rps 2, got %d", cfg.GeminiRPS)
	}
	if cfg.TokenTTLMinutes != 1440 {
		t.Fatalf("expected default token ttl 1440, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.SweepIntervalMinutes != 1 {
		t.Fatalf("expected default sweep interval 1, got %d", cfg.SweepIntervalMinutes)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_GEN_MODEL", "qwen2.5:14b")
	t.Setenv("TOKEN_TTL_MINUTES", "60")
	t.Setenv("NATS_SUBJECT", "rfps.analyze.test")

	cfg := Load()
	if cfg.LLMProvider != "ollama" {
		t.Fatalf("expected provider override, got %q", cfg.LLMProvider)
	}
	if cfg.OllamaGenModel != "qwen2.5:14b" {
		t.Fatalf("expected model override, got %q", cfg.OllamaGenModel)
	}
	if cfg.TokenTTLMinutes != 60 {
		t.Fatalf("expected token ttl 60, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.NATSSubject != "rfps.analyze.test" {
		t.Fatalf("expected subject override, got %q", cfg.NATSSubject)
	}
}

func TestLoadFallsBackOnBadInt(t *testing.T) {
	t.Setenv("GEMINI_RPS", "lots")

	cfg := Load()
	if cfg.GeminiRPS != 2 {
		t.Fatalf("expected fallback rps 2, got %d", cfg.GeminiRPS)
	}
}
