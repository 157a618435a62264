package config

import (
	"testing"
	"time"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("BINDERY_TEST_KEY", "sk-resolved")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain value", "sk-literal", "sk-literal"},
		{"env reference", "${BINDERY_TEST_KEY}", "sk-resolved"},
		{"embedded reference", "prefix-${BINDERY_TEST_KEY}", "prefix-sk-resolved"},
		{"missing variable", "${BINDERY_DOES_NOT_EXIST}", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveEnvVars(tc.in); got != tc.want {
				t.Errorf("ResolveEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestToLLMConfig(t *testing.T) {
	t.Setenv("BINDERY_TEST_KEY", "sk-resolved")

	cfg := &Config{LLM: LLMConfig{
		APIKey:         "${BINDERY_TEST_KEY}",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 60,
		MaxAttempts:    5,
	}}

	llm := cfg.ToLLMConfig()
	if llm.APIKey != "sk-resolved" {
		t.Errorf("expected resolved key, got %q", llm.APIKey)
	}
	if llm.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", llm.Timeout)
	}
	if llm.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", llm.MaxAttempts)
	}
}

func TestMaxUploadBytes(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		cfg := &Config{Upload: UploadConfig{MaxSizeMB: 50}}
		if got := cfg.MaxUploadBytes(); got != 50<<20 {
			t.Errorf("expected %d, got %d", 50<<20, got)
		}
	})

	t.Run("default when unset", func(t *testing.T) {
		cfg := &Config{}
		if got := cfg.MaxUploadBytes(); got != 200<<20 {
			t.Errorf("expected %d, got %d", 200<<20, got)
		}
	})
}
