package config

import (
	"testing"
	"time"
)

func clearTwitchEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TWITCH_CHANNELS", "TWITCH_CHANNEL", "TWITCH_BOT_USERNAME", "TWITCH_OAUTH_TOKEN",
		"TWITCH_CLIENT_ID", "TWITCH_CLIENT_SECRET", "TWITCH_REDIRECT_URI", "TWITCH_SCOPES",
		"MAX_INCREMENT", "COOLDOWN_TTL", "DB_DSN", "HTTP_ADDR", "ADMIN_TOKEN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearTwitchEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIncrement != 100 {
		t.Errorf("MaxIncrement = %d, want 100", cfg.MaxIncrement)
	}
	if cfg.CooldownTTL != time.Hour {
		t.Errorf("CooldownTTL = %v, want 1h", cfg.CooldownTTL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBDsn == "" {
		t.Error("DBDsn should default to local postgres")
	}
	if cfg.TwitchScopes != "chat:read chat:edit" {
		t.Errorf("TwitchScopes = %q", cfg.TwitchScopes)
	}
}

func TestLoadChannelList(t *testing.T) {
	clearTwitchEnv(t)
	t.Setenv("TWITCH_CHANNELS", "OnnWee, secondchannel , ,third")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"onnwee", "secondchannel", "third"}
	if len(cfg.TwitchChannels) != len(want) {
		t.Fatalf("channels = %v, want %v", cfg.TwitchChannels, want)
	}
	for i := range want {
		if cfg.TwitchChannels[i] != want[i] {
			t.Errorf("channel[%d] = %q, want %q", i, cfg.TwitchChannels[i], want[i])
		}
	}
}

func TestLoadSingleChannelFallback(t *testing.T) {
	clearTwitchEnv(t)
	t.Setenv("TWITCH_CHANNEL", "OnnWee")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.TwitchChannels) != 1 || cfg.TwitchChannels[0] != "onnwee" {
		t.Errorf("channels = %v, want [onnwee]", cfg.TwitchChannels)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearTwitchEnv(t)
	t.Setenv("MAX_INCREMENT", "zero")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric MAX_INCREMENT")
	}

	t.Setenv("MAX_INCREMENT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for MAX_INCREMENT below 1")
	}

	t.Setenv("MAX_INCREMENT", "")
	t.Setenv("COOLDOWN_TTL", "-5m")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative COOLDOWN_TTL")
	}
}

func TestValidateChatReady(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateChatReady(); err == nil {
		t.Error("expected error with no channels or username")
	}

	cfg.TwitchChannels = []string{"onnwee"}
	cfg.TwitchBotUsername = "tallybot"
	if err := cfg.ValidateChatReady(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
