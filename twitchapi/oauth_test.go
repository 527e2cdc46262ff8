package twitchapi

import (
	"context"
	"reflect"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

func TestAppTokenSource(t *testing.T) {
	if ts := AppTokenSource(context.Background(), "id", "secret"); ts == nil {
		t.Fatal("expected a token source")
	}
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig("id", "secret", "https://localhost/cb", "chat:read, chat:edit")
	if !reflect.DeepEqual(cfg.Scopes, []string{"chat:read", "chat:edit"}) {
		t.Errorf("scopes = %v", cfg.Scopes)
	}
	if cfg.Endpoint != twitch.Endpoint {
		t.Errorf("endpoint = %+v, want twitch", cfg.Endpoint)
	}
	if cfg.RedirectURL != "https://localhost/cb" {
		t.Errorf("redirect = %q", cfg.RedirectURL)
	}
}

func TestRefreshTokenRequiresParams(t *testing.T) {
	if _, _, err := RefreshToken(context.Background(), "", "secret", "refresh"); err == nil {
		t.Error("expected error without client id")
	}
	if _, _, err := RefreshToken(context.Background(), "id", "secret", ""); err == nil {
		t.Error("expected error without refresh token")
	}
}

func TestExchangeAuthCodeRequiresParams(t *testing.T) {
	if _, _, err := ExchangeAuthCode(context.Background(), "id", "secret", "", "https://localhost/cb"); err == nil {
		t.Error("expected error without code")
	}
	if _, _, err := ExchangeAuthCode(context.Background(), "id", "secret", "code", ""); err == nil {
		t.Error("expected error without redirect URI")
	}
}

func TestComputeExpiry(t *testing.T) {
	got := ComputeExpiry(3600)
	want := time.Now().Add(time.Hour)
	if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiry off by %v", diff)
	}

	// Unknown lifetime gets a conservative default.
	got = ComputeExpiry(0)
	want = time.Now().Add(60 * time.Minute)
	if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("default expiry off by %v", diff)
	}
}

func TestExtraScope(t *testing.T) {
	tok := (&oauth2.Token{}).WithExtra(map[string]interface{}{
		"scope": []interface{}{"chat:read", "chat:edit"},
	})
	if got := extraScope(tok); got != "chat:read chat:edit" {
		t.Errorf("scope = %q", got)
	}

	tok = (&oauth2.Token{}).WithExtra(map[string]interface{}{"scope": "chat:read"})
	if got := extraScope(tok); got != "chat:read" {
		t.Errorf("scope = %q", got)
	}

	if got := extraScope(&oauth2.Token{}); got != "" {
		t.Errorf("scope = %q, want empty", got)
	}
}
