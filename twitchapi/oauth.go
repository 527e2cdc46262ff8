package twitchapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// RefreshToken exchanges a refresh token for a fresh user access token.
// The returned scope string is space-joined; empty when Twitch omits it.
func RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*oauth2.Token, string, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, "", errors.New("missing clientID/clientSecret/refreshToken")
	}
	cfg := OAuthConfig(clientID, clientSecret, "", "")
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, "", fmt.Errorf("twitch refresh failed: %w", err)
	}
	return tok, extraScope(tok), nil
}

// ExchangeAuthCode trades an authorization code for access and refresh
// tokens.
func ExchangeAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*oauth2.Token, string, error) {
	if clientID == "" || clientSecret == "" || code == "" || redirectURI == "" {
		return nil, "", errors.New("missing required parameter for auth code exchange")
	}
	cfg := OAuthConfig(clientID, clientSecret, redirectURI, "")
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("twitch auth code exchange failed: %w", err)
	}
	return tok, extraScope(tok), nil
}

// ComputeExpiry returns an absolute expiry from seconds, defaulting to
// +60m when unknown.
func ComputeExpiry(seconds int) time.Time {
	if seconds <= 0 {
		return time.Now().Add(60 * time.Minute)
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}

// extraScope extracts the scope list Twitch returns alongside the token.
func extraScope(tok *oauth2.Token) string {
	switch v := tok.Extra("scope").(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
