// Package twitchapi wraps the Twitch OAuth endpoints used by the bot:
// an app access token source for Helix-style API calls and user token
// flows (authorize, exchange, refresh) for the chat account.
package twitchapi

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/twitch"
)

// AppTokenSource returns a caching client-credentials token source.
// App tokens cannot be used for IRC chat; chat needs a user token with
// chat:read/chat:edit scopes.
func AppTokenSource(ctx context.Context, clientID, clientSecret string) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     twitch.Endpoint.TokenURL,
	}
	return cfg.TokenSource(ctx)
}

// OAuthConfig builds the user authorization-code config for the bot
// account.
func OAuthConfig(clientID, clientSecret, redirectURI, scopes string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(strings.ReplaceAll(scopes, ",", " ")),
		Endpoint:     twitch.Endpoint,
	}
}
