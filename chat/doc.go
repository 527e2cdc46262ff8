// Package chat connects the command engine to Twitch IRC.
//
// Run joins the configured channels with a bot account and feeds every
// incoming line through the engine; the channel login doubles as the
// broadcaster id. Caller roles come from IRC badges (broadcaster,
// moderator, subscriber/founder).
//
// Credentials: the IRC client needs a bot username and a user OAuth token
// with chat:read/chat:edit scopes. When TWITCH_OAUTH_TOKEN is not set the
// package reuses a stored token from the oauth_tokens table for provider
// "twitch".
package chat
