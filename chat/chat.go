package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/onnwee/chat-tally/command"
	"github.com/onnwee/chat-tally/config"
	"github.com/onnwee/chat-tally/db"
	"github.com/onnwee/chat-tally/telemetry"
)

// Sender wraps the IRC client's Say as a best-effort outbound channel.
// The client buffers and reconnects internally; there is nothing useful
// to do with a failed line, so nothing is reported.
type Sender struct {
	client *twitch.Client
}

// Say sends a line to the broadcaster's channel.
func (s *Sender) Say(broadcasterID, text string) {
	if s.client == nil || text == "" {
		return
	}
	s.client.Say(broadcasterID, text)
}

// NewClient builds the IRC client from config, falling back to a stored
// OAuth token when the env token is absent.
func NewClient(ctx context.Context, cfg *config.Config, database *sql.DB) (*twitch.Client, *Sender, error) {
	token := cfg.TwitchOAuthToken
	if token == "" && database != nil {
		access, _, expiry, _, err := db.GetOAuthToken(ctx, database, "twitch")
		if err != nil {
			return nil, nil, fmt.Errorf("load stored twitch token: %w", err)
		}
		if access == "" || (!expiry.IsZero() && time.Until(expiry) < time.Minute) {
			return nil, nil, fmt.Errorf("no usable twitch token: set TWITCH_OAUTH_TOKEN or store one")
		}
		token = access
	}
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	client := twitch.NewClient(cfg.TwitchBotUsername, token)
	return client, &Sender{client: client}, nil
}

// Run attaches the engine to the client, joins the configured channels,
// and blocks in the IRC read loop until ctx is cancelled.
func Run(ctx context.Context, client *twitch.Client, engine *command.Engine, channels []string) error {
	client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		m := fromIRC(msg)
		telemetry.TimeFunc(telemetry.ProcessDuration, func() {
			engine.Process(ctx, m)
		})
	})

	for _, ch := range channels {
		client.Join(ch)
		slog.Info("joined channel", slog.String("channel", ch))
	}

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := client.Disconnect(); err != nil {
			slog.Warn("twitch disconnect", slog.Any("err", err))
		}
		close(done)
	}()

	err := client.Connect()
	select {
	case <-done:
		return nil
	default:
	}
	if err != nil {
		return fmt.Errorf("twitch chat connect: %w", err)
	}
	return nil
}

// fromIRC maps an IRC message to the engine's shape. The channel login is
// the broadcaster id; roles come from badges.
func fromIRC(msg twitch.PrivateMessage) command.Message {
	_, isBroadcaster := msg.User.Badges["broadcaster"]
	_, isModerator := msg.User.Badges["moderator"]
	_, isSubscriber := msg.User.Badges["subscriber"]
	if _, founder := msg.User.Badges["founder"]; founder {
		isSubscriber = true
	}
	return command.Message{
		BroadcasterID: strings.ToLower(msg.Channel),
		UserID:        msg.User.ID,
		Username:      msg.User.DisplayName,
		Text:          msg.Message,
		IsBroadcaster: isBroadcaster,
		IsModerator:   isModerator,
		IsSubscriber:  isSubscriber,
	}
}
