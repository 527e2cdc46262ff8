// Command chat-tally is the counter bot backend. It:
//   - Loads configuration and initializes structured logging.
//   - Connects to Postgres and runs idempotent migrations.
//   - Builds the chat command engine and joins the configured Twitch
//     channels.
//   - Keeps the bot's OAuth token fresh via a background refresher.
//   - Exposes an HTTP server with /healthz, /readyz, /status, /metrics,
//     counter reads, and an SSE event stream for overlays.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/chat-tally/chat"
	"github.com/onnwee/chat-tally/command"
	"github.com/onnwee/chat-tally/config"
	"github.com/onnwee/chat-tally/db"
	"github.com/onnwee/chat-tally/notify"
	"github.com/onnwee/chat-tally/oauth"
	"github.com/onnwee/chat-tally/server"
	"github.com/onnwee/chat-tally/telemetry"
	"github.com/onnwee/chat-tally/twitchapi"
)

func main() {
	// .env is a local dev convenience; production relies on real env.
	_ = godotenv.Load()

	// Logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing("chat-tally", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	database, err := db.Connect(cfg.DBDsn)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("err", err))
		}
	}()

	// Versioned migrations first, embedded SQL as the fallback for
	// deployments without the migrations directory.
	slog.Info("running database migrations", slog.String("component", "db_migrate"))
	if err := db.RunMigrations(database); err != nil {
		slog.Warn("versioned migrations failed, falling back to embedded SQL",
			slog.Any("err", err), slog.String("component", "db_migrate"))
		if err := db.Migrate(context.Background(), database); err != nil {
			slog.Error("failed to migrate db", slog.Any("err", err))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Engine wiring.
	hub := notify.NewHub()
	cooldowns := command.NewCooldownTracker(cfg.CooldownTTL)
	cooldowns.StartSweeper(ctx)

	counters := &db.CounterStore{DB: database}
	configStore := &db.ConfigStore{DB: database, DefaultMaxIncrement: cfg.MaxIncrement}
	library := &db.LibraryStore{DB: database}

	// Chat client; the sender is shared by the engine and the milestone
	// announcer.
	var engine *command.Engine
	if err := cfg.ValidateChatReady(); err != nil {
		slog.Info("chat ingest disabled", slog.Any("reason", err))
		engine = command.NewEngine(counters, configStore, library,
			notify.NewDispatcher(&notify.LogSink{}, hub), nil, cooldowns)
	} else {
		client, sender, err := chat.NewClient(ctx, cfg, database)
		if err != nil {
			slog.Error("chat client init failed", slog.Any("err", err))
			os.Exit(1)
		}
		dispatcher := notify.NewDispatcher(
			&notify.ChatAnnouncer{Sender: sender, Template: os.Getenv("MILESTONE_TEMPLATE")},
			hub,
			&notify.LogSink{},
		)
		engine = command.NewEngine(counters, configStore, library, dispatcher, sender, cooldowns)
		go func() {
			if err := chat.Run(ctx, client, engine, cfg.TwitchChannels); err != nil {
				slog.Error("chat ingest exited with error", slog.Any("err", err))
			}
		}()
	}

	// Keep the bot's user token fresh when client credentials are
	// configured.
	if cfg.TwitchClientID != "" && cfg.TwitchClientSecret != "" {
		// Fetch an app token once to surface bad client credentials at
		// startup instead of on the first refresh attempt.
		go func() {
			if _, err := twitchapi.AppTokenSource(ctx, cfg.TwitchClientID, cfg.TwitchClientSecret).Token(); err != nil {
				slog.Warn("twitch client credentials check failed", slog.Any("err", err))
			}
		}()
		oauth.StartRefresher(ctx, database, "twitch", 5*time.Minute, 15*time.Minute,
			func(rctx context.Context, refreshToken string) (string, string, time.Time, string, error) {
				tok, scope, err := twitchapi.RefreshToken(rctx, cfg.TwitchClientID, cfg.TwitchClientSecret, refreshToken)
				if err != nil {
					return "", "", time.Time{}, "", err
				}
				return tok.AccessToken, tok.RefreshToken, tok.Expiry, scope, nil
			})
	}

	// Periodically export the cooldown map size.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				telemetry.SetCooldownEntries(cooldowns.Len())
			}
		}
	}()

	go func() {
		if err := server.Start(ctx, database, hub, cfg.HTTPAddr, cfg.AdminToken); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}
