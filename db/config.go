package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/onnwee/chat-tally/command"
)

// ConfigStore implements command.ConfigRepository over Postgres.
type ConfigStore struct {
	DB *sql.DB
	// DefaultMaxIncrement is used when a broadcaster has no settings row.
	DefaultMaxIncrement int
}

// Settings loads engine knobs plus per-metric milestone thresholds.
// Missing rows yield defaults (screams off, configured max increment).
func (s *ConfigStore) Settings(ctx context.Context, broadcasterID string) (command.Settings, error) {
	settings := command.Settings{
		BroadcasterID: broadcasterID,
		MaxIncrement:  s.DefaultMaxIncrement,
		Milestones:    make(map[string][]int),
	}
	row := s.DB.QueryRowContext(ctx,
		`SELECT screams_enabled, max_increment FROM broadcaster_settings WHERE broadcaster_id=$1`, broadcasterID)
	if err := row.Scan(&settings.ScreamsEnabled, &settings.MaxIncrement); err != nil && err != sql.ErrNoRows {
		return settings, fmt.Errorf("load settings: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT metric, thresholds FROM milestone_thresholds WHERE broadcaster_id=$1`, broadcasterID)
	if err != nil {
		return settings, fmt.Errorf("load milestone thresholds: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", slog.Any("err", err))
		}
	}()
	for rows.Next() {
		var metric, thresholds string
		if err := rows.Scan(&metric, &thresholds); err != nil {
			return settings, fmt.Errorf("scan milestone thresholds: %w", err)
		}
		settings.Milestones[strings.ToLower(metric)] = splitInts(thresholds)
	}
	return settings, rows.Err()
}

// CommandOverrides loads the broadcaster's command table keyed by the
// lowercase command form.
func (s *ConfigStore) CommandOverrides(ctx context.Context, broadcasterID string) (map[string]command.Definition, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT command_key, template, action, targets, tier, cooldown_seconds, enabled
		FROM command_overrides WHERE broadcaster_id=$1`, broadcasterID)
	if err != nil {
		return nil, fmt.Errorf("load command overrides: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", slog.Any("err", err))
		}
	}()
	out := make(map[string]command.Definition)
	for rows.Next() {
		var key, template, action, targets, tier string
		var cooldown int
		var enabled bool
		if err := rows.Scan(&key, &template, &action, &targets, &tier, &cooldown, &enabled); err != nil {
			return nil, fmt.Errorf("scan command override: %w", err)
		}
		out[strings.ToLower(key)] = command.Definition{
			Template:        template,
			Action:          command.ParseAction(action),
			Targets:         splitList(strings.ToLower(targets)),
			Tier:            command.Tier(strings.ToLower(tier)),
			CooldownSeconds: cooldown,
			Enabled:         enabled,
		}
	}
	return out, rows.Err()
}

// CustomCounters loads the broadcaster's custom counter definitions keyed
// by lowercase counter id, with triggers normalized for resolution.
func (s *ConfigStore) CustomCounters(ctx context.Context, broadcasterID string) (map[string]command.CustomCounter, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT counter_id, display_name, icon, increment_by, decrement_by, milestones, triggers
		FROM custom_counters WHERE broadcaster_id=$1`, broadcasterID)
	if err != nil {
		return nil, fmt.Errorf("load custom counters: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", slog.Any("err", err))
		}
	}()
	out := make(map[string]command.CustomCounter)
	for rows.Next() {
		var cc command.CustomCounter
		var milestones, triggers string
		if err := rows.Scan(&cc.ID, &cc.DisplayName, &cc.Icon, &cc.IncrementBy, &cc.DecrementBy, &milestones, &triggers); err != nil {
			return nil, fmt.Errorf("scan custom counter: %w", err)
		}
		cc.ID = strings.ToLower(cc.ID)
		if cc.IncrementBy < 1 {
			cc.IncrementBy = 1
		}
		if cc.DecrementBy < 1 {
			cc.DecrementBy = 1
		}
		cc.Milestones = splitInts(milestones)
		for _, t := range splitList(triggers) {
			if norm := command.NormalizeTrigger(t); norm != "" {
				cc.Triggers = append(cc.Triggers, norm)
			}
		}
		out[cc.ID] = cc
	}
	return out, rows.Err()
}

// UpsertCustomCounter writes a counter definition.
func (s *ConfigStore) UpsertCustomCounter(ctx context.Context, broadcasterID string, cc command.CustomCounter) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO custom_counters
		(broadcaster_id, counter_id, display_name, icon, increment_by, decrement_by, milestones, triggers)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (broadcaster_id, counter_id) DO UPDATE SET
			display_name=$3, icon=$4, increment_by=$5, decrement_by=$6, milestones=$7, triggers=$8`,
		broadcasterID, strings.ToLower(cc.ID), cc.DisplayName, cc.Icon, cc.IncrementBy, cc.DecrementBy,
		joinInts(cc.Milestones), joinList(cc.Triggers))
	if err != nil {
		return fmt.Errorf("upsert custom counter: %w", err)
	}
	return nil
}
