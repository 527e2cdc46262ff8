package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/onnwee/chat-tally/command"
)

// CounterStore implements command.CounterRepository over Postgres.
type CounterStore struct {
	DB *sql.DB
}

// Get loads a broadcaster's counter state, returning an empty state when
// none exists yet.
func (s *CounterStore) Get(ctx context.Context, broadcasterID string) (*command.State, error) {
	state := command.NewState(broadcasterID)
	row := s.DB.QueryRowContext(ctx,
		`SELECT deaths, swears, screams, bits FROM counters WHERE broadcaster_id=$1`, broadcasterID)
	if err := row.Scan(&state.Deaths, &state.Swears, &state.Screams, &state.Bits); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load counters: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT counter_id, value FROM custom_counter_values WHERE broadcaster_id=$1`, broadcasterID)
	if err != nil {
		return nil, fmt.Errorf("load custom counter values: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", slog.Any("err", err))
		}
	}()
	for rows.Next() {
		var id string
		var v int
		if err := rows.Scan(&id, &v); err != nil {
			return nil, fmt.Errorf("scan custom counter value: %w", err)
		}
		state.Custom[id] = v
	}
	return state, rows.Err()
}

// Save upserts the built-in counters and every custom counter value in
// one transaction.
func (s *CounterStore) Save(ctx context.Context, state *command.State) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO counters (broadcaster_id, deaths, swears, screams, bits, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		ON CONFLICT (broadcaster_id) DO UPDATE SET deaths=$2, swears=$3, screams=$4, bits=$5, updated_at=NOW()`,
		state.BroadcasterID, state.Deaths, state.Swears, state.Screams, state.Bits); err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	for id, v := range state.Custom {
		if _, err := tx.ExecContext(ctx, `INSERT INTO custom_counter_values (broadcaster_id, counter_id, value, updated_at)
			VALUES ($1,$2,$3,NOW())
			ON CONFLICT (broadcaster_id, counter_id) DO UPDATE SET value=$3, updated_at=NOW()`,
			state.BroadcasterID, id, v); err != nil {
			return fmt.Errorf("save custom counter %s: %w", id, err)
		}
	}
	return tx.Commit()
}
