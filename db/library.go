package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/onnwee/chat-tally/command"
)

// LibraryStore implements command.LibraryRepository over the
// counter_library catalog table.
type LibraryStore struct {
	DB *sql.DB
}

// Triggers returns the catalog's long-form/alias triggers for a counter,
// normalized. Unknown counters yield no triggers.
func (s *LibraryStore) Triggers(ctx context.Context, counterID string) ([]string, error) {
	var raw string
	row := s.DB.QueryRowContext(ctx,
		`SELECT triggers FROM counter_library WHERE counter_id=$1`, strings.ToLower(counterID))
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load library triggers: %w", err)
	}
	var out []string
	for _, t := range splitList(raw) {
		if norm := command.NormalizeTrigger(t); norm != "" {
			out = append(out, norm)
		}
	}
	return out, nil
}

// Counter returns the catalog definition for a counter id, if present.
func (s *LibraryStore) Counter(ctx context.Context, counterID string) (command.CustomCounter, bool, error) {
	var cc command.CustomCounter
	var milestones, triggers string
	row := s.DB.QueryRowContext(ctx, `SELECT counter_id, display_name, icon, increment_by, decrement_by, milestones, triggers
		FROM counter_library WHERE counter_id=$1`, strings.ToLower(counterID))
	if err := row.Scan(&cc.ID, &cc.DisplayName, &cc.Icon, &cc.IncrementBy, &cc.DecrementBy, &milestones, &triggers); err != nil {
		if err == sql.ErrNoRows {
			return command.CustomCounter{}, false, nil
		}
		return command.CustomCounter{}, false, fmt.Errorf("load library counter: %w", err)
	}
	cc.Milestones = splitInts(milestones)
	for _, t := range splitList(triggers) {
		if norm := command.NormalizeTrigger(t); norm != "" {
			cc.Triggers = append(cc.Triggers, norm)
		}
	}
	return cc, true, nil
}
