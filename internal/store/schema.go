package store

import (
	"context"
	"fmt"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS attempts (
		id              TEXT PRIMARY KEY,
		learner_id      TEXT NOT NULL,
		skill_id        TEXT NOT NULL,
		proficiency     INTEGER NOT NULL,
		final_score     INTEGER NOT NULL,
		passed          INTEGER NOT NULL,
		adaptive_mode   INTEGER NOT NULL,
		difficulty_path TEXT NOT NULL,
		questions       TEXT NOT NULL,
		started_at      INTEGER NOT NULL,
		submitted_at    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempts_learner_skill ON attempts (learner_id, skill_id, submitted_at)`,
	`CREATE TABLE IF NOT EXISTS badge_awards (
		id         TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		skill_id   TEXT NOT NULL,
		attempt_id TEXT NOT NULL,
		kind       TEXT NOT NULL,
		rarity     TEXT NOT NULL,
		reason     TEXT NOT NULL,
		awarded_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS badge_awards_learner ON badge_awards (learner_id, awarded_at)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms    INTEGER NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL,
		request_body  TEXT NOT NULL,
		response_body TEXT NOT NULL,
		created_at    INTEGER NOT NULL
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range ddl {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
