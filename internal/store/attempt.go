package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/skill"
)

const attemptsTable = "attempts"

var attemptColumns = []string{
	"id", "learner_id", "skill_id", "proficiency", "final_score", "passed",
	"adaptive_mode", "difficulty_path", "questions", "started_at", "submitted_at",
}

// AttemptRepo stores completed attempts. It implements scoring.AttemptStore.
type AttemptRepo struct {
	drv *entsql.Driver
}

var _ scoring.AttemptStore = (*AttemptRepo)(nil)

// AttemptFilter narrows ListAttempts. Empty fields match everything.
type AttemptFilter struct {
	LearnerID string
	SkillID   string
	Limit     int
}

// Save inserts the attempt, replacing a row with the same ID so a retried
// save is harmless.
func (r *AttemptRepo) Save(ctx context.Context, a scoring.Attempt) error {
	path, err := json.Marshal(a.DifficultyPath)
	if err != nil {
		return fmt.Errorf("encode difficulty path: %w", err)
	}
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(attemptsTable).
		Columns(attemptColumns...).
		Values(a.ID, a.LearnerID, a.SkillID, int(a.Proficiency), a.FinalScore, a.Passed,
			a.AdaptiveMode, string(path), string(questions), toUnix(a.StartedAt), toUnix(a.SubmittedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// History returns the learner's attempts for a skill, newest first.
func (r *AttemptRepo) History(ctx context.Context, learnerID, skillID string) ([]scoring.Attempt, error) {
	return r.List(ctx, AttemptFilter{LearnerID: learnerID, SkillID: skillID})
}

// List returns attempts matching f, newest first.
func (r *AttemptRepo) List(ctx context.Context, f AttemptFilter) ([]scoring.Attempt, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(attemptColumns...).
		From(entsql.Table(attemptsTable))

	var preds []*entsql.Predicate
	if f.LearnerID != "" {
		preds = append(preds, entsql.EQ("learner_id", f.LearnerID))
	}
	if f.SkillID != "" {
		preds = append(preds, entsql.EQ("skill_id", f.SkillID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("submitted_at"), entsql.Desc("id"))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []scoring.Attempt
	for rows.Next() {
		a, err := scanAttempt(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func scanAttempt(rows *entsql.Rows) (scoring.Attempt, error) {
	var (
		a                    scoring.Attempt
		prof                 int
		path, questions      string
		startedAt, submitted int64
	)
	if err := rows.Scan(&a.ID, &a.LearnerID, &a.SkillID, &prof, &a.FinalScore, &a.Passed,
		&a.AdaptiveMode, &path, &questions, &startedAt, &submitted); err != nil {
		return a, fmt.Errorf("scan attempt: %w", err)
	}
	a.Proficiency = skill.Proficiency(prof)
	a.StartedAt = fromUnix(startedAt)
	a.SubmittedAt = fromUnix(submitted)

	var lv []difficulty.Level
	if err := json.Unmarshal([]byte(path), &lv); err != nil {
		return a, fmt.Errorf("decode difficulty path of %s: %w", a.ID, err)
	}
	a.DifficultyPath = lv

	var qs []questionbank.Question
	if err := json.Unmarshal([]byte(questions), &qs); err != nil {
		return a, fmt.Errorf("decode questions of %s: %w", a.ID, err)
	}
	a.Questions = qs
	return a, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
