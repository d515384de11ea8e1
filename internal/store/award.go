package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/scoring"
)

const awardsTable = "badge_awards"

var awardColumns = []string{"id", "learner_id", "skill_id", "attempt_id", "kind", "rarity", "reason", "awarded_at"}

// AwardRepo stores badge awards. It implements badges.AwardRepo.
type AwardRepo struct {
	drv *entsql.Driver
}

func (r *AwardRepo) SaveAward(ctx context.Context, a scoring.Award) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(awardsTable).
		Columns(awardColumns...).
		Values(a.ID, a.LearnerID, a.SkillID, a.AttemptID, a.Kind, a.Rarity, a.Reason, toUnix(a.AwardedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save award: %w", err)
	}
	return nil
}

// ListAwards returns a learner's awards, newest first.
func (r *AwardRepo) ListAwards(ctx context.Context, learnerID string, limit int) ([]scoring.Award, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(awardColumns...).
		From(entsql.Table(awardsTable)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("awarded_at"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}
	defer rows.Close()

	var out []scoring.Award
	for rows.Next() {
		var (
			a  scoring.Award
			at int64
		)
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.SkillID, &a.AttemptID, &a.Kind, &a.Rarity, &a.Reason, &at); err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		a.AwardedAt = fromUnix(at)
		out = append(out, a)
	}
	return out, rows.Err()
}
