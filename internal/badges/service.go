// Package badges turns attempt milestones into persisted, announced awards.
package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/events"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/skill"
)

// Kind identifies what a badge was awarded for.
type Kind string

const (
	KindFirstPass Kind = "first_pass"
	KindStreak    Kind = "streak"
	KindMastery   Kind = "mastery"
)

// AwardRepo persists awards.
type AwardRepo interface {
	SaveAward(ctx context.Context, a scoring.Award) error
}

// Notifier announces awards. events.Publisher satisfies it.
type Notifier interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Service implements scoring.BadgeService.
type Service struct {
	repo     AwardRepo
	notifier Notifier
	catalog  skill.Catalog
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a badge service. notifier, catalog and log may be nil.
func NewService(repo AwardRepo, notifier Notifier, catalog skill.Catalog, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, notifier: notifier, catalog: catalog, log: log, now: time.Now}
}

var _ scoring.BadgeService = (*Service)(nil)

// Evaluate awards one badge per milestone. The award is persisted before it
// is announced; an announcement failure is only logged because the award
// already exists.
func (s *Service) Evaluate(ctx context.Context, a scoring.Attempt, m scoring.Milestone) (*scoring.Award, error) {
	if !a.Passed {
		return nil, nil
	}

	name := s.skillName(ctx, a.SkillID)
	award := scoring.Award{
		ID:        uuid.NewString(),
		LearnerID: a.LearnerID,
		SkillID:   a.SkillID,
		AttemptID: a.ID,
		AwardedAt: s.now().UTC(),
	}

	switch m.Kind {
	case scoring.MilestoneFirstPass:
		if m.Proficiency == skill.Mastery {
			award.Kind = string(KindMastery)
			award.Reason = fmt.Sprintf("Mastered %s", name)
		} else {
			award.Kind = string(KindFirstPass)
			award.Reason = fmt.Sprintf("Passed %s at %s", name, m.Proficiency)
		}
		award.Rarity = string(PassRarity(m.Proficiency, a.FinalScore))
	case scoring.MilestoneStreak:
		award.Kind = string(KindStreak)
		award.Rarity = string(StreakRarity(m.Streak))
		award.Reason = fmt.Sprintf("%d passes in a row in %s", m.Streak, name)
	default:
		return nil, nil
	}

	if s.repo != nil {
		if err := s.repo.SaveAward(ctx, award); err != nil {
			return nil, fmt.Errorf("save award: %w", err)
		}
	}
	if err := s.notifier.Publish(ctx, events.TypeBadgeAwarded, award); err != nil {
		s.log.Warn("publish badge award", "award_id", award.ID, "kind", award.Kind, "error", err)
	}
	s.log.Info("badge awarded", "learner_id", award.LearnerID, "skill_id", award.SkillID, "kind", award.Kind, "rarity", award.Rarity)
	return &award, nil
}

func (s *Service) skillName(ctx context.Context, id string) string {
	if s.catalog == nil {
		return id
	}
	sk, err := s.catalog.Lookup(ctx, id)
	if err != nil || sk.Name == "" {
		return id
	}
	return sk.Name
}
