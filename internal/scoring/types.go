package scoring

import (
	"context"
	"time"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/skill"
)

// DefaultPassRate is the score at or above which an attempt passes.
const DefaultPassRate = 70

// DefaultStreakLength is the number of consecutive passes that counts as a
// streak milestone.
const DefaultStreakLength = 3

// Attempt is one completed assessment run. Retries produce a new Attempt.
type Attempt struct {
	ID             string                  `json:"id"`
	LearnerID      string                  `json:"learner_id"`
	SkillID        string                  `json:"skill_id"`
	Proficiency    skill.Proficiency       `json:"proficiency"`
	Questions      []questionbank.Question `json:"questions,omitempty"`
	FinalScore     int                     `json:"final_score"`
	Passed         bool                    `json:"passed"`
	DifficultyPath []difficulty.Level      `json:"difficulty_path"`
	AdaptiveMode   bool                    `json:"adaptive_mode"`
	StartedAt      time.Time               `json:"started_at"`
	SubmittedAt    time.Time               `json:"submitted_at"`
}

// Result is the shown outcome of an attempt.
type Result struct {
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
}

// MilestoneKind names the progress event a passed attempt crossed.
type MilestoneKind string

const (
	MilestoneFirstPass MilestoneKind = "first_pass"
	MilestoneStreak    MilestoneKind = "streak"
)

// Milestone is passed to the badge service when an attempt crosses one.
type Milestone struct {
	Kind        MilestoneKind     `json:"kind"`
	Proficiency skill.Proficiency `json:"proficiency"`

	// Streak is the number of consecutive passes ending with this attempt.
	Streak int `json:"streak"`
}

// Award is a badge returned by the badge service.
type Award struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Rarity    string    `json:"rarity"`
	LearnerID string    `json:"learner_id"`
	SkillID   string    `json:"skill_id"`
	AttemptID string    `json:"attempt_id"`
	Reason    string    `json:"reason"`
	AwardedAt time.Time `json:"awarded_at"`
}

// AttemptStore persists attempts and returns a learner's history for a skill.
type AttemptStore interface {
	Save(ctx context.Context, a Attempt) error

	// History returns attempts for the learner and skill, newest first.
	History(ctx context.Context, learnerID, skillID string) ([]Attempt, error)
}

// BadgeService decides on and records a badge for a milestone. A nil award
// with a nil error means no badge.
type BadgeService interface {
	Evaluate(ctx context.Context, a Attempt, m Milestone) (*Award, error)
}
