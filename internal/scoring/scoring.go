// Package scoring computes assessment results and runs the completion side
// effects (attempt persistence, milestone detection, badge evaluation).
package scoring

import (
	"math"
	"sort"

	"github.com/abhisek/skillcheck/internal/questionbank"
)

// Compute scores a fully answered question set: round(100*correct/total),
// rounding half away from zero, passing at or above passRate.
func Compute(questions []questionbank.Question, passRate int) Result {
	r := Result{Total: len(questions)}
	for _, q := range questions {
		if q.Feedback != nil && q.Feedback.Correct {
			r.Correct++
		}
	}
	if r.Total == 0 {
		return r
	}
	r.Score = int(math.Round(100 * float64(r.Correct) / float64(r.Total)))
	r.Passed = r.Score >= passRate
	return r
}

// DetectMilestone reports the milestone a passed attempt crosses given the
// learner's prior history for the skill (any order; the attempt itself is
// ignored if present). A first pass at the attempt's proficiency wins over
// a streak.
func DetectMilestone(a Attempt, history []Attempt, streakLength int) *Milestone {
	if !a.Passed {
		return nil
	}

	prior := make([]Attempt, 0, len(history))
	for _, h := range history {
		if h.ID != a.ID {
			prior = append(prior, h)
		}
	}
	sort.SliceStable(prior, func(i, j int) bool { return prior[i].SubmittedAt.Before(prior[j].SubmittedAt) })

	streak := 1
	for i := len(prior) - 1; i >= 0 && prior[i].Passed; i-- {
		streak++
	}

	firstPass := true
	for _, h := range prior {
		if h.Passed && h.Proficiency == a.Proficiency {
			firstPass = false
			break
		}
	}

	switch {
	case firstPass:
		return &Milestone{Kind: MilestoneFirstPass, Proficiency: a.Proficiency, Streak: streak}
	case streakLength > 0 && streak%streakLength == 0:
		return &Milestone{Kind: MilestoneStreak, Proficiency: a.Proficiency, Streak: streak}
	}
	return nil
}
