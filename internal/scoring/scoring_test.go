package scoring

import (
	"testing"
	"time"

	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/skill"
)

func graded(correct, total int) []questionbank.Question {
	qs := make([]questionbank.Question, total)
	for i := range qs {
		qs[i].Feedback = &questionbank.Feedback{Correct: i < correct}
	}
	return qs
}

func TestCompute(t *testing.T) {
	tests := []struct {
		correct, total int
		wantScore      int
		wantPassed     bool
	}{
		{7, 10, 70, true},
		{6, 10, 60, false},
		{2, 3, 67, false},
		{1, 8, 13, false}, // 12.5 rounds away from zero
		{7, 8, 88, true},  // 87.5
		{0, 5, 0, false},
		{5, 5, 100, true},
		{0, 0, 0, false},
	}
	for _, tt := range tests {
		got := Compute(graded(tt.correct, tt.total), DefaultPassRate)
		if got.Score != tt.wantScore || got.Passed != tt.wantPassed {
			t.Errorf("Compute(%d/%d) = %d/%v, want %d/%v", tt.correct, tt.total, got.Score, got.Passed, tt.wantScore, tt.wantPassed)
		}
	}
}

func TestCompute_UngradedCountsAsIncorrect(t *testing.T) {
	qs := graded(3, 3)
	qs[2].Feedback = nil
	if got := Compute(qs, 50); got.Correct != 2 || got.Score != 67 || !got.Passed {
		t.Errorf("unexpected result %+v", got)
	}
}

func attemptAt(id string, p skill.Proficiency, passed bool, minute int) Attempt {
	return Attempt{
		ID:          id,
		SkillID:     "go",
		Proficiency: p,
		Passed:      passed,
		SubmittedAt: time.Date(2026, 1, 1, 10, minute, 0, 0, time.UTC),
	}
}

func TestDetectMilestone(t *testing.T) {
	current := attemptAt("cur", skill.Knowledge, true, 30)

	tests := []struct {
		name    string
		a       Attempt
		history []Attempt
		want    MilestoneKind
		streak  int
	}{
		{"failed attempt", attemptAt("cur", skill.Knowledge, false, 30), nil, "", 0},
		{"first ever pass", current, nil, MilestoneFirstPass, 1},
		{"first pass at new proficiency", current, []Attempt{attemptAt("a", skill.Awareness, true, 1)}, MilestoneFirstPass, 2},
		{"second pass no streak", current, []Attempt{attemptAt("a", skill.Knowledge, true, 1)}, "", 0},
		{"streak of three", current, []Attempt{
			attemptAt("b", skill.Knowledge, true, 2),
			attemptAt("a", skill.Knowledge, true, 1),
		}, MilestoneStreak, 3},
		{"streak broken by failure", current, []Attempt{
			attemptAt("a", skill.Knowledge, true, 1),
			attemptAt("b", skill.Knowledge, false, 2),
			attemptAt("c", skill.Knowledge, true, 3),
		}, "", 0},
		{"current attempt in history ignored", current, []Attempt{current}, MilestoneFirstPass, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DetectMilestone(tt.a, tt.history, DefaultStreakLength)
			if tt.want == "" {
				if m != nil {
					t.Fatalf("expected no milestone, got %+v", *m)
				}
				return
			}
			if m == nil {
				t.Fatalf("expected %s milestone, got none", tt.want)
			}
			if m.Kind != tt.want || m.Streak != tt.streak {
				t.Errorf("got %s/%d, want %s/%d", m.Kind, m.Streak, tt.want, tt.streak)
			}
		})
	}
}
