package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/skill"
)

type fakeAttempts struct {
	mu         sync.Mutex
	saved      []Attempt
	saveErr    error
	historyErr error
}

func (f *fakeAttempts) Save(_ context.Context, a Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeAttempts) History(_ context.Context, learnerID, skillID string) ([]Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []Attempt
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].LearnerID == learnerID && f.saved[i].SkillID == skillID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

type fakeBadges struct {
	calls []Milestone
	err   error
}

func (f *fakeBadges) Evaluate(_ context.Context, a Attempt, m Milestone) (*Award, error) {
	f.calls = append(f.calls, m)
	if f.err != nil {
		return nil, f.err
	}
	return &Award{Kind: string(m.Kind), AttemptID: a.ID}, nil
}

func newAttempt(correct, total int) Attempt {
	return Attempt{ID: "att-1", LearnerID: "u1", SkillID: "go", Proficiency: skill.Knowledge, Questions: graded(correct, total)}
}

func TestComplete_PassedFirstAttemptAwardsBadge(t *testing.T) {
	store := &fakeAttempts{}
	badges := &fakeBadges{}
	c := NewCompleter(store, badges, CompleterConfig{}, nil)

	o := c.Complete(context.Background(), newAttempt(7, 10))

	assert.Equal(t, Result{Score: 70, Passed: true, Correct: 7, Total: 10}, o.Result)
	assert.False(t, o.Pending())
	require.Len(t, store.saved, 1)
	assert.Equal(t, 70, store.saved[0].FinalScore)
	require.NotNil(t, o.Award)
	assert.Equal(t, "first_pass", o.Award.Kind)
}

func TestComplete_FailedAttemptSkipsBadges(t *testing.T) {
	badges := &fakeBadges{}
	o := NewCompleter(&fakeAttempts{}, badges, CompleterConfig{}, nil).Complete(context.Background(), newAttempt(6, 10))

	assert.False(t, o.Result.Passed)
	assert.Nil(t, o.Award)
	assert.Empty(t, badges.calls)
}

func TestComplete_SideEffectFailuresDoNotChangeResult(t *testing.T) {
	store := &fakeAttempts{saveErr: errors.New("db locked")}
	badges := &fakeBadges{err: errors.New("broker down")}
	c := NewCompleter(store, badges, CompleterConfig{}, nil)

	o := c.Complete(context.Background(), newAttempt(8, 10))

	assert.Equal(t, 80, o.Result.Score)
	assert.True(t, o.Result.Passed)
	assert.ErrorContains(t, o.PersistErr, "db locked")
	assert.ErrorContains(t, o.BadgeErr, "broker down")
	assert.True(t, o.Pending())

	// Only the persistence step still fails on retry; badges now succeed.
	badges.err = nil
	o = c.Retry(context.Background(), o)
	assert.Equal(t, 80, o.Result.Score)
	assert.Error(t, o.PersistErr)
	assert.NoError(t, o.BadgeErr)
	require.NotNil(t, o.Award)
	assert.Len(t, badges.calls, 2)

	store.saveErr = nil
	o = c.Retry(context.Background(), o)
	assert.False(t, o.Pending())
	assert.Len(t, store.saved, 1)
	assert.Len(t, badges.calls, 2, "succeeded step is not re-run")
}

func TestComplete_HistoryFailureIsBadgeError(t *testing.T) {
	store := &fakeAttempts{historyErr: errors.New("timeout")}
	o := NewCompleter(store, &fakeBadges{}, CompleterConfig{}, nil).Complete(context.Background(), newAttempt(10, 10))

	assert.NoError(t, o.PersistErr)
	assert.ErrorContains(t, o.BadgeErr, "load attempt history")
	assert.Equal(t, 100, o.Result.Score)
}

func TestComplete_CustomPassRate(t *testing.T) {
	c := NewCompleter(nil, nil, CompleterConfig{PassRate: 90}, nil)
	assert.Equal(t, 90, c.PassRate())

	o := c.Complete(context.Background(), newAttempt(8, 10))
	assert.False(t, o.Result.Passed)
	assert.False(t, o.Pending())
}
