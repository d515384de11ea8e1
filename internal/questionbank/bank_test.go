package questionbank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/skill"
)

func loadTestBank(t *testing.T, cfg Config) *Bank {
	t.Helper()
	b, err := LoadBank("testdata/bank.yaml", cfg)
	require.NoError(t, err)
	return b
}

func promptsOf(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestLoadBank_SkipsInvalidItems(t *testing.T) {
	b := loadTestBank(t, DefaultConfig())

	assert.Equal(t, 6, b.ItemCount("go-concurrency"))
	assert.Equal(t, 1, b.ItemCount("sql-basics"))
	assert.Equal(t, 0, b.ItemCount("nope"))
}

func TestBank_Catalog(t *testing.T) {
	b := loadTestBank(t, DefaultConfig())
	ctx := context.Background()

	s, err := b.Lookup(ctx, "go-concurrency")
	require.NoError(t, err)
	assert.Equal(t, "Go Concurrency", s.Name)
	assert.Contains(t, s.Keywords, "channel")

	sql, err := b.Lookup(ctx, "sql-basics")
	require.NoError(t, err)
	assert.Equal(t, "SQL Basics", sql.Name)

	_, err = b.Lookup(ctx, "cobol")
	assert.ErrorIs(t, err, skill.ErrUnknownSkill)

	all, err := b.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "go-concurrency", all[0].ID)
}

func TestBank_GenerateNearestDifficultyFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 4
	b := loadTestBank(t, cfg)
	sk, _ := b.Lookup(context.Background(), "go-concurrency")

	qs, err := b.Generate(context.Background(), GenerateInput{Skill: sk, Proficiency: skill.Skilled})
	require.NoError(t, err)

	// Skilled starts at intermediate: gc-3, gc-4 exact; then basic (lower
	// wins the tie) before advanced.
	assert.Equal(t, []string{"gc-3", "gc-4", "gc-2", "gc-5"}, promptsOf(qs))
}

func TestBank_GenerateExplicitDifficultyAndPriorPrompts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionCount = 2
	b := loadTestBank(t, cfg)
	sk, _ := b.Lookup(context.Background(), "go-concurrency")

	qs, err := b.Generate(context.Background(), GenerateInput{
		Skill:        sk,
		Difficulty:   difficulty.Intermediate,
		PriorPrompts: []string{"Which of these can protect a shared map from concurrent writes?"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gc-4", "gc-3"}, promptsOf(qs))
}

func TestBank_GenerateReturnsIndependentCopies(t *testing.T) {
	b := loadTestBank(t, DefaultConfig())
	sk, _ := b.Lookup(context.Background(), "go-concurrency")
	in := GenerateInput{Skill: sk, Proficiency: skill.Awareness}

	first, err := b.Generate(context.Background(), in)
	require.NoError(t, err)
	first[0].Options[0].Text = "mutated"
	first[0].UserAnswer = Answer{"a"}

	second, err := b.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "go", second[0].Options[0].Text)
	assert.Nil(t, second[0].UserAnswer)
	assert.Nil(t, second[0].Feedback)
}

func TestBank_GenerateSeededShuffleIsStable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shuffle = true
	cfg.Seed = 42
	b := loadTestBank(t, cfg)
	sk, _ := b.Lookup(context.Background(), "go-concurrency")
	in := GenerateInput{Skill: sk, Proficiency: skill.Skilled}

	a, err := b.Generate(context.Background(), in)
	require.NoError(t, err)
	c, err := b.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, promptsOf(a), promptsOf(c))
	assert.Len(t, a, 6)
}

func TestBank_GenerateFailsWithoutItems(t *testing.T) {
	b, err := ParseBank([]byte("skills:\n  - id: empty\n"), DefaultConfig())
	require.NoError(t, err)

	_, err = b.Generate(context.Background(), GenerateInput{Skill: skill.Skill{ID: "empty"}})
	assert.True(t, errors.Is(err, ErrGenerationFailed))

	_, err = b.Generate(context.Background(), GenerateInput{Skill: skill.Skill{ID: "missing"}})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestParseBank_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing skill id", "skills:\n  - name: x\n"},
		{"duplicate skill", "skills:\n  - id: a\n  - id: a\n"},
		{"bad yaml", "skills: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml), DefaultConfig())
			assert.Error(t, err)
		})
	}
}
