package grading

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/questionbank"
)

func multi() questionbank.Question {
	return questionbank.Question{
		ID:            "m1",
		Type:          questionbank.MultiChoice,
		Options:       []questionbank.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}, {ID: "c", Text: "C"}},
		CorrectAnswer: []string{"a", "b"},
		Explanation:   "A and B.",
	}
}

func short() questionbank.Question {
	return questionbank.Question{
		ID:            "s1",
		Prompt:        "Which statement waits on several channels?",
		Type:          questionbank.ShortAnswer,
		CorrectAnswer: []string{"select", "select statement"},
		Explanation:   "select blocks until a case is ready.",
	}
}

func TestRuleGrader(t *testing.T) {
	single := multi()
	single.Type = questionbank.SingleChoice
	single.CorrectAnswer = []string{"c"}

	none := multi()
	none.CorrectAnswer = nil

	tests := []struct {
		name    string
		q       questionbank.Question
		a       questionbank.Answer
		correct bool
	}{
		{"multi exact", multi(), questionbank.Answer{"b", "a"}, true},
		{"multi duplicate ids", multi(), questionbank.Answer{"a", "b", "a"}, true},
		{"multi subset", multi(), questionbank.Answer{"a"}, false},
		{"multi superset", multi(), questionbank.Answer{"a", "b", "c"}, false},
		{"multi none apply", none, questionbank.Answer{}, true},
		{"multi none apply wrong", none, questionbank.Answer{"a"}, false},
		{"single right", single, questionbank.Answer{"c"}, true},
		{"single wrong", single, questionbank.Answer{"a"}, false},
		{"short normalized", short(), questionbank.Answer{"  SELECT  Statement. "}, true},
		{"short wrong", short(), questionbank.Answer{"switch"}, false},
		{"short empty", short(), questionbank.Answer{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := NewRuleGrader().Grade(context.Background(), tt.q, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, fb.Correct)
			assert.Equal(t, tt.q.Explanation, fb.Explanation)
			if tt.correct {
				assert.Equal(t, 1.0, fb.Score)
			} else {
				assert.Zero(t, fb.Score)
			}
		})
	}
}

func TestRuleGrader_UnknownType(t *testing.T) {
	_, err := NewRuleGrader().Grade(context.Background(), questionbank.Question{Type: "essay"}, nil)
	assert.ErrorIs(t, err, ErrUngradable)
}

func TestLLMGrader_ExactMatchSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	fb, err := NewLLMGrader(mock, nil).Grade(context.Background(), short(), questionbank.Answer{"select"})
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Zero(t, mock.CallCount())

	_, err = NewLLMGrader(mock, nil).Grade(context.Background(), multi(), questionbank.Answer{"c"})
	require.NoError(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestLLMGrader_AcceptsParaphrase(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"correct":true,"score":1,"explanation":"A select block is the select statement."}`),
	})
	fb, err := NewLLMGrader(mock, nil).Grade(context.Background(), short(), questionbank.Answer{"a select block"})
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, 1.0, fb.Score)
	assert.Equal(t, "A select block is the select statement.", fb.Explanation)

	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Learner answer: a select block")
	assert.Equal(t, llm.PurposeGrading, mock.Calls[0].Purpose)
}

func TestLLMGrader_FallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	fb, err := NewLLMGrader(mock, nil).Grade(context.Background(), short(), questionbank.Answer{"switch"})
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, short().Explanation, fb.Explanation)
}

func TestLLMGrader_IncorrectVerdictScoresZero(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"correct":false,"score":0.5,"explanation":"switch is not select."}`),
	})
	fb, err := NewLLMGrader(mock, nil).Grade(context.Background(), short(), questionbank.Answer{"switch"})
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Zero(t, fb.Score)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "select statement", Normalize("  Select\tSTATEMENT. "))
	assert.Equal(t, "", Normalize("   "))
}
