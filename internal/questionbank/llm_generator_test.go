package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/skill"
)

func testSkill() skill.Skill {
	return skill.Skill{
		ID:          "go-concurrency",
		Name:        "Go Concurrency",
		Description: "Goroutines and channels",
		Keywords:    []string{"goroutine", "channel"},
	}
}

const questionSetJSON = `{"questions":[
	{"prompt":"Which keyword starts a goroutine?","type":"single_choice",
	 "options":[{"id":"a","text":"go"},{"id":"b","text":"async"}],
	 "answer":["a"],"difficulty":3,"explanation":"go starts a goroutine."},
	{"prompt":"Which keyword starts a goroutine?","type":"single_choice",
	 "options":[{"id":"a","text":"go"},{"id":"b","text":"async"}],
	 "answer":["a"],"difficulty":3,"explanation":"duplicate"},
	{"prompt":"Broken","type":"single_choice",
	 "options":[{"id":"a","text":"x"},{"id":"b","text":"y"}],
	 "answer":["z"],"difficulty":2,"explanation":"answer is not an option"},
	{"prompt":"Name the multiplexing statement.","type":"short_answer",
	 "options":[],"answer":["select"],"difficulty":4,"explanation":"select."}
]}`

func TestLLMGenerator_KeepsValidUniqueQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(questionSetJSON)})
	gen := NewLLMGenerator(mock, DefaultConfig(), nil)

	qs, err := gen.Generate(context.Background(), GenerateInput{Skill: testSkill(), Proficiency: skill.Skilled})
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, SingleChoice, qs[0].Type)
	assert.Equal(t, difficulty.Intermediate, qs[0].Difficulty)
	assert.Equal(t, ShortAnswer, qs[1].Type)
	assert.Nil(t, qs[1].Options)
	assert.NotEmpty(t, qs[0].ID)
	assert.NotEqual(t, qs[0].ID, qs[1].ID)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, QuestionSetSchema, req.Schema)
	assert.Equal(t, llm.PurposeQuestionSet, req.Purpose)
	assert.Contains(t, req.Messages[0].Content, "Skill: Go Concurrency")
	assert.Contains(t, req.Messages[0].Content, "Starting difficulty: 3 (intermediate)")
}

func TestLLMGenerator_CapsAtQuestionCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(questionSetJSON)})
	cfg := DefaultConfig()
	cfg.QuestionCount = 1
	qs, err := NewLLMGenerator(mock, cfg, nil).Generate(context.Background(), GenerateInput{Skill: testSkill()})
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestLLMGenerator_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"schema mismatch", llm.MockResponse{Content: json.RawMessage(`{"items":[]}`)}},
		{"no valid questions", llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			_, err := NewLLMGenerator(mock, DefaultConfig(), nil).Generate(context.Background(), GenerateInput{Skill: testSkill()})
			assert.ErrorIs(t, err, ErrGenerationFailed)
		})
	}
}

func TestLLMGenerator_CanceledContextIsNotGenerationFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(questionSetJSON)})

	_, err := NewLLMGenerator(mock, DefaultConfig(), nil).Generate(ctx, GenerateInput{Skill: testSkill()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
}

func TestPriorList(t *testing.T) {
	assert.Equal(t, "None", priorList(nil, 5))

	got := priorList([]string{"one", "two", "three"}, 2)
	assert.Equal(t, "1. two\n2. three", got)

	msg := buildUserMessage(GenerateInput{Skill: testSkill(), PriorPrompts: []string{"old question"}}, DefaultConfig())
	assert.True(t, strings.HasSuffix(msg, "1. old question"))
	assert.Contains(t, msg, "Number of questions: 10")
}
