package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{"type": "string", "enum": []any{"single_choice", "short_answer"}},
					},
				},
			},
		},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"questions"}, s.Required)
	q := s.Properties["questions"]
	require.NotNil(t, q)
	assert.Equal(t, genai.TypeArray, q.Type)
	require.NotNil(t, q.Items)
	assert.Equal(t, []string{"single_choice", "short_answer"}, q.Items.Properties["type"].Enum)
}
