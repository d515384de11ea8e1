package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/questionbank"
)

func TestParseAnswer(t *testing.T) {
	choice := assessment.Snapshot{CurrentQuestion: &assessment.QuestionView{Type: questionbank.MultiChoice}}
	short := assessment.Snapshot{CurrentQuestion: &assessment.QuestionView{Type: questionbank.ShortAnswer}}

	assert.Equal(t, []string{"a", "c"}, parseAnswer(" a, ,c ", choice))
	assert.Nil(t, parseAnswer("", choice))
	assert.Equal(t, []string{"select, then default"}, parseAnswer("select, then default", short))
}

func TestCommandTree(t *testing.T) {
	want := []string{"serve", "assess", "attempts list", "skills list", "llm list", "version"}
	for _, path := range want {
		c, _, err := rootCmd.Find(strings.Fields(path))
		if err != nil || c == rootCmd {
			t.Errorf("command %q not registered", path)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "skillcheck (devel)\n", buf.String())
}
