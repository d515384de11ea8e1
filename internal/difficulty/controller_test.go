package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/skill"
)

func TestAdjust(t *testing.T) {
	c := NewController(DefaultConfig())

	tests := []struct {
		name     string
		current  Level
		correct  int
		answered int
		want     Level
		changed  bool
	}{
		{"below min sample", Intermediate, 1, 1, Intermediate, false},
		{"no answers", Intermediate, 0, 0, Intermediate, false},
		{"perfect moves up", Intermediate, 2, 2, Advanced, true},
		{"exactly upper moves up", Basic, 4, 5, Intermediate, true},
		{"exactly lower moves down", Intermediate, 2, 5, Basic, true},
		{"zero accuracy moves down", Intermediate, 0, 4, Basic, true},
		{"middle band holds", Intermediate, 3, 5, Intermediate, false},
		{"capped at max", Expert, 5, 5, Expert, false},
		{"floored at min", Intro, 0, 5, Intro, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := c.Adjust(tt.current, tt.correct, tt.answered)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestAdjust_OneStepWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Min = Basic
	cfg.Max = Advanced
	c := NewController(cfg)

	for current := cfg.Min; current <= cfg.Max; current++ {
		for answered := 0; answered <= 10; answered++ {
			for correct := 0; correct <= answered; correct++ {
				got, changed := c.Adjust(current, correct, answered)
				step := int(got) - int(current)
				if step < -1 || step > 1 {
					t.Fatalf("Adjust(%s, %d, %d) jumped %d steps", current, correct, answered, step)
				}
				if got < cfg.Min || got > cfg.Max {
					t.Fatalf("Adjust(%s, %d, %d) = %s, outside bounds", current, correct, answered, got)
				}
				if changed != (step != 0) {
					t.Fatalf("Adjust(%s, %d, %d) changed=%v but step=%d", current, correct, answered, changed, step)
				}
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Lower = 0.9
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Min, bad.Max = Advanced, Basic
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinAnswered = 0
	assert.Error(t, bad.Validate())
}

func TestForProficiency_Monotonic(t *testing.T) {
	prev := Level(0)
	for _, p := range skill.AllProficiencies() {
		l := ForProficiency(p)
		require.True(t, l.Valid(), "level for %s invalid", p)
		assert.Greater(t, l, prev, "mapping for %s not increasing", p)
		prev = l
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("Advanced")
	require.NoError(t, err)
	assert.Equal(t, Advanced, l)

	l, err = ParseLevel("2")
	require.NoError(t, err)
	assert.Equal(t, Basic, l)

	_, err = ParseLevel("impossible")
	assert.Error(t, err)
}
