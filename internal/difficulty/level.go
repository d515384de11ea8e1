package difficulty

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillcheck/internal/skill"
)

// Level is an ordered difficulty tier.
type Level int

const (
	Intro Level = iota + 1
	Basic
	Intermediate
	Advanced
	Expert
)

// MinLevel and MaxLevel are the absolute bounds of the enum. Controllers may
// be configured with narrower bounds.
const (
	MinLevel = Intro
	MaxLevel = Expert
)

func (l Level) String() string {
	switch l {
	case Intro:
		return "intro"
	case Basic:
		return "basic"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Valid reports whether l is within the enum.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// ParseLevel accepts a level name or its 1-5 numeral.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l := MinLevel; l <= MaxLevel; l++ {
		if s == l.String() || s == fmt.Sprint(int(l)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid difficulty %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ForProficiency maps a target proficiency to its starting difficulty.
// The mapping is monotonic and leaves one step of headroom above Mastery.
func ForProficiency(p skill.Proficiency) Level {
	switch p {
	case skill.Awareness:
		return Intro
	case skill.Knowledge:
		return Basic
	case skill.Skilled:
		return Intermediate
	case skill.Mastery:
		return Advanced
	default:
		return Intro
	}
}
