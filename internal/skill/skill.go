package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSkill is returned by a Catalog when no skill has the given ID.
	ErrUnknownSkill = errors.New("unknown skill")

	// ErrUnknownProficiency is returned when a proficiency name cannot be parsed.
	ErrUnknownProficiency = errors.New("unknown proficiency")
)

// Proficiency is the ordered target level an assessment is generated against.
type Proficiency int

const (
	Awareness Proficiency = iota + 1
	Knowledge
	Skilled
	Mastery
)

// AllProficiencies returns all levels from lowest to highest.
func AllProficiencies() []Proficiency {
	return []Proficiency{Awareness, Knowledge, Skilled, Mastery}
}

// String returns the display name of the level.
func (p Proficiency) String() string {
	switch p {
	case Awareness:
		return "Awareness"
	case Knowledge:
		return "Knowledge"
	case Skilled:
		return "Skill"
	case Mastery:
		return "Mastery"
	default:
		return fmt.Sprintf("Proficiency(%d)", int(p))
	}
}

// Valid reports whether p is one of the defined levels.
func (p Proficiency) Valid() bool {
	return p >= Awareness && p <= Mastery
}

// ParseProficiency parses a level name, case-insensitively.
// "skilled" is accepted as an alias for "skill".
func ParseProficiency(s string) (Proficiency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "awareness":
		return Awareness, nil
	case "knowledge":
		return Knowledge, nil
	case "skill", "skilled":
		return Skilled, nil
	case "mastery":
		return Mastery, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProficiency, s)
}

func (p Proficiency) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProficiency, int(p))
	}
	return []byte(strings.ToLower(p.String())), nil
}

func (p *Proficiency) UnmarshalText(b []byte) error {
	v, err := ParseProficiency(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Skill is a single assessable skill. It is immutable for the lifetime of an
// assessment session.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Catalog resolves skills by ID. Unknown skills must be rejected before a
// session is created.
type Catalog interface {
	Lookup(ctx context.Context, id string) (Skill, error)
	All(ctx context.Context) ([]Skill, error)
}
