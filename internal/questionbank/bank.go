package questionbank

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/skill"
)

// bankFile is the on-disk YAML layout of a question bank.
type bankFile struct {
	Skills []bankSkill `yaml:"skills"`
}

type bankSkill struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Keywords    []string   `yaml:"keywords"`
	Questions   []bankItem `yaml:"questions"`
}

type bankItem struct {
	ID          string   `yaml:"id"`
	Prompt      string   `yaml:"prompt"`
	Type        string   `yaml:"type"`
	Difficulty  string   `yaml:"difficulty"`
	Options     []Option `yaml:"options"`
	Answer      []string `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

type bankEntry struct {
	skill skill.Skill
	items []Question
}

// Bank is a static question source loaded from YAML. It implements both
// Generator and skill.Catalog.
type Bank struct {
	config  Config
	order   []string
	entries map[string]*bankEntry
}

// LoadBank reads and parses a YAML question bank from path.
func LoadBank(path string, cfg Config) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data, cfg)
}

// ParseBank parses a YAML question bank. Items that fail validation are
// kept out of the bank rather than failing the whole load.
func ParseBank(data []byte, cfg Config) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	b := &Bank{config: cfg, entries: make(map[string]*bankEntry)}
	for _, s := range f.Skills {
		if s.ID == "" {
			return nil, fmt.Errorf("parse question bank: skill without id")
		}
		if _, dup := b.entries[s.ID]; dup {
			return nil, fmt.Errorf("parse question bank: duplicate skill %q", s.ID)
		}

		entry := &bankEntry{skill: skill.Skill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Keywords:    s.Keywords,
		}}
		if entry.skill.Name == "" {
			entry.skill.Name = s.ID
		}

		for _, it := range s.Questions {
			q, ok := it.toQuestion()
			if !ok {
				continue
			}
			if runValidators(cfg.Validators, &q) != nil {
				continue
			}
			entry.items = append(entry.items, q)
		}

		b.entries[s.ID] = entry
		b.order = append(b.order, s.ID)
	}
	return b, nil
}

func (it bankItem) toQuestion() (Question, bool) {
	lvl, err := difficulty.ParseLevel(it.Difficulty)
	if err != nil {
		return Question{}, false
	}
	id := it.ID
	if id == "" {
		id = uuid.NewString()
	}
	return Question{
		ID:            id,
		Prompt:        strings.TrimSpace(it.Prompt),
		Type:          QuestionType(strings.ToLower(it.Type)),
		Options:       it.Options,
		CorrectAnswer: it.Answer,
		Difficulty:    lvl,
		Explanation:   strings.TrimSpace(it.Explanation),
	}, true
}

// Lookup returns the skill with the given ID.
func (b *Bank) Lookup(_ context.Context, id string) (skill.Skill, error) {
	e, ok := b.entries[id]
	if !ok {
		return skill.Skill{}, fmt.Errorf("%w: %q", skill.ErrUnknownSkill, id)
	}
	return e.skill, nil
}

// All returns every skill in file order.
func (b *Bank) All(_ context.Context) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.entries[id].skill)
	}
	return out, nil
}

// ItemCount returns the number of usable items stored for a skill.
func (b *Bank) ItemCount(skillID string) int {
	if e, ok := b.entries[skillID]; ok {
		return len(e.items)
	}
	return 0
}

// Generate selects up to Config.QuestionCount items for the skill, nearest
// to the start difficulty first. Ties go to the easier item, then to items
// not shown in a prior attempt, then to file (or shuffled) order.
func (b *Bank) Generate(ctx context.Context, input GenerateInput) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := b.entries[input.Skill.ID]
	if !ok || len(e.items) == 0 {
		return nil, fmt.Errorf("%w: no items for skill %q", ErrGenerationFailed, input.Skill.ID)
	}

	start := input.StartDifficulty()
	prior := make(map[string]bool, len(input.PriorPrompts))
	for _, p := range input.PriorPrompts {
		prior[p] = true
	}

	rank := make([]int, len(e.items))
	for i := range rank {
		rank[i] = i
	}
	if b.config.Shuffle {
		b.rng().Shuffle(len(rank), func(i, j int) { rank[i], rank[j] = rank[j], rank[i] })
	}

	type candidate struct {
		q     Question
		dist  int
		above bool
		seen  bool
		rank  int
	}
	cands := make([]candidate, len(e.items))
	for i, q := range e.items {
		d := int(q.Difficulty) - int(start)
		cands[i] = candidate{
			q:     q,
			dist:  abs(d),
			above: d > 0,
			seen:  prior[q.Prompt],
			rank:  rank[i],
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, c := cands[i], cands[j]
		if a.dist != c.dist {
			return a.dist < c.dist
		}
		if a.above != c.above {
			return !a.above
		}
		if a.seen != c.seen {
			return !a.seen
		}
		return a.rank < c.rank
	})

	n := b.config.count()
	if n > len(cands) {
		n = len(cands)
	}
	out := make([]Question, 0, n)
	for _, c := range cands[:n] {
		q := c.q.Clone()
		q.UserAnswer = nil
		q.Feedback = nil
		out = append(out, q)
	}
	return out, nil
}

func (b *Bank) rng() *rand.Rand {
	seed := b.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
