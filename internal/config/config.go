// Package config loads service settings from SKILLCHECK_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/scoring"
)

// Question generator backends.
const (
	GeneratorBank = "bank"
	GeneratorLLM  = "llm"
)

type Config struct {
	// DBPath is the SQLite file. Empty means the default data directory.
	DBPath   string
	BankPath string
	Addr     string
	LogMode  string

	PassRate      int
	QuestionCount int
	StreakLength  int
	Difficulty    difficulty.Config

	// RedisAddr enables the shared session lock. Empty keeps locks in
	// process.
	RedisAddr  string
	SessionTTL time.Duration

	// AMQPURL enables event publishing. Empty disables it.
	AMQPURL      string
	AMQPExchange string

	Generator  string
	LLMGrading bool
	LLM        llm.Config

	ShutdownTimeout time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BankPath:        "questions.yaml",
		Addr:            ":8080",
		LogMode:         "dev",
		PassRate:        scoring.DefaultPassRate,
		QuestionCount:   10,
		StreakLength:    scoring.DefaultStreakLength,
		Difficulty:      difficulty.DefaultConfig(),
		SessionTTL:      2 * time.Hour,
		AMQPExchange:    "skillcheck.events",
		Generator:       GeneratorBank,
		LLM:             llm.DefaultConfig(),
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from lookup, normally os.Getenv. Every invalid
// value is reported in the returned error.
func FromLookup(lookup func(string) string) (Config, error) {
	cfg := Default()
	e := env{lookup: lookup}

	cfg.DBPath = e.str("DB", cfg.DBPath)
	cfg.BankPath = e.str("BANK", cfg.BankPath)
	cfg.Addr = e.str("ADDR", cfg.Addr)
	cfg.LogMode = strings.ToLower(e.str("LOG_MODE", cfg.LogMode))

	cfg.PassRate = e.integer("PASS_RATE", cfg.PassRate)
	cfg.QuestionCount = e.integer("QUESTION_COUNT", cfg.QuestionCount)
	cfg.StreakLength = e.integer("STREAK_LENGTH", cfg.StreakLength)
	cfg.Difficulty.Upper = e.float("UPPER_THRESHOLD", cfg.Difficulty.Upper)
	cfg.Difficulty.Lower = e.float("LOWER_THRESHOLD", cfg.Difficulty.Lower)
	cfg.Difficulty.MinAnswered = e.integer("MIN_ANSWERED", cfg.Difficulty.MinAnswered)

	cfg.RedisAddr = e.str("REDIS_ADDR", cfg.RedisAddr)
	cfg.SessionTTL = e.duration("SESSION_TTL", cfg.SessionTTL)
	cfg.AMQPURL = e.str("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = e.str("AMQP_EXCHANGE", cfg.AMQPExchange)

	cfg.Generator = strings.ToLower(e.str("GENERATOR", cfg.Generator))
	cfg.LLMGrading = e.boolean("LLM_GRADING", cfg.LLMGrading)
	cfg.ShutdownTimeout = e.duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LLM = llm.ConfigFromEnv(lookup)

	if err := cfg.validate(); err != nil {
		e.errs = append(e.errs, err)
	}
	return cfg, errors.Join(e.errs...)
}

// NeedsLLM reports whether any configured component calls a provider.
func (c Config) NeedsLLM() bool {
	return c.Generator == GeneratorLLM || c.LLMGrading
}

func (c Config) validate() error {
	var errs []error
	if c.PassRate < 1 || c.PassRate > 100 {
		errs = append(errs, fmt.Errorf("pass rate %d out of range [1,100]", c.PassRate))
	}
	if c.QuestionCount < 1 {
		errs = append(errs, fmt.Errorf("question count must be positive, got %d", c.QuestionCount))
	}
	if c.StreakLength < 1 {
		errs = append(errs, fmt.Errorf("streak length must be positive, got %d", c.StreakLength))
	}
	if err := c.Difficulty.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Generator != GeneratorBank && c.Generator != GeneratorLLM {
		errs = append(errs, fmt.Errorf("unknown generator %q", c.Generator))
	}
	if c.NeedsLLM() {
		if err := c.LLM.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const prefix = "SKILLCHECK_"

// env reads prefixed variables and collects parse errors.
type env struct {
	lookup func(string) string
	errs   []error
}

func (e *env) get(name string) string {
	return strings.TrimSpace(e.lookup(prefix + name))
}

func (e *env) str(name, def string) string {
	if v := e.get(name); v != "" {
		return v
	}
	return def
}

func (e *env) integer(name string, def int) int {
	v := e.get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s=%q is not an integer", prefix, name, v))
		return def
	}
	return n
}

func (e *env) float(name string, def float64) float64 {
	v := e.get(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s=%q is not a number", prefix, name, v))
		return def
	}
	return f
}

func (e *env) duration(name string, def time.Duration) time.Duration {
	v := e.get(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s=%q is not a valid duration: %w", prefix, name, v, err))
		return def
	}
	return d
}

func (e *env) boolean(name string, def bool) bool {
	v := e.get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s%s=%q is not a boolean", prefix, name, v))
		return def
	}
	return b
}
