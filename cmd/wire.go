package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/badges"
	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/events"
	"github.com/abhisek/skillcheck/internal/grading"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/skill"
	"github.com/abhisek/skillcheck/internal/store"
)

// engine holds the wired collaborators shared by serve and assess.
type engine struct {
	cfg        config.Config
	log        *logger.Logger
	store      *store.Store
	bank       *questionbank.Bank
	generator  questionbank.Generator
	grader     grading.Grader
	controller *difficulty.Controller
	completer  *scoring.Completer
	publisher  events.Publisher
}

// buildEngine opens the store and wires generation, grading and completion
// from cfg. Close releases everything it opened.
func buildEngine(ctx context.Context, cmd *cobra.Command, log *logger.Logger) (*engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e := &engine{cfg: cfg, log: log, publisher: events.Nop{}}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if e.store, err = store.Open(dbPath); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	qcfg := questionbank.DefaultConfig()
	qcfg.QuestionCount = cfg.QuestionCount
	qcfg.Shuffle = true
	if e.bank, err = questionbank.LoadBank(cfg.BankPath, qcfg); err != nil {
		e.Close()
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	e.generator = e.bank
	e.grader = grading.NewRuleGrader()

	if cfg.NeedsLLM() {
		provider, err := llm.NewProvider(ctx, cfg.LLM, e.store.LLMRequests(), log)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		if cfg.Generator == config.GeneratorLLM {
			e.generator = questionbank.NewLLMGenerator(provider, qcfg, log)
		}
		if cfg.LLMGrading {
			e.grader = grading.NewLLMGrader(provider, log)
		}
		log.Info("LLM provider configured", "provider", cfg.LLM.Provider, "generator", cfg.Generator, "llm_grading", cfg.LLMGrading)
	}

	if cfg.AMQPURL != "" {
		pub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("connect AMQP: %w", err)
		}
		e.publisher = pub
		log.Info("event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	attempts := events.WithAttemptEvents(e.store.Attempts(), e.publisher, log)
	badgeSvc := badges.NewService(e.store.Awards(), e.publisher, e.bank, log)
	e.completer = scoring.NewCompleter(attempts, badgeSvc, scoring.CompleterConfig{
		PassRate:     cfg.PassRate,
		StreakLength: cfg.StreakLength,
	}, log)
	e.controller = difficulty.NewController(cfg.Difficulty)
	return e, nil
}

// newSession builds an unstarted session wired to the engine.
func (e *engine) newSession(learnerID string, sk skill.Skill, p skill.Proficiency, adaptive bool) (*assessment.Session, error) {
	return assessment.New(learnerID, sk, p, assessment.Config{Adaptive: adaptive}, assessment.Deps{
		Generator:  e.generator,
		Grader:     e.grader,
		Controller: e.controller,
		Completer:  e.completer,
		Logger:     e.log,
	})
}

func (e *engine) Close() error {
	var errs []error
	if e.publisher != nil {
		errs = append(errs, e.publisher.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	return errors.Join(errs...)
}

// newLogger builds the process logger from SKILLCHECK_LOG_MODE.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return logger.New(cfg.LogMode)
}
