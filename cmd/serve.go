package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/registry"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SKILLCHECK_ADDR env var)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	eng, err := buildEngine(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	cfg := eng.cfg
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	var locker registry.Locker
	if cfg.RedisAddr != "" {
		rdb, err := registry.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		locker = registry.NewRedisLocker(rdb, "skillcheck:")
		log.Info("using redis session locks", "addr", cfg.RedisAddr)
	}

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	attempts := eng.store.Attempts()
	router := api.NewRouter(api.Deps{
		Catalog:    eng.bank,
		Registry:   registry.New(locker, cfg.SessionTTL, log),
		NewSession: eng.newSession,
		Attempts: func(ctx context.Context, learnerID, skillID string, limit int) ([]scoring.Attempt, error) {
			return attempts.List(ctx, store.AttemptFilter{LearnerID: learnerID, SkillID: skillID, Limit: limit})
		},
		Health: eng.store.Ping,
		Logger: log,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", cfg.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}
	return nil
}
