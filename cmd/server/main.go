// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/matchday/internal/config"
	"github.com/codr1/matchday/internal/db"
	"github.com/codr1/matchday/internal/email"
	"github.com/codr1/matchday/internal/leagues"
	"github.com/codr1/matchday/internal/scheduler"
	"github.com/codr1/matchday/internal/schemaguard"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", getEnv("MATCHDAY_CONFIG", "config/app.yaml"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)
	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	if cfg.SchemaGuard.AutoEnforce {
		if err := applySchemaGuards(ctx, database, cfg.SchemaGuard.Quarantine); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema tightenings")
		}
	}

	opts, err := leagues.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid standings configuration")
	}
	standings := leagues.NewService(database, opts)

	if err := startScheduler(ctx, cfg, opts.Location, standings); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown failed")
		}
	}()

	server := newServer(cfg, database, standings)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("timezone", opts.Location.String()).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

// applySchemaGuards enforces every tightening the existing data already
// satisfies. Tightenings with violations are left relaxed and logged.
func applySchemaGuards(ctx context.Context, database *db.DB, quarantine bool) error {
	reports, err := schemaguard.New(database).Apply(ctx, schemaguard.ApplyOptions{Quarantine: quarantine})
	if err != nil {
		return err
	}
	for _, report := range reports {
		log.Info().
			Str("tightening", report.Tightening).
			Bool("enforced", report.Enforced).
			Int64("backfilled", report.Backfilled).
			Int("quarantined", report.Quarantined).
			Int("violations", len(report.ViolatingIDs)).
			Msg("Schema tightening checked")
	}
	return nil
}

func startScheduler(ctx context.Context, cfg *config.Config, loc *time.Location, standings *leagues.Service) error {
	if err := scheduler.Init(loc); err != nil {
		return err
	}
	if !cfg.Scheduler.AuditEnabled() {
		log.Info().Msg("Standings audit job disabled")
		return scheduler.Start()
	}

	audit := &scheduler.StandingsAudit{
		Standings: standings,
		AppName:   cfg.App.Name,
	}
	if cfg.Notifications.Enabled() {
		client, err := email.NewSESClient(ctx, cfg.Notifications)
		if err != nil {
			return fmt.Errorf("create ses client: %w", err)
		}
		audit.Sender = client
		audit.Recipients = cfg.Notifications.Recipients
	} else {
		log.Info().Msg("Integrity notifications disabled")
	}

	if err := scheduler.RegisterStandingsAuditJob(cfg.Scheduler.AuditCron, audit); err != nil {
		return err
	}
	return scheduler.Start()
}
