package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/chikhali-gp/portal/backend/api"
	"github.com/chikhali-gp/portal/backend/auth"
	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/services"
	"github.com/chikhali-gp/portal/backend/storage"
)

const defaultAdminEmail = "admin@chikhaligp.in"

func main() {
	config.LoadDotEnv()
	cfg := config.New()
	setupLogging(cfg)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()
	if err := config.LoadSSM(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Error loading parameters from SSM")
	}

	backend, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening backing store")
	}
	currentDB := database.New(backend)
	defer currentDB.Close()

	if gormStore, ok := backend.(*database.GormStore); ok {
		// If generating models, run generation and exit
		if config.GetBool(cfg, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(gormStore.DB(), log.Logger); err != nil {
				log.Fatal().Err(err).Msg("Model generation failed")
			}
			return
		}

		// If generating column mismatch report, run report and exit
		if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
			log.Info().Msg("Generating column mismatch report...")
			mismatches, err := models.GenerateColumnMismatchReport(gormStore.DB(), log.Logger)
			if err != nil {
				log.Fatal().Err(err).Msg("Column report failed")
			}
			if mismatches > 0 {
				os.Exit(1)
			}
			return
		}
	}

	if config.GetBool(cfg, "SEED_ON_EMPTY", false) {
		if err := currentDB.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error seeding empty collections")
		}
	}

	objectStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening object storage")
	}
	uploader := storage.NewUploader(objectStore, storage.LimitsFromConfig(cfg))

	gate, err := newGate(cfg, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring sign-in")
	}
	defer gate.Close()
	events, stopEvents := gate.Subscribe()
	defer stopEvents()
	go logAuthEvents(events)
	go func() {
		if err := gate.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Could not load roles; admin routes stay unavailable")
		}
	}()

	deps := api.Dependencies{
		Database: currentDB,
		Gate:     gate,
		Uploader: uploader,
		Config:   cfg,
	}
	if mailer, err := services.NewMailer(cfg); err == nil {
		deps.Mailer = mailer
	} else {
		log.Warn().Err(err).Msg("Contact enquiries disabled")
	}
	if reminders, err := services.NewTaxReminders(cfg); err == nil {
		deps.Reminders = reminders
	} else {
		log.Warn().Err(err).Msg("Tax reminders disabled")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newGate(cfg map[string]string, db database.Database) (*auth.Gate, error) {
	secret := config.GetString(cfg, "SESSION_SECRET", "")
	if secret == "" {
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}
	sessions := auth.NewSessions(secret, time.Duration(config.GetInt(cfg, "SESSION_TTL_HOURS", 12))*time.Hour)

	var providers []auth.Provider
	if google := auth.GoogleFromConfig(cfg); google != nil {
		providers = append(providers, google)
	}
	descope, err := auth.DescopeFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if descope != nil {
		providers = append(providers, descope)
	}
	if len(providers) == 0 {
		log.Warn().Msg("No sign-in provider configured, admin area is unreachable")
	}

	admins := config.GetList(cfg, "ADMIN_EMAILS", []string{defaultAdminEmail})
	return auth.NewGate(db.RoleRepo(), sessions, admins, log.Logger, providers...), nil
}

func logAuthEvents(events <-chan auth.Event) {
	for e := range events {
		entry := log.Info().Str("event", string(e.Kind))
		if e.User != nil {
			entry = entry.Str("email", e.User.Email)
		}
		entry.Msg("Auth state changed")
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
