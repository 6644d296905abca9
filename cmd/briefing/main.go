package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/config"
	"github.com/havenhq/haven/haven-backend/internal/delivery"
	"github.com/havenhq/haven/haven-backend/internal/repository/postgres"
	"github.com/havenhq/haven/haven-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Batch entrypoint for the daily brief. By default it runs one sweep over
// every organisation and exits, which is how the cron deployment invokes
// it. -org restricts the run to a single organisation; -watch keeps the
// process alive and re-runs on the configured interval.
func main() {
	orgFlag := flag.String("org", "", "generate the brief for a single organisation ID")
	watchFlag := flag.Bool("watch", false, "keep running and sweep on the configured interval")
	flag.Parse()

	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Initialize repositories
	orgRepo := postgres.NewOrganisationRepository(pool)
	houseRepo := postgres.NewHouseRepository(pool)
	residentRepo := postgres.NewResidentRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)
	automationRepo := postgres.NewAutomationRepository(pool)
	runRepo := postgres.NewAutomationRunRepository(pool)
	claimRepo := postgres.NewClaimRepository(pool)
	adminRepo := postgres.NewAdminUserRepository(pool)

	// Initialize services
	referenceService := service.NewReferenceService(houseRepo, residentRepo)
	financialService := service.NewFinancialService(transactionRepo, expenseRepo)
	outlookService := service.NewOutlookService(automationRepo, expenseRepo, transactionRepo, contractRepo, log.Logger)
	riskService := service.NewRiskService(contractRepo, runRepo, log.Logger)
	briefService := service.NewBriefService(orgRepo, adminRepo, claimRepo, referenceService, financialService, outlookService, riskService, log.Logger)

	briefConfig := service.BriefConfig{
		Timezone:          cfg.Brief.Timezone,
		LookbackDays:      cfg.Brief.LookbackDays,
		ForwardDays:       cfg.Brief.ForwardDays,
		RecipientOverride: cfg.Brief.RecipientOverride,
	}

	deliverer := delivery.NewLogDeliverer(log.Logger)

	worker := service.NewBriefWorker(briefService, orgRepo, deliverer, log.Logger, service.BriefWorkerConfig{
		Interval: cfg.Brief.SweepInterval,
		Brief:    briefConfig,
	})

	ctx := context.Background()

	if *orgFlag != "" {
		organisationID, err := uuid.Parse(*orgFlag)
		if err != nil {
			log.Fatal().Str("org", *orgFlag).Msg("Invalid organisation ID")
		}
		delivered, err := worker.RunOrganisation(ctx, organisationID)
		if err != nil {
			log.Fatal().Err(err).Str("org_id", organisationID.String()).Msg("Brief failed")
		}
		if !delivered {
			log.Info().Str("org_id", organisationID.String()).Msg("Brief generated but not delivered")
		}
		return
	}

	if *watchFlag {
		worker.Start(ctx)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		worker.Stop()
		return
	}

	// One-shot sweep: run every organisation once and exit
	orgs, err := orgRepo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list organisations")
	}
	failed := 0
	for _, org := range orgs {
		if _, err := worker.RunOrganisation(ctx, org.ID); err != nil {
			log.Error().Err(err).Str("org_id", org.ID.String()).Msg("Brief failed")
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
