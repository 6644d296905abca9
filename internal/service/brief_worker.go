package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/rs/zerolog"
)

// BriefWorker is a background worker that periodically generates and
// delivers the daily brief for every organisation. Each organisation's
// run is independent: a failure is logged and the loop moves on, so one
// bad tenant never blocks the rest.
type BriefWorker struct {
	briefService *BriefService
	orgRepo      domain.OrganisationRepository
	deliverer    domain.BriefDeliverer
	logger       zerolog.Logger
	interval     time.Duration
	briefConfig  BriefConfig
	stopCh       chan struct{}
	doneCh       chan struct{}
	mu           sync.Mutex
	running      bool
}

// BriefWorkerConfig holds configuration for the brief worker
type BriefWorkerConfig struct {
	Interval time.Duration // How often to run the brief sweep
	Brief    BriefConfig
}

// DefaultBriefWorkerConfig returns sensible defaults
func DefaultBriefWorkerConfig() BriefWorkerConfig {
	return BriefWorkerConfig{
		Interval: 24 * time.Hour,
	}
}

// NewBriefWorker creates a new brief worker
func NewBriefWorker(
	briefService *BriefService,
	orgRepo domain.OrganisationRepository,
	deliverer domain.BriefDeliverer,
	logger zerolog.Logger,
	config BriefWorkerConfig,
) *BriefWorker {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}

	return &BriefWorker{
		briefService: briefService,
		orgRepo:      orgRepo,
		deliverer:    deliverer,
		logger:       logger.With().Str("component", "brief_worker").Logger(),
		interval:     config.Interval,
		briefConfig:  config.Brief,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins the background brief sweep
func (w *BriefWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting brief worker")

	go w.run(ctx)
}

// Stop gracefully stops the brief worker. Flipping running inside the
// locked section means only one caller ever closes stopCh, so concurrent
// Stop calls are safe.
func (w *BriefWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping brief worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Brief worker stopped")
}

func (w *BriefWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.sweepAllOrganisations(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.sweepAllOrganisations(ctx)
		}
	}
}

func (w *BriefWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// sweepAllOrganisations generates and delivers a brief per organisation
func (w *BriefWorker) sweepAllOrganisations(ctx context.Context) {
	startTime := time.Now()

	orgs, err := w.orgRepo.List(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list organisations for brief sweep")
		return
	}

	generated := 0
	skipped := 0
	failed := 0

	for _, org := range orgs {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping sweep")
			return
		case <-w.stopCh:
			w.logger.Info().Msg("Stop signal received, stopping sweep")
			return
		default:
		}

		if delivered, err := w.RunOrganisation(ctx, org.ID); err != nil {
			w.logger.Error().Err(err).Str("org_id", org.ID.String()).Msg("Failed to generate brief")
			failed++
		} else if delivered {
			generated++
		} else {
			skipped++
		}
	}

	w.logger.Info().
		Int("organisations", len(orgs)).
		Int("generated", generated).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed brief sweep")
}

// RunOrganisation generates and delivers the brief for one organisation.
// It returns false without error when there is nobody to send to.
func (w *BriefWorker) RunOrganisation(ctx context.Context, organisationID uuid.UUID) (bool, error) {
	brief, err := w.briefService.Generate(ctx, organisationID, w.briefConfig)
	if err != nil {
		return false, err
	}

	if len(brief.Recipients) == 0 {
		w.logger.Info().Str("org_id", organisationID.String()).Msg("No recipients, skipping delivery")
		return false, nil
	}

	if err := w.deliverer.Deliver(ctx, brief); err != nil {
		return false, err
	}
	return true, nil
}

// IsRunning returns whether the worker is currently running
func (w *BriefWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
