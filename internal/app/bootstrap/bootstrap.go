package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignservice "peervote/contexts/voting/campaign-service"
	campaignpostgres "peervote/contexts/voting/campaign-service/adapters/postgres"
	campaignworkers "peervote/contexts/voting/campaign-service/application/workers"
	candidateregistry "peervote/contexts/voting/candidate-registry"
	candidatememory "peervote/contexts/voting/candidate-registry/adapters/memory"
	candidatepostgres "peervote/contexts/voting/candidate-registry/adapters/postgres"
	resultresolver "peervote/contexts/voting/result-resolver"
	resolverpostgres "peervote/contexts/voting/result-resolver/adapters/postgres"
	resolverworkers "peervote/contexts/voting/result-resolver/application/workers"
	votingledger "peervote/contexts/voting/voting-ledger"
	ledgerpostgres "peervote/contexts/voting/voting-ledger/adapters/postgres"
	attendancetracker "peervote/contexts/workforce/attendance-tracker"
	attendancepostgres "peervote/contexts/workforce/attendance-tracker/adapters/postgres"
	attendancecommands "peervote/contexts/workforce/attendance-tracker/application/commands"
	attendanceworkers "peervote/contexts/workforce/attendance-tracker/application/workers"
	"peervote/internal/platform/config"
	"peervote/internal/platform/db"
	"peervote/internal/platform/httpserver"
	"peervote/internal/platform/messaging"
	"peervote/internal/platform/obs"
	"peervote/internal/shared/events"
	"peervote/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres          *db.Postgres
	activationSweeper campaignworkers.ActivationSweeper
	resolutionSweeper resolverworkers.ResolutionSweeper
	monthlyRollover   attendanceworkers.MonthlyRollover
	outboxRelay       *outbox.Relay
	bus               *messaging.Bus
	cfg               config.Config
	logger            *slog.Logger
}

// campaignNotificationTopics are the outbox event types the worker's
// notification consumer listens on. The consumer stands in for the external
// notification collaborator.
var campaignNotificationTopics = []string{
	"campaign.opened",
	"campaign.closed",
	"campaign.cancelled",
	"campaign.retry_scheduled",
	"campaign.resolved",
}

type modules struct {
	attendance attendancetracker.Module
	campaigns  campaignservice.Module
	candidates candidateregistry.Module
	ledger     votingledger.Module
	resolver   resultresolver.Module
}

func buildModules(pg *db.Postgres, cfg config.Config, logger *slog.Logger) modules {
	attendanceRepo := attendancepostgres.NewRepository(pg.DB, logger)
	campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
	candidateRepo := candidatepostgres.NewRepository(pg.DB, logger)
	voteRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	outcomeRepo := resolverpostgres.NewOutcomeRepository(pg.DB, logger)
	outboxWriter := outbox.NewWriter(pg.DB, logger)
	clock := campaignpostgres.SystemClock{}

	punishment := attendancecommands.IncrementPunishmentUseCase{
		Statistics: attendanceRepo,
		Logger:     logger,
	}

	campaignModule := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:  campaignRepo,
		Punishment: punishmentCounterAdapter{attendance: punishment},
		Outbox:     outboxWriter,
		Clock:      clock,
		IDGen:      campaignpostgres.ULIDGenerator{},
		RetryLimit: cfg.MaxPunishmentRetries,
		Logger:     logger,
	})

	directory := candidatememory.NewStaticDirectory()
	candidateModule := candidateregistry.NewModule(candidateregistry.Dependencies{
		Candidates: candidateRepo,
		Campaigns:  campaignGateAdapter{campaigns: campaignRepo},
		Directory:  directory,
		Votes:      voteCounterAdapter{votes: voteRepo},
		Clock:      candidatepostgres.SystemClock{},
		IDGen:      candidatepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	ledgerModule := votingledger.NewModule(votingledger.Dependencies{
		Votes:      voteRepo,
		Campaigns:  campaignGuardAdapter{campaigns: campaignRepo, clock: clock},
		Candidates: candidateGuardAdapter{candidates: candidateRepo},
		Clock:      ledgerpostgres.SystemClock{},
		IDGen:      ledgerpostgres.ULIDGenerator{},
		VoterSalt:  cfg.VoterSalt,
		Logger:     logger,
	})

	resolverModule := resultresolver.NewModule(resultresolver.Dependencies{
		Campaigns: resolverCampaignAdapter{campaigns: campaignRepo},
		Tally:     tallyServiceAdapter{recompute: candidateModule.Recompute},
		Ledger:    ledgerSummaryAdapter{ledger: ledgerModule},
		Promoter:  promotionMarkerAdapter{markPromoted: candidateModule.MarkPromoted},
		Retry:     retrySchedulerAdapter{scheduleRetry: campaignModule.ScheduleRetry},
		Outcomes:  outcomeRepo,
		Outbox:    outboxWriter,
		Clock:     clock,
		IDGen:     campaignpostgres.ULIDGenerator{},
		Logger:    logger,
	})

	attendanceModule := attendancetracker.NewModule(attendancetracker.Dependencies{
		Statistics: attendanceRepo,
		Trigger: campaignTriggerAdapter{
			campaigns:  campaignModule,
			candidates: candidateModule,
			electorate: directory,
		},
		Clock:  attendancepostgres.SystemClock{},
		Logger: logger,
	})

	return modules{
		attendance: attendanceModule,
		campaigns:  campaignModule,
		candidates: candidateModule,
		ledger:     ledgerModule,
		resolver:   resolverModule,
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	obs.Init()
	mods := buildModules(pg, cfg, logger)

	server := httpserver.New(
		mods.attendance,
		mods.campaigns,
		mods.candidates,
		mods.ledger,
		mods.resolver,
		httpserver.Options{
			Addr:              normalizeAddr(cfg.HTTPPort),
			VoteRatePerMinute: cfg.VoteRatePerMinute,
			VoteRateBurst:     cfg.VoteRateBurst,
			Logger:            logger,
		},
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	mods := buildModules(pg, cfg, logger)
	attendanceRepo := attendancepostgres.NewRepository(pg.DB, logger)

	bus := messaging.NewBus(logger)
	relay := outbox.NewRelay(pg.DB, func(ctx context.Context, envelope events.Envelope) error {
		return bus.Publish(ctx, envelope.EventType, envelope)
	}, 100, logger)

	return &WorkerApp{
		postgres:          pg,
		activationSweeper: mods.campaigns.Sweeper,
		resolutionSweeper: mods.resolver.Sweeper,
		monthlyRollover: attendanceworkers.MonthlyRollover{
			Statistics: attendanceRepo,
			Clock:      attendancepostgres.SystemClock{},
			Logger:     logger,
		},
		outboxRelay: relay,
		bus:         bus,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	for _, topic := range campaignNotificationTopics {
		if err := w.bus.Subscribe(ctx, topic, w.notifyCampaignEvent); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.cfg.WorkerPollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.cfg.WorkerPollInterval.String(),
	)

	for {
		if w.cfg.EnableActivationSweeper {
			if err := w.activationSweeper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableResolutionSweeper {
			if err := w.resolutionSweeper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableMonthlyRollover {
			if err := w.monthlyRollover.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableOutboxRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// notifyCampaignEvent is the in-process notification sink fed by the outbox
// relay through the bus. Delivery to real channels (email, chat) belongs to
// an external collaborator; here the envelope is surfaced in the worker log.
func (w *WorkerApp) notifyCampaignEvent(_ context.Context, envelope events.Envelope) error {
	w.logger.Info("campaign notification delivered",
		"event", "worker_notification_delivered",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_type", envelope.EventType,
		"entity_id", envelope.EntityID,
		"event_id", envelope.EventID,
	)
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
