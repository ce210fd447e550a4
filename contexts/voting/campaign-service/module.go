package campaignservice

import (
	"log/slog"
	"time"

	httpadapter "peervote/contexts/voting/campaign-service/adapters/http"
	"peervote/contexts/voting/campaign-service/application/commands"
	"peervote/contexts/voting/campaign-service/application/queries"
	"peervote/contexts/voting/campaign-service/application/workers"
	"peervote/contexts/voting/campaign-service/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	OpenManual    commands.OpenManualCampaignUseCase
	OpenAutomatic commands.OpenAutomaticCampaignUseCase
	Close         commands.CloseCampaignUseCase
	Cancel        commands.CancelCampaignUseCase
	ScheduleRetry commands.ScheduleRetryUseCase
	Get           queries.GetCampaignUseCase
	Sweeper       workers.ActivationSweeper
}

type Dependencies struct {
	Campaigns  ports.CampaignRepository
	Punishment ports.PunishmentCounter
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	RetryLimit int
	Defaults   commands.AutomaticDefaults
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	defaults := deps.Defaults
	if defaults.Duration <= 0 {
		defaults.Duration = 7 * 24 * time.Hour
	}

	openManual := commands.OpenManualCampaignUseCase{
		Campaigns: deps.Campaigns,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	openAutomatic := commands.OpenAutomaticCampaignUseCase{
		Campaigns: deps.Campaigns,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Defaults:  defaults,
		Logger:    deps.Logger,
	}
	closeCampaign := commands.CloseCampaignUseCase{
		Campaigns: deps.Campaigns,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	cancelCampaign := commands.CancelCampaignUseCase{
		Campaigns: deps.Campaigns,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	scheduleRetry := commands.ScheduleRetryUseCase{
		Campaigns:  deps.Campaigns,
		Punishment: deps.Punishment,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		RetryLimit: deps.RetryLimit,
		Logger:     deps.Logger,
	}
	get := queries.GetCampaignUseCase{Campaigns: deps.Campaigns}
	list := queries.ListCampaignsUseCase{Campaigns: deps.Campaigns}

	return Module{
		Handler: httpadapter.Handler{
			OpenManual: openManual,
			Close:      closeCampaign,
			Cancel:     cancelCampaign,
			Get:        get,
			List:       list,
			Logger:     deps.Logger,
		},
		OpenManual:    openManual,
		OpenAutomatic: openAutomatic,
		Close:         closeCampaign,
		Cancel:        cancelCampaign,
		ScheduleRetry: scheduleRetry,
		Get:           get,
		Sweeper: workers.ActivationSweeper{
			Campaigns: deps.Campaigns,
			Outbox:    deps.Outbox,
			Clock:     deps.Clock,
			IDGen:     deps.IDGen,
			Logger:    deps.Logger,
		},
	}
}
