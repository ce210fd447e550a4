package resultresolver

import (
	"log/slog"

	httpadapter "peervote/contexts/voting/result-resolver/adapters/http"
	"peervote/contexts/voting/result-resolver/application/commands"
	"peervote/contexts/voting/result-resolver/application/workers"
	"peervote/contexts/voting/result-resolver/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Resolve commands.ResolveUseCase
	Sweeper workers.ResolutionSweeper
}

type Dependencies struct {
	Campaigns ports.CampaignStateMachine
	Tally     ports.TallyService
	Ledger    ports.LedgerSummary
	Promoter  ports.PromotionMarker
	Retry     ports.RetryScheduler
	Outcomes  ports.OutcomeRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	resolve := commands.ResolveUseCase{
		Campaigns: deps.Campaigns,
		Tally:     deps.Tally,
		Ledger:    deps.Ledger,
		Promoter:  deps.Promoter,
		Retry:     deps.Retry,
		Outcomes:  deps.Outcomes,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Resolve:  resolve,
			Outcomes: deps.Outcomes,
			Logger:   deps.Logger,
		},
		Resolve: resolve,
		Sweeper: workers.ResolutionSweeper{
			Campaigns: deps.Campaigns,
			Resolve:   resolve,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}
