package attendancetracker

import (
	"log/slog"

	httpadapter "peervote/contexts/workforce/attendance-tracker/adapters/http"
	"peervote/contexts/workforce/attendance-tracker/application/commands"
	"peervote/contexts/workforce/attendance-tracker/application/queries"
	"peervote/contexts/workforce/attendance-tracker/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	RecordLate commands.RecordLateEventUseCase
	Reset      commands.ResetPeriodUseCase
	Punishment commands.IncrementPunishmentUseCase
}

type Dependencies struct {
	Statistics ports.StatisticsRepository
	Trigger    ports.CampaignTrigger
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	recordLate := commands.RecordLateEventUseCase{
		Statistics: deps.Statistics,
		Trigger:    deps.Trigger,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	reset := commands.ResetPeriodUseCase{
		Statistics: deps.Statistics,
		Logger:     deps.Logger,
	}
	punishment := commands.IncrementPunishmentUseCase{
		Statistics: deps.Statistics,
		Logger:     deps.Logger,
	}
	statistics := queries.StatisticsUseCase{
		Statistics: deps.Statistics,
	}
	return Module{
		Handler: httpadapter.Handler{
			RecordLate: recordLate,
			Reset:      reset,
			Statistics: statistics,
			Logger:     deps.Logger,
		},
		RecordLate: recordLate,
		Reset:      reset,
		Punishment: punishment,
	}
}
