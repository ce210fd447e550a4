package candidateregistry

import (
	"log/slog"

	httpadapter "peervote/contexts/voting/candidate-registry/adapters/http"
	"peervote/contexts/voting/candidate-registry/application/commands"
	"peervote/contexts/voting/candidate-registry/application/queries"
	"peervote/contexts/voting/candidate-registry/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	Register     commands.RegisterCandidateUseCase
	Review       commands.ReviewCandidateUseCase
	MarkPromoted commands.MarkPromotedUseCase
	Recompute    commands.RecomputeTalliesUseCase
	List         queries.ListCandidatesUseCase
}

type Dependencies struct {
	Candidates ports.CandidateRepository
	Campaigns  ports.CampaignGate
	Directory  ports.EmployeeDirectory
	Votes      ports.VoteCounter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterCandidateUseCase{
		Candidates: deps.Candidates,
		Campaigns:  deps.Campaigns,
		Directory:  deps.Directory,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	review := commands.ReviewCandidateUseCase{
		Candidates: deps.Candidates,
		Campaigns:  deps.Campaigns,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	markPromoted := commands.MarkPromotedUseCase{
		Candidates: deps.Candidates,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	recompute := commands.RecomputeTalliesUseCase{
		Candidates: deps.Candidates,
		Campaigns:  deps.Campaigns,
		Votes:      deps.Votes,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	list := queries.ListCandidatesUseCase{Candidates: deps.Candidates}

	return Module{
		Handler: httpadapter.Handler{
			Register: register,
			Review:   review,
			List:     list,
			Logger:   deps.Logger,
		},
		Register:     register,
		Review:       review,
		MarkPromoted: markPromoted,
		Recompute:    recompute,
		List:         list,
	}
}
