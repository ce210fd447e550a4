package votingledger

import (
	"log/slog"

	httpadapter "peervote/contexts/voting/voting-ledger/adapters/http"
	"peervote/contexts/voting/voting-ledger/application/commands"
	"peervote/contexts/voting/voting-ledger/application/queries"
	"peervote/contexts/voting/voting-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Cast    commands.CastVoteUseCase
	Summary queries.SummaryUseCase
	Votes   ports.VoteRepository
}

type Dependencies struct {
	Votes      ports.VoteRepository
	Campaigns  ports.CampaignGuard
	Candidates ports.CandidateGuard
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	VoterSalt  string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cast := commands.CastVoteUseCase{
		Votes:      deps.Votes,
		Campaigns:  deps.Campaigns,
		Candidates: deps.Candidates,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		VoterSalt:  deps.VoterSalt,
		Logger:     deps.Logger,
	}
	summary := queries.SummaryUseCase{Votes: deps.Votes}

	return Module{
		Handler: httpadapter.Handler{
			Cast:    cast,
			Summary: summary,
			Logger:  deps.Logger,
		},
		Cast:    cast,
		Summary: summary,
		Votes:   deps.Votes,
	}
}
