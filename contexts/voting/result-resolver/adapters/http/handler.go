package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"peervote/contexts/voting/result-resolver/application/commands"
	"peervote/contexts/voting/result-resolver/domain/entities"
	"peervote/contexts/voting/result-resolver/ports"
	httptransport "peervote/contexts/voting/result-resolver/transport/http"
)

type Handler struct {
	Resolve  commands.ResolveUseCase
	Outcomes ports.OutcomeRepository
	Logger   *slog.Logger
}

// ResolveHandler triggers resolution on demand; the sweeper covers the
// steady state, this covers operators who do not want to wait a poll cycle.
func (h Handler) ResolveHandler(ctx context.Context, campaignID string) (httptransport.OutcomeResponse, error) {
	outcome, err := h.Resolve.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.OutcomeResponse{}, err
	}
	return toOutcomeResponse(outcome), nil
}

func (h Handler) OutcomeHandler(ctx context.Context, campaignID string) (httptransport.OutcomeResponse, error) {
	outcome, err := h.Outcomes.GetOutcome(ctx, campaignID)
	if err != nil {
		return httptransport.OutcomeResponse{}, err
	}
	return toOutcomeResponse(outcome), nil
}

func toOutcomeResponse(outcome entities.CampaignOutcome) httptransport.OutcomeResponse {
	return httptransport.OutcomeResponse{
		CampaignID:        outcome.CampaignID,
		Outcome:           outcome.Outcome,
		WinnerAnonymousID: outcome.WinnerAnonymousID,
		WinningPercentage: outcome.WinningPercentage,
		TotalVotes:        outcome.TotalVotes,
		TotalVoters:       outcome.TotalVoters,
		RetryCampaignID:   outcome.RetryCampaignID,
		ResolvedAt:        outcome.ResolvedAt.UTC().Format(time.RFC3339),
	}
}
