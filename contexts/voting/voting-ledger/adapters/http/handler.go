package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"peervote/contexts/voting/voting-ledger/application/commands"
	"peervote/contexts/voting/voting-ledger/application/queries"
	httptransport "peervote/contexts/voting/voting-ledger/transport/http"
)

type Handler struct {
	Cast    commands.CastVoteUseCase
	Summary queries.SummaryUseCase
	Logger  *slog.Logger
}

// CastVoteHandler records the caller's vote. The voter identity arrives
// from the authenticated request context, never from the body.
func (h Handler) CastVoteHandler(ctx context.Context, campaignID string, voterIdentity string, req httptransport.CastVoteRequest) (httptransport.CastVoteResponse, error) {
	result, err := h.Cast.Execute(ctx, commands.CastVoteCommand{
		CampaignID:    campaignID,
		VoterIdentity: voterIdentity,
		CandidateID:   req.CandidateID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		CampaignID:        result.Vote.CampaignID,
		CandidateID:       result.Vote.CandidateID,
		ModificationCount: result.Vote.ModificationCount,
		Revised:           result.Revised,
		CastAt:            result.Vote.CastAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) SummaryHandler(ctx context.Context, campaignID string) (httptransport.CampaignSummaryResponse, error) {
	summary, err := h.Summary.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignSummaryResponse{}, err
	}
	return httptransport.CampaignSummaryResponse{
		CampaignID:  summary.CampaignID,
		TotalVotes:  summary.TotalVotes,
		TotalVoters: summary.TotalVoters,
	}, nil
}
