package queries

import (
	"context"
	"strings"

	domainerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	"peervote/contexts/voting/voting-ledger/ports"
)

type CampaignSummary struct {
	CampaignID  string
	TotalVotes  int
	TotalVoters int
}

// SummaryUseCase reports campaign-level participation. TotalVoters counts
// distinct fingerprints; TotalVotes counts cast actions including revisions.
type SummaryUseCase struct {
	Votes ports.VoteRepository
}

func (uc SummaryUseCase) Execute(ctx context.Context, campaignID string) (CampaignSummary, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return CampaignSummary{}, domainerrors.ErrInvalidVoteInput
	}
	totalVotes, totalVoters, err := uc.Votes.SummarizeCampaign(ctx, campaignID)
	if err != nil {
		return CampaignSummary{}, err
	}
	return CampaignSummary{
		CampaignID:  campaignID,
		TotalVotes:  totalVotes,
		TotalVoters: totalVoters,
	}, nil
}
