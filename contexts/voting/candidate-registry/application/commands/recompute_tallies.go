package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "peervote/contexts/voting/candidate-registry/application"
	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

type RecomputeTalliesResult struct {
	Ranked      []entities.PromotionCandidate
	TotalVoters int
}

// RecomputeTalliesUseCase rebuilds the tally projection from the ledger.
// Percentages divide by the campaign's eligible electorate, not by ballots
// cast, so abstention counts against the pass threshold. Only approved
// candidates are ranked; ties break on the earlier anonymous sequence,
// which is stable because the sequence is never reused.
type RecomputeTalliesUseCase struct {
	Candidates ports.CandidateRepository
	Campaigns  ports.CampaignGate
	Votes      ports.VoteCounter
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc RecomputeTalliesUseCase) Execute(ctx context.Context, campaignID string) (RecomputeTalliesResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return RecomputeTalliesResult{}, domainerrors.ErrInvalidCandidateInput
	}

	view, err := uc.Campaigns.Lookup(ctx, campaignID)
	if err != nil {
		return RecomputeTalliesResult{}, err
	}
	candidates, err := uc.Candidates.ListByCampaign(ctx, campaignID)
	if err != nil {
		return RecomputeTalliesResult{}, err
	}
	counts, totalVoters, err := uc.Votes.CountVotes(ctx, campaignID)
	if err != nil {
		return RecomputeTalliesResult{}, err
	}

	ranked := make([]entities.PromotionCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Status != entities.StatusApproved && candidate.Status != entities.StatusPromoted {
			continue
		}
		candidate.VoteCount = counts[candidate.CandidateID]
		candidate.VotePercent = votePercent(candidate.VoteCount, view.EligibleVoters)
		ranked = append(ranked, candidate)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		return ranked[i].AnonymousSeq < ranked[j].AnonymousSeq
	})

	updates := make([]ports.TallyUpdate, 0, len(ranked))
	for i := range ranked {
		ranked[i].Ranking = i + 1
		updates = append(updates, ports.TallyUpdate{
			CandidateID: ranked[i].CandidateID,
			VoteCount:   ranked[i].VoteCount,
			VotePercent: ranked[i].VotePercent,
			Ranking:     ranked[i].Ranking,
		})
	}
	if len(updates) > 0 {
		if err := uc.Candidates.ApplyTallies(ctx, campaignID, updates, resolveNow(uc.Clock)); err != nil {
			return RecomputeTalliesResult{}, err
		}
	}

	logger.Debug("tallies recomputed",
		"event", "candidate_tallies_recomputed",
		"module", "voting/candidate-registry",
		"layer", "application",
		"campaign_id", campaignID,
		"candidate_count", len(ranked),
		"total_voters", totalVoters,
	)
	return RecomputeTalliesResult{Ranked: ranked, TotalVoters: totalVoters}, nil
}

func votePercent(voteCount int, electorate int) float64 {
	if electorate <= 0 {
		return 0
	}
	return float64(voteCount) / float64(electorate) * 100
}
