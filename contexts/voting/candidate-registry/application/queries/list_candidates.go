package queries

import (
	"context"
	"strings"

	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

// AnonymizedCandidate is the voter-facing projection. It never carries the
// employee id; the anonymous id is the only identity voters see.
type AnonymizedCandidate struct {
	CandidateID  string
	AnonymousID  string
	AnonymousSeq int64
	Status       entities.CandidateStatus
	Position     string
	TenureYears  int
	Statement    string
	VoteCount    int
	VotePercent  float64
	Ranking      int
}

type ListCandidatesUseCase struct {
	Candidates ports.CandidateRepository
}

// Execute returns the anonymized roster for a campaign. Rejected and
// withdrawn candidacies are filtered out of the voter view.
func (uc ListCandidatesUseCase) Execute(ctx context.Context, campaignID string) ([]AnonymizedCandidate, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, domainerrors.ErrInvalidCandidateInput
	}

	candidates, err := uc.Candidates.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]AnonymizedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Status == entities.StatusRejected || candidate.Status == entities.StatusWithdrawn {
			continue
		}
		out = append(out, AnonymizedCandidate{
			CandidateID:  candidate.CandidateID,
			AnonymousID:  candidate.AnonymousID,
			AnonymousSeq: candidate.AnonymousSeq,
			Status:       candidate.Status,
			Position:     candidate.Position,
			TenureYears:  candidate.TenureYears,
			Statement:    candidate.Statement,
			VoteCount:    candidate.VoteCount,
			VotePercent:  candidate.VotePercent,
			Ranking:      candidate.Ranking,
		})
	}
	return out, nil
}
