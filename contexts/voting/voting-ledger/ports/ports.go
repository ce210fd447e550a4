package ports

import (
	"context"
	"time"

	"peervote/contexts/voting/voting-ledger/domain/entities"
)

type VoteRepository interface {
	// InsertVote records a first-time vote. A unique-constraint hit on
	// (campaign_id, voter_fingerprint) surfaces as ErrConflict so the caller
	// can fall back to the revision path.
	InsertVote(ctx context.Context, vote entities.PromotionVote) error
	GetVote(ctx context.Context, campaignID string, fingerprint string) (entities.PromotionVote, bool, error)
	// UpdateVote is a guarded revision: the row is only updated when its
	// stored modification count still matches expectedModCount.
	UpdateVote(ctx context.Context, campaignID string, fingerprint string, candidateID string, expectedModCount int, at time.Time) (entities.PromotionVote, error)
	// CountVotes returns per-candidate counts and the number of distinct
	// voters in the campaign.
	CountVotes(ctx context.Context, campaignID string) (map[string]int, int, error)
	// SummarizeCampaign returns total cast actions (first casts plus
	// revisions) and distinct voters.
	SummarizeCampaign(ctx context.Context, campaignID string) (totalVotes int, totalVoters int, err error)
}

// CampaignPolicy is the slice of campaign state the ledger needs to admit a
// vote.
type CampaignPolicy struct {
	CampaignID       string
	Active           bool
	CanModifyVotes   bool
	MaxModifications int
}

type CampaignGuard interface {
	VotingPolicy(ctx context.Context, campaignID string) (CampaignPolicy, error)
}

// CandidateGuard confirms the candidate is approved in the campaign.
type CandidateGuard interface {
	Votable(ctx context.Context, campaignID string, candidateID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
