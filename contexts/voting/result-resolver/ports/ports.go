package ports

import (
	"context"
	"time"

	"peervote/contexts/voting/result-resolver/domain/entities"
	"peervote/internal/shared/events"
)

// CampaignView is the slice of campaign state resolution needs.
type CampaignView struct {
	CampaignID           string
	Status               string
	EndTime              time.Time
	PassThresholdPercent float64
	SystemGenerated      bool
	Outcome              string
	TotalVotes           int
	TotalVoters          int
	TargetRole           string
}

// CampaignStateMachine drives the exclusive close owned by the resolver.
// Implemented against the campaign service module.
type CampaignStateMachine interface {
	GetCampaign(ctx context.Context, campaignID string) (CampaignView, error)
	// BeginClosing wins the active -> closing transition; false means
	// another resolver holds it or the campaign already left active.
	BeginClosing(ctx context.Context, campaignID string, at time.Time) (bool, error)
	// CompleteClosing performs closing -> closed with the outcome and
	// participation totals.
	CompleteClosing(ctx context.Context, campaignID string, outcome string, totalVotes int, totalVoters int, at time.Time) error
	// ListResolvable returns ids of ended active campaigns and campaigns
	// stuck in closing.
	ListResolvable(ctx context.Context, now time.Time, limit int) ([]string, error)
}

// RankedCandidate is one row of the registry's recomputed tally, ordered by
// the registry's tie-break.
type RankedCandidate struct {
	CandidateID string
	AnonymousID string
	VoteCount   int
	VotePercent float64
	Ranking     int
}

type TallyService interface {
	Recompute(ctx context.Context, campaignID string) ([]RankedCandidate, int, error)
}

type LedgerSummary interface {
	Summarize(ctx context.Context, campaignID string) (totalVotes int, totalVoters int, err error)
}

type PromotionMarker interface {
	MarkPromoted(ctx context.Context, candidateID string) error
}

// RetryScheduler opens the successor of a failed automatic campaign.
type RetryScheduler interface {
	ScheduleRetry(ctx context.Context, campaignID string) (string, error)
}

type OutcomeRepository interface {
	// SaveOutcome is an idempotent upsert keyed by campaign id.
	SaveOutcome(ctx context.Context, outcome entities.CampaignOutcome) error
	GetOutcome(ctx context.Context, campaignID string) (entities.CampaignOutcome, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
