package ports

import (
	"context"
	"time"

	"peervote/contexts/voting/candidate-registry/domain/entities"
)

type TallyUpdate struct {
	CandidateID string
	VoteCount   int
	VotePercent float64
	Ranking     int
}

type CandidateRepository interface {
	// RegisterCandidate inserts the candidate and assigns the next value of
	// the global anonymous sequence. The storage layer enforces uniqueness of
	// (campaign_id, employee_id).
	RegisterCandidate(ctx context.Context, candidate entities.PromotionCandidate) (entities.PromotionCandidate, error)
	GetCandidate(ctx context.Context, candidateID string) (entities.PromotionCandidate, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]entities.PromotionCandidate, error)
	// UpdateStatus performs a guarded from -> to update and returns the
	// refreshed row.
	UpdateStatus(ctx context.Context, candidateID string, from entities.CandidateStatus, to entities.CandidateStatus, at time.Time) (entities.PromotionCandidate, error)
	// ApplyTallies writes a recomputed tally projection for a campaign.
	ApplyTallies(ctx context.Context, campaignID string, updates []TallyUpdate, at time.Time) error
}

// CampaignView is the slice of campaign state the registry needs for its
// guards.
type CampaignView struct {
	CampaignID     string
	TargetRole     string
	Status         string
	EligibleVoters int
	TotalVoters    int
}

// CampaignGate exposes the parent campaign; implemented against the campaign
// service module.
type CampaignGate interface {
	Lookup(ctx context.Context, campaignID string) (CampaignView, error)
}

// VoteCounter reads the ledger projection: per-candidate vote counts plus
// the number of distinct voters in the campaign.
type VoteCounter interface {
	CountVotes(ctx context.Context, campaignID string) (map[string]int, int, error)
}

// EmployeeProfile carries the directory fields copied onto a candidacy at
// registration time.
type EmployeeProfile struct {
	EmployeeID  string
	Position    string
	TenureYears int
}

type EmployeeDirectory interface {
	Lookup(ctx context.Context, employeeID string) (EmployeeProfile, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
