package entities

import "time"

const (
	OutcomePassed = "passed"
	OutcomeFailed = "failed"
)

// CampaignOutcome is the immutable resolution record for one campaign.
// Winner fields are empty when no votable candidate received a vote.
type CampaignOutcome struct {
	CampaignID        string
	Outcome           string
	WinnerCandidateID string
	WinnerAnonymousID string
	WinningPercentage float64
	TotalVotes        int
	TotalVoters       int
	RetryCampaignID   string
	ResolvedAt        time.Time
}
