package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OutcomeResponse struct {
	CampaignID        string  `json:"campaign_id"`
	Outcome           string  `json:"outcome"`
	WinnerAnonymousID string  `json:"winner_anonymous_id,omitempty"`
	WinningPercentage float64 `json:"winning_percentage"`
	TotalVotes        int     `json:"total_votes"`
	TotalVoters       int     `json:"total_voters"`
	RetryCampaignID   string  `json:"retry_campaign_id,omitempty"`
	ResolvedAt        string  `json:"resolved_at"`
}
