package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type CastVoteResponse struct {
	CampaignID        string `json:"campaign_id"`
	CandidateID       string `json:"candidate_id"`
	ModificationCount int    `json:"modification_count"`
	Revised           bool   `json:"revised"`
	CastAt            string `json:"cast_at"`
}

type CampaignSummaryResponse struct {
	CampaignID  string `json:"campaign_id"`
	TotalVotes  int    `json:"total_votes"`
	TotalVoters int    `json:"total_voters"`
}
