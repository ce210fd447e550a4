package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OpenCampaignRequest struct {
	TargetRole           string  `json:"target_role"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	PassThresholdPercent float64 `json:"pass_threshold_percent"`
	EligibleVoters       int     `json:"eligible_voters"`
	MaxModifications     int     `json:"max_modifications"`
	CanModifyVotes       bool    `json:"can_modify_votes"`
	BufferPeriodDays     int     `json:"buffer_period_days"`
}

type CancelCampaignRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CampaignResponse struct {
	CampaignID           string  `json:"campaign_id"`
	TargetRole           string  `json:"target_role"`
	SubType              string  `json:"sub_type"`
	Status               string  `json:"status"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	IsAnonymous          bool    `json:"is_anonymous"`
	CanModifyVotes       bool    `json:"can_modify_votes"`
	MaxModifications     int     `json:"max_modifications"`
	BufferPeriodDays     int     `json:"buffer_period_days"`
	PassThresholdPercent float64 `json:"pass_threshold_percent"`
	EligibleVoters       int     `json:"eligible_voters"`
	SystemGenerated      bool    `json:"system_generated"`
	Attempt              int     `json:"attempt"`
	PredecessorID        string  `json:"predecessor_id,omitempty"`
	Outcome              string  `json:"outcome,omitempty"`
	TotalVotes           int     `json:"total_votes"`
	TotalVoters          int     `json:"total_voters"`
	CreatedAt            string  `json:"created_at"`
}

type CampaignListResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
}
