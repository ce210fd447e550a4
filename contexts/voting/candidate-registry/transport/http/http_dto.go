package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterCandidateRequest struct {
	EmployeeID string `json:"employee_id"`
	Statement  string `json:"statement,omitempty"`
}

type CandidateResponse struct {
	CandidateID string  `json:"candidate_id"`
	AnonymousID string  `json:"anonymous_id"`
	Status      string  `json:"status"`
	Position    string  `json:"position,omitempty"`
	TenureYears int     `json:"tenure_years,omitempty"`
	Statement   string  `json:"statement,omitempty"`
	VoteCount   int     `json:"vote_count"`
	VotePercent float64 `json:"vote_percent"`
	Ranking     int     `json:"ranking,omitempty"`
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}
