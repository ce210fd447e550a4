package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordLateEventRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Date       string `json:"date,omitempty"`
	Minutes    int    `json:"minutes"`
	Reason     string `json:"reason,omitempty"`
}

type LateRecordDTO struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
	Reason  string `json:"reason,omitempty"`
}

type StatisticsResponse struct {
	EmployeeID       string          `json:"employee_id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	LateCount        int             `json:"late_count"`
	LateMinutesTotal int             `json:"late_minutes_total"`
	LateRecords      []LateRecordDTO `json:"late_records"`
	Phase            string          `json:"phase"`
	PunishmentCount  int             `json:"punishment_count"`
}

type RecordLateEventResponse struct {
	Statistics StatisticsResponse `json:"statistics"`
	Triggered  bool               `json:"triggered"`
	CampaignID string             `json:"campaign_id,omitempty"`
}
