package entities

import (
	"fmt"
	"strings"
	"time"
)

type CandidateStatus string

const (
	StatusPending   CandidateStatus = "pending"
	StatusApproved  CandidateStatus = "approved"
	StatusRejected  CandidateStatus = "rejected"
	StatusWithdrawn CandidateStatus = "withdrawn"
	StatusPromoted  CandidateStatus = "promoted"
)

// PromotionCandidate is one employee standing in one campaign. The anonymous
// sequence comes from a global counter and is never reused, so an anonymous
// id identifies a candidacy across campaigns without exposing the employee.
type PromotionCandidate struct {
	CandidateID  string
	CampaignID   string
	EmployeeID   string
	AnonymousSeq int64
	AnonymousID  string
	Status       CandidateStatus
	Position     string
	TenureYears  int
	Statement    string
	VoteCount    int
	VotePercent  float64
	Ranking      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormatAnonymousID renders the display form of a sequence number. Widths
// past three digits grow naturally.
func FormatAnonymousID(seq int64) string {
	return fmt.Sprintf("CANDIDATE_%03d", seq)
}

func ValidEmployeeID(employeeID string) bool {
	return strings.TrimSpace(employeeID) != ""
}

// CanTransition encodes the candidate lifecycle. Rejected, withdrawn and
// promoted are terminal.
func CanTransition(from CandidateStatus, to CandidateStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusWithdrawn
	case StatusApproved:
		return to == StatusWithdrawn || to == StatusPromoted
	default:
		return false
	}
}
