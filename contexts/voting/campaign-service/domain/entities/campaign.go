package entities

import (
	"strings"
	"time"
)

type CampaignSubType string
type CampaignStatus string

const (
	SubTypeManual        CampaignSubType = "manual"
	SubTypeAutoPromotion CampaignSubType = "auto_promotion"
	SubTypeAutoDemotion  CampaignSubType = "auto_demotion"

	StatusDraft     CampaignStatus = "draft"
	StatusActive    CampaignStatus = "active"
	StatusClosing   CampaignStatus = "closing"
	StatusClosed    CampaignStatus = "closed"
	StatusCancelled CampaignStatus = "cancelled"
)

const (
	OutcomePassed = "passed"
	OutcomeFailed = "failed"
)

// PromotionCampaign is a single time-boxed voting round for a target role.
// Voting is always anonymous; IsAnonymous exists so the read surface can say
// so explicitly.
type PromotionCampaign struct {
	CampaignID           string
	TargetRole           string
	SubType              CampaignSubType
	Status               CampaignStatus
	StartTime            time.Time
	EndTime              time.Time
	IsAnonymous          bool
	CanModifyVotes       bool
	MaxModifications     int
	BufferPeriodDays     int
	PassThresholdPercent float64
	EligibleVoters       int
	TriggerEmployeeID    string
	TriggerYear          int
	TriggerMonth         int
	SystemGenerated      bool
	Attempt              int
	PredecessorID        string
	Outcome              string
	TotalVotes           int
	TotalVoters          int
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ActivatedAt          *time.Time
	ClosedAt             *time.Time
}

func (c PromotionCampaign) WindowContains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(c.StartTime.UTC()) && t.Before(c.EndTime.UTC())
}

func (c PromotionCampaign) Ended(now time.Time) bool {
	return !now.UTC().Before(c.EndTime.UTC())
}

func (c PromotionCampaign) Automatic() bool {
	return c.SubType == SubTypeAutoPromotion || c.SubType == SubTypeAutoDemotion
}

func ValidWindow(start time.Time, end time.Time) bool {
	return !start.IsZero() && !end.IsZero() && end.After(start)
}

func ValidThreshold(percent float64) bool {
	return percent >= 0 && percent <= 100
}

func ValidTargetRole(role string) bool {
	return strings.TrimSpace(role) != ""
}

// ValidElectorate guards the tally divisor. Abstention counts against the
// pass threshold, so a campaign must know how many voters could have cast.
func ValidElectorate(size int) bool {
	return size > 0
}

func IsAutomaticSubType(value CampaignSubType) bool {
	return value == SubTypeAutoPromotion || value == SubTypeAutoDemotion
}

// CanTransition encodes the monotonic status machine. Closed and cancelled
// are terminal; nothing moves backwards.
func CanTransition(from CampaignStatus, to CampaignStatus) bool {
	switch from {
	case StatusDraft:
		return to == StatusActive || to == StatusCancelled
	case StatusActive:
		return to == StatusClosing || to == StatusClosed || to == StatusCancelled
	case StatusClosing:
		return to == StatusClosed
	default:
		return false
	}
}
