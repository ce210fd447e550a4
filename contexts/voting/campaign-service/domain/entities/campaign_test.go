package entities

import (
	"testing"
	"time"
)

func TestCanTransitionIsMonotonic(t *testing.T) {
	allowed := []struct {
		from CampaignStatus
		to   CampaignStatus
	}{
		{StatusDraft, StatusActive},
		{StatusDraft, StatusCancelled},
		{StatusActive, StatusClosing},
		{StatusActive, StatusClosed},
		{StatusActive, StatusCancelled},
		{StatusClosing, StatusClosed},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from CampaignStatus
		to   CampaignStatus
	}{
		{StatusClosed, StatusActive},
		{StatusClosed, StatusClosing},
		{StatusCancelled, StatusActive},
		{StatusClosing, StatusActive},
		{StatusActive, StatusDraft},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestWindowContainsIsHalfOpen(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	campaign := PromotionCampaign{StartTime: start, EndTime: end}

	if !campaign.WindowContains(start) {
		t.Fatal("window must include its start")
	}
	if campaign.WindowContains(end) {
		t.Fatal("window must exclude its end")
	}
	if !campaign.Ended(end) {
		t.Fatal("campaign ends exactly at end time")
	}
	if campaign.Ended(end.Add(-time.Second)) {
		t.Fatal("campaign has not ended one second before end time")
	}
}
