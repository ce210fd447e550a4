package commands

import (
	"time"

	"peervote/internal/shared/events"
)

const sourceService = "peervote"

func newCampaignEnvelope(eventID string, eventType string, campaignID string, occurredAt time.Time, payload map[string]any) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     "promotion_campaign",
		EntityID:       campaignID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}
