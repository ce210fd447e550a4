package workers

import (
	"time"

	"peervote/contexts/voting/campaign-service/domain/entities"
	"peervote/internal/shared/events"
)

func newOpenedEnvelope(eventID string, campaign entities.PromotionCampaign, occurredAt time.Time) events.Envelope {
	return events.Envelope{
		EventID:        eventID,
		EventType:      "campaign.opened",
		SourceService:  "peervote",
		OccurredAtUTC:  occurredAt.UTC(),
		EntityType:     "promotion_campaign",
		EntityID:       campaign.CampaignID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"campaign_id": campaign.CampaignID,
			"target_role": campaign.TargetRole,
			"sub_type":    string(campaign.SubType),
			"start_time":  campaign.StartTime.UTC().Format(time.RFC3339),
			"end_time":    campaign.EndTime.UTC().Format(time.RFC3339),
		},
	}
}
