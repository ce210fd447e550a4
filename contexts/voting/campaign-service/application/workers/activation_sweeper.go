package workers

import (
	"context"
	"log/slog"
	"time"

	application "peervote/contexts/voting/campaign-service/application"
	"peervote/contexts/voting/campaign-service/ports"
)

// ActivationSweeper flips draft campaigns to active once their voting window
// opens. Manual campaigns scheduled in the future and retry successors both
// depend on this sweep.
type ActivationSweeper struct {
	Campaigns ports.CampaignRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

func (j ActivationSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	activated, err := j.Campaigns.ActivateDue(ctx, now, limit)
	if err != nil {
		logger.Error("activation sweep failed",
			"event", "campaign_activation_failed",
			"module", "voting/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, campaign := range activated {
		if j.Outbox != nil && j.IDGen != nil {
			eventID, err := j.IDGen.NewID(ctx)
			if err != nil {
				return err
			}
			if err := j.Outbox.AppendOutbox(ctx, newOpenedEnvelope(eventID, campaign, now)); err != nil {
				return err
			}
		}
		logger.Info("campaign activated",
			"event", "campaign_activated",
			"module", "voting/campaign-service",
			"layer", "worker",
			"campaign_id", campaign.CampaignID,
			"target_role", campaign.TargetRole,
		)
	}
	return nil
}
