package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "peervote/contexts/voting/result-resolver/application"
	"peervote/contexts/voting/result-resolver/application/commands"
	domainerrors "peervote/contexts/voting/result-resolver/domain/errors"
	"peervote/contexts/voting/result-resolver/ports"
)

// ResolutionSweeper finds ended active campaigns and campaigns stuck in
// closing, and resolves them one by one. A conflict on a single campaign
// means another resolver got there first and is not a sweep failure.
type ResolutionSweeper struct {
	Campaigns ports.CampaignStateMachine
	Resolve   commands.ResolveUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (j ResolutionSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 50
	}

	due, err := j.Campaigns.ListResolvable(ctx, now, limit)
	if err != nil {
		logger.Error("resolution sweep list failed",
			"event", "resolution_sweep_list_failed",
			"module", "voting/result-resolver",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, campaignID := range due {
		if _, err := j.Resolve.Execute(ctx, campaignID); err != nil {
			if errors.Is(err, domainerrors.ErrConflict) || errors.Is(err, domainerrors.ErrCampaignNotEnded) {
				continue
			}
			logger.Error("resolution sweep campaign failed",
				"event", "resolution_sweep_campaign_failed",
				"module", "voting/result-resolver",
				"layer", "worker",
				"campaign_id", campaignID,
				"error", err.Error(),
			)
			return err
		}
	}
	return nil
}
