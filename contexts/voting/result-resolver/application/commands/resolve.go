package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/voting/result-resolver/application"
	"peervote/contexts/voting/result-resolver/domain/entities"
	domainerrors "peervote/contexts/voting/result-resolver/domain/errors"
	"peervote/contexts/voting/result-resolver/ports"
	"peervote/internal/shared/events"
)

// ResolveUseCase closes an ended campaign and decides its outcome.
//
// The close is a two-step transition: win active -> closing, then persist
// the outcome, then complete closing -> closed. The outcome write precedes
// the final transition, so a crash in between leaves the campaign in closing
// and a re-run resumes from the saved tallies. Resolving an already closed
// campaign returns the stored outcome unchanged.
type ResolveUseCase struct {
	Campaigns ports.CampaignStateMachine
	Tally     ports.TallyService
	Ledger    ports.LedgerSummary
	Promoter  ports.PromotionMarker
	Retry     ports.RetryScheduler
	Outcomes  ports.OutcomeRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ResolveUseCase) Execute(ctx context.Context, campaignID string) (entities.CampaignOutcome, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return entities.CampaignOutcome{}, domainerrors.ErrInvalidResolveInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.CampaignOutcome{}, err
	}
	now := uc.now()

	switch campaign.Status {
	case "closed":
		return uc.Outcomes.GetOutcome(ctx, campaignID)
	case "closing":
		// Resume a resolution that lost its process mid-close.
	case "active":
		if now.Before(campaign.EndTime.UTC()) {
			return entities.CampaignOutcome{}, domainerrors.ErrCampaignNotEnded
		}
		won, err := uc.Campaigns.BeginClosing(ctx, campaignID, now)
		if err != nil {
			return entities.CampaignOutcome{}, err
		}
		if !won {
			return entities.CampaignOutcome{}, domainerrors.ErrConflict
		}
	default:
		return entities.CampaignOutcome{}, domainerrors.ErrNotResolvable
	}

	ranked, totalVoters, err := uc.Tally.Recompute(ctx, campaignID)
	if err != nil {
		return entities.CampaignOutcome{}, err
	}
	totalVotes, _, err := uc.Ledger.Summarize(ctx, campaignID)
	if err != nil {
		return entities.CampaignOutcome{}, err
	}

	outcome := entities.CampaignOutcome{
		CampaignID:  campaignID,
		Outcome:     entities.OutcomeFailed,
		TotalVotes:  totalVotes,
		TotalVoters: totalVoters,
		ResolvedAt:  now,
	}
	if len(ranked) > 0 {
		leader := ranked[0]
		outcome.WinnerCandidateID = leader.CandidateID
		outcome.WinnerAnonymousID = leader.AnonymousID
		outcome.WinningPercentage = leader.VotePercent
		// An empty electorate can never pass, regardless of threshold.
		if totalVoters > 0 && leader.VotePercent >= campaign.PassThresholdPercent {
			outcome.Outcome = entities.OutcomePassed
		}
	}

	if outcome.Outcome == entities.OutcomePassed {
		if err := uc.Promoter.MarkPromoted(ctx, outcome.WinnerCandidateID); err != nil {
			return entities.CampaignOutcome{}, err
		}
	}

	if err := uc.Outcomes.SaveOutcome(ctx, outcome); err != nil {
		return entities.CampaignOutcome{}, err
	}
	if err := uc.Campaigns.CompleteClosing(ctx, campaignID, outcome.Outcome, totalVotes, totalVoters, now); err != nil {
		return entities.CampaignOutcome{}, err
	}

	// Retry scheduling checks for a closed, failed campaign row, so it only
	// runs once the close has landed. The successor id is then folded back
	// into the stored outcome.
	if outcome.Outcome == entities.OutcomeFailed && campaign.SystemGenerated {
		retryID, err := uc.Retry.ScheduleRetry(ctx, campaignID)
		if err != nil {
			// The campaign still resolves; a missing retry is an
			// escalation handled outside this path.
			logger.Warn("retry scheduling failed during resolution",
				"event", "resolution_retry_failed",
				"module", "voting/result-resolver",
				"layer", "application",
				"campaign_id", campaignID,
				"error", err.Error(),
			)
		} else {
			outcome.RetryCampaignID = retryID
			if err := uc.Outcomes.SaveOutcome(ctx, outcome); err != nil {
				return entities.CampaignOutcome{}, err
			}
		}
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.CampaignOutcome{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, events.Envelope{
			EventID:        eventID,
			EventType:      "campaign.resolved",
			SourceService:  "peervote",
			OccurredAtUTC:  now,
			EntityType:     "promotion_campaign",
			EntityID:       campaignID,
			PayloadVersion: 1,
			Payload: map[string]any{
				"campaign_id":        campaignID,
				"outcome":            outcome.Outcome,
				"winner_anonymous":   outcome.WinnerAnonymousID,
				"winning_percentage": outcome.WinningPercentage,
				"total_voters":       totalVoters,
				"retry_campaign_id":  outcome.RetryCampaignID,
			},
		}); err != nil {
			return entities.CampaignOutcome{}, err
		}
	}

	logger.Info("campaign resolved",
		"event", "campaign_resolved",
		"module", "voting/result-resolver",
		"layer", "application",
		"campaign_id", campaignID,
		"outcome", outcome.Outcome,
		"winning_percentage", outcome.WinningPercentage,
		"total_voters", totalVoters,
		"retry_campaign_id", outcome.RetryCampaignID,
	)
	return outcome, nil
}

func (uc ResolveUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
