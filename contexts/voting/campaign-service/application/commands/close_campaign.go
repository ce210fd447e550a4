package commands

import (
	"context"
	"log/slog"
	"strings"

	application "peervote/contexts/voting/campaign-service/application"
	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

// CloseCampaignUseCase is the administrative force-close. It refuses to run
// before the voting window ends; result resolution has its own closing path.
type CloseCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CloseCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.PromotionCampaign, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.PromotionCampaign{}, err
	}
	if campaign.Status != entities.StatusActive {
		return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotActive
	}

	now := resolveNow(uc.Clock)
	if !campaign.Ended(now) {
		return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotEnded
	}

	closed, err := uc.Campaigns.TransitionStatus(ctx, campaignID, entities.StatusActive, entities.StatusClosed, now)
	if err != nil {
		return entities.PromotionCampaign{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.PromotionCampaign{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newCampaignEnvelope(eventID, "campaign.closed", campaignID, now, map[string]any{
			"campaign_id": campaignID,
			"reason":      "force_closed",
		})); err != nil {
			return entities.PromotionCampaign{}, err
		}
	}

	logger.Info("campaign force-closed",
		"event", "campaign_force_closed",
		"module", "voting/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
	)
	return closed, nil
}

// CancelCampaignUseCase is the administrative cancellation, reachable only
// from draft or active.
type CancelCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CancelCampaignUseCase) Execute(ctx context.Context, campaignID string, reason string) (entities.PromotionCampaign, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.PromotionCampaign{}, err
	}
	if !entities.CanTransition(campaign.Status, entities.StatusCancelled) {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidStateTransition
	}

	now := resolveNow(uc.Clock)
	cancelled, err := uc.Campaigns.TransitionStatus(ctx, campaignID, campaign.Status, entities.StatusCancelled, now)
	if err != nil {
		return entities.PromotionCampaign{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.PromotionCampaign{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, newCampaignEnvelope(eventID, "campaign.cancelled", campaignID, now, map[string]any{
			"campaign_id": campaignID,
			"reason":      strings.TrimSpace(reason),
		})); err != nil {
			return entities.PromotionCampaign{}, err
		}
	}

	logger.Info("campaign cancelled",
		"event", "campaign_cancelled",
		"module", "voting/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"reason", strings.TrimSpace(reason),
	)
	return cancelled, nil
}
