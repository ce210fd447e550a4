package queries

import (
	"context"
	"strings"

	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.PromotionCampaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return entities.PromotionCampaign{}, domainerrors.ErrInvalidCampaignInput
	}
	return uc.Campaigns.GetCampaign(ctx, campaignID)
}

// ListCampaignsUseCase lists campaigns, optionally filtered by status. An
// empty status means all.
type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, status string) ([]entities.PromotionCampaign, error) {
	status = strings.TrimSpace(status)
	if status != "" {
		switch entities.CampaignStatus(status) {
		case entities.StatusDraft, entities.StatusActive, entities.StatusClosing, entities.StatusClosed, entities.StatusCancelled:
		default:
			return nil, domainerrors.ErrInvalidCampaignInput
		}
	}
	return uc.Campaigns.ListCampaigns(ctx, status)
}
