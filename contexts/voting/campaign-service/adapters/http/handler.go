package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"peervote/contexts/voting/campaign-service/application/commands"
	"peervote/contexts/voting/campaign-service/application/queries"
	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	httptransport "peervote/contexts/voting/campaign-service/transport/http"
)

type Handler struct {
	OpenManual commands.OpenManualCampaignUseCase
	Close      commands.CloseCampaignUseCase
	Cancel     commands.CancelCampaignUseCase
	Get        queries.GetCampaignUseCase
	List       queries.ListCampaignsUseCase
	Logger     *slog.Logger
}

func (h Handler) OpenCampaignHandler(ctx context.Context, req httptransport.OpenCampaignRequest) (httptransport.CampaignResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return httptransport.CampaignResponse{}, domainerrors.ErrInvalidWindow
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return httptransport.CampaignResponse{}, domainerrors.ErrInvalidWindow
	}

	campaign, err := h.OpenManual.Execute(ctx, commands.OpenManualCampaignCommand{
		TargetRole:           req.TargetRole,
		StartTime:            start,
		EndTime:              end,
		PassThresholdPercent: req.PassThresholdPercent,
		EligibleVoters:       req.EligibleVoters,
		MaxModifications:     req.MaxModifications,
		CanModifyVotes:       req.CanModifyVotes,
		BufferPeriodDays:     req.BufferPeriodDays,
	})
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return toCampaignResponse(campaign), nil
}

func (h Handler) CloseCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	campaign, err := h.Close.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return toCampaignResponse(campaign), nil
}

func (h Handler) CancelCampaignHandler(ctx context.Context, campaignID string, req httptransport.CancelCampaignRequest) (httptransport.CampaignResponse, error) {
	campaign, err := h.Cancel.Execute(ctx, campaignID, req.Reason)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return toCampaignResponse(campaign), nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	campaign, err := h.Get.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return toCampaignResponse(campaign), nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, status string) (httptransport.CampaignListResponse, error) {
	campaigns, err := h.List.Execute(ctx, status)
	if err != nil {
		return httptransport.CampaignListResponse{}, err
	}
	out := make([]httptransport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, toCampaignResponse(campaign))
	}
	return httptransport.CampaignListResponse{Campaigns: out}, nil
}

func toCampaignResponse(c entities.PromotionCampaign) httptransport.CampaignResponse {
	return httptransport.CampaignResponse{
		CampaignID:           c.CampaignID,
		TargetRole:           c.TargetRole,
		SubType:              string(c.SubType),
		Status:               string(c.Status),
		StartTime:            c.StartTime.UTC().Format(time.RFC3339),
		EndTime:              c.EndTime.UTC().Format(time.RFC3339),
		IsAnonymous:          c.IsAnonymous,
		CanModifyVotes:       c.CanModifyVotes,
		MaxModifications:     c.MaxModifications,
		BufferPeriodDays:     c.BufferPeriodDays,
		PassThresholdPercent: c.PassThresholdPercent,
		EligibleVoters:       c.EligibleVoters,
		SystemGenerated:      c.SystemGenerated,
		Attempt:              c.Attempt,
		PredecessorID:        c.PredecessorID,
		Outcome:              c.Outcome,
		TotalVotes:           c.TotalVotes,
		TotalVoters:          c.TotalVoters,
		CreatedAt:            c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
