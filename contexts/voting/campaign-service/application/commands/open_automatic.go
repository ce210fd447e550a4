package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/voting/campaign-service/application"
	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

// AutomaticDefaults carries the policy knobs applied to system-generated
// campaigns when the trigger does not specify them.
type AutomaticDefaults struct {
	Duration             time.Duration
	PassThresholdPercent float64
	MaxModifications     int
	BufferPeriodDays     int
}

type OpenAutomaticCampaignCommand struct {
	TriggerEmployeeID string
	TriggerYear       int
	TriggerMonth      int
	Kind              entities.CampaignSubType
	TargetRole        string
	StartTime         time.Time
	EndTime           time.Time
	EligibleVoters    int
	Attempt           int
	PredecessorID     string
}

type OpenAutomaticCampaignResult struct {
	Campaign entities.PromotionCampaign
	Created  bool
}

// OpenAutomaticCampaignUseCase opens a system-generated campaign with
// create-or-fetch semantics: at most one active automatic campaign exists
// per (trigger employee, target role), and a second trigger returns the
// existing one instead of erroring.
type OpenAutomaticCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Defaults  AutomaticDefaults
	Logger    *slog.Logger
}

func (uc OpenAutomaticCampaignUseCase) Execute(ctx context.Context, cmd OpenAutomaticCampaignCommand) (OpenAutomaticCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.TriggerEmployeeID) == "" || !entities.ValidTargetRole(cmd.TargetRole) {
		return OpenAutomaticCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}
	if !entities.IsAutomaticSubType(cmd.Kind) {
		return OpenAutomaticCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}
	if !entities.ValidElectorate(cmd.EligibleVoters) {
		return OpenAutomaticCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	now := resolveNow(uc.Clock)
	defaults := uc.resolveDefaults()

	start := cmd.StartTime
	end := cmd.EndTime
	if start.IsZero() {
		start = now
	}
	if end.IsZero() {
		end = start.Add(defaults.Duration)
	}
	if !entities.ValidWindow(start, end) {
		return OpenAutomaticCampaignResult{}, domainerrors.ErrInvalidWindow
	}

	attempt := cmd.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return OpenAutomaticCampaignResult{}, err
	}

	status := entities.StatusDraft
	var activatedAt *time.Time
	if !start.UTC().After(now) {
		status = entities.StatusActive
		at := now
		activatedAt = &at
	}

	campaign := entities.PromotionCampaign{
		CampaignID:           campaignID,
		TargetRole:           strings.TrimSpace(cmd.TargetRole),
		SubType:              cmd.Kind,
		Status:               status,
		StartTime:            start.UTC(),
		EndTime:              end.UTC(),
		IsAnonymous:          true,
		CanModifyVotes:       true,
		MaxModifications:     defaults.MaxModifications,
		BufferPeriodDays:     defaults.BufferPeriodDays,
		PassThresholdPercent: defaults.PassThresholdPercent,
		EligibleVoters:       cmd.EligibleVoters,
		TriggerEmployeeID:    strings.TrimSpace(cmd.TriggerEmployeeID),
		TriggerYear:          cmd.TriggerYear,
		TriggerMonth:         cmd.TriggerMonth,
		SystemGenerated:      true,
		Attempt:              attempt,
		PredecessorID:        strings.TrimSpace(cmd.PredecessorID),
		CreatedAt:            now,
		UpdatedAt:            now,
		ActivatedAt:          activatedAt,
	}

	stored, created, err := uc.Campaigns.CreateOrFetchActiveAutomatic(ctx, campaign)
	if err != nil {
		return OpenAutomaticCampaignResult{}, err
	}
	if !created {
		logger.Info("automatic campaign trigger collapsed into existing campaign",
			"event", "campaign_auto_open_deduplicated",
			"module", "voting/campaign-service",
			"layer", "application",
			"campaign_id", stored.CampaignID,
			"trigger_employee_id", campaign.TriggerEmployeeID,
		)
		return OpenAutomaticCampaignResult{Campaign: stored}, nil
	}

	if stored.Status == entities.StatusActive {
		if err := appendCampaignOpened(ctx, uc.Outbox, uc.IDGen, stored, now); err != nil {
			return OpenAutomaticCampaignResult{}, err
		}
	}

	logger.Info("automatic campaign opened",
		"event", "campaign_auto_opened",
		"module", "voting/campaign-service",
		"layer", "application",
		"campaign_id", stored.CampaignID,
		"sub_type", string(stored.SubType),
		"trigger_employee_id", stored.TriggerEmployeeID,
		"attempt", stored.Attempt,
	)
	return OpenAutomaticCampaignResult{Campaign: stored, Created: true}, nil
}

func (uc OpenAutomaticCampaignUseCase) resolveDefaults() AutomaticDefaults {
	defaults := uc.Defaults
	if defaults.Duration <= 0 {
		defaults.Duration = 7 * 24 * time.Hour
	}
	if defaults.PassThresholdPercent <= 0 {
		defaults.PassThresholdPercent = 50
	}
	if defaults.MaxModifications <= 0 {
		defaults.MaxModifications = 3
	}
	if defaults.BufferPeriodDays <= 0 {
		defaults.BufferPeriodDays = 3
	}
	return defaults
}
