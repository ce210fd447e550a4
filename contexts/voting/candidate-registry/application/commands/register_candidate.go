package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/voting/candidate-registry/application"
	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

type RegisterCandidateCommand struct {
	CampaignID string
	EmployeeID string
	Statement  string
}

// RegisterCandidateUseCase enrolls an employee into a campaign. Directory
// profile fields are copied onto the candidacy so the anonymized read view
// never has to join back to the employee record.
type RegisterCandidateUseCase struct {
	Candidates ports.CandidateRepository
	Campaigns  ports.CampaignGate
	Directory  ports.EmployeeDirectory
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RegisterCandidateUseCase) Execute(ctx context.Context, cmd RegisterCandidateCommand) (entities.PromotionCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID := strings.TrimSpace(cmd.CampaignID)
	if campaignID == "" || !entities.ValidEmployeeID(cmd.EmployeeID) {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidCandidateInput
	}

	campaign, err := uc.Campaigns.Lookup(ctx, campaignID)
	if err != nil {
		return entities.PromotionCandidate{}, err
	}
	if !registrationOpen(campaign.Status) {
		return entities.PromotionCandidate{}, domainerrors.ErrCampaignClosed
	}

	profile, err := uc.Directory.Lookup(ctx, strings.TrimSpace(cmd.EmployeeID))
	if err != nil {
		return entities.PromotionCandidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.PromotionCandidate{}, err
	}
	now := resolveNow(uc.Clock)

	candidate, err := uc.Candidates.RegisterCandidate(ctx, entities.PromotionCandidate{
		CandidateID: candidateID,
		CampaignID:  campaignID,
		EmployeeID:  strings.TrimSpace(cmd.EmployeeID),
		Status:      entities.StatusPending,
		Position:    profile.Position,
		TenureYears: profile.TenureYears,
		Statement:   strings.TrimSpace(cmd.Statement),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entities.PromotionCandidate{}, err
	}

	logger.Info("candidate registered",
		"event", "candidate_registered",
		"module", "voting/candidate-registry",
		"layer", "application",
		"campaign_id", campaignID,
		"candidate_id", candidate.CandidateID,
		"anonymous_id", candidate.AnonymousID,
	)
	return candidate, nil
}

func registrationOpen(status string) bool {
	return status == "draft" || status == "active"
}

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
