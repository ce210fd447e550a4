package commands

import (
	"context"
	"log/slog"
	"strings"

	application "peervote/contexts/voting/candidate-registry/application"
	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

type ReviewDecision string

const (
	DecisionApprove  ReviewDecision = "approve"
	DecisionReject   ReviewDecision = "reject"
	DecisionWithdraw ReviewDecision = "withdraw"
)

// ReviewCandidateUseCase moves a candidacy through its review lifecycle.
// Reviews are only accepted while the parent campaign is still draft or
// active; once a campaign enters closing its roster is frozen.
type ReviewCandidateUseCase struct {
	Candidates ports.CandidateRepository
	Campaigns  ports.CampaignGate
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ReviewCandidateUseCase) Execute(ctx context.Context, candidateID string, decision ReviewDecision) (entities.PromotionCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)

	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidCandidateInput
	}
	target, ok := decisionTarget(decision)
	if !ok {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidCandidateInput
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.PromotionCandidate{}, err
	}

	campaign, err := uc.Campaigns.Lookup(ctx, candidate.CampaignID)
	if err != nil {
		return entities.PromotionCandidate{}, err
	}
	if !registrationOpen(campaign.Status) {
		return entities.PromotionCandidate{}, domainerrors.ErrCampaignClosed
	}
	if !entities.CanTransition(candidate.Status, target) {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidStateChange
	}

	updated, err := uc.Candidates.UpdateStatus(ctx, candidateID, candidate.Status, target, resolveNow(uc.Clock))
	if err != nil {
		return entities.PromotionCandidate{}, err
	}

	logger.Info("candidate reviewed",
		"event", "candidate_reviewed",
		"module", "voting/candidate-registry",
		"layer", "application",
		"candidate_id", candidateID,
		"campaign_id", candidate.CampaignID,
		"decision", string(decision),
		"status", string(updated.Status),
	)
	return updated, nil
}

func decisionTarget(decision ReviewDecision) (entities.CandidateStatus, bool) {
	switch decision {
	case DecisionApprove:
		return entities.StatusApproved, true
	case DecisionReject:
		return entities.StatusRejected, true
	case DecisionWithdraw:
		return entities.StatusWithdrawn, true
	default:
		return "", false
	}
}

// MarkPromotedUseCase applies the terminal promoted state at resolution
// time. Unlike reviews it runs after the campaign has closed, so it skips
// the campaign gate.
type MarkPromotedUseCase struct {
	Candidates ports.CandidateRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc MarkPromotedUseCase) Execute(ctx context.Context, candidateID string) (entities.PromotionCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)

	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidCandidateInput
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.PromotionCandidate{}, err
	}
	if candidate.Status == entities.StatusPromoted {
		return candidate, nil
	}
	if !entities.CanTransition(candidate.Status, entities.StatusPromoted) {
		return entities.PromotionCandidate{}, domainerrors.ErrInvalidStateChange
	}

	updated, err := uc.Candidates.UpdateStatus(ctx, candidateID, candidate.Status, entities.StatusPromoted, resolveNow(uc.Clock))
	if err != nil {
		return entities.PromotionCandidate{}, err
	}

	logger.Info("candidate promoted",
		"event", "candidate_promoted",
		"module", "voting/candidate-registry",
		"layer", "application",
		"candidate_id", candidateID,
		"campaign_id", candidate.CampaignID,
		"anonymous_id", candidate.AnonymousID,
	)
	return updated, nil
}
