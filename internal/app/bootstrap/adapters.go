package bootstrap

import (
	"context"
	"errors"
	"time"

	campaignservice "peervote/contexts/voting/campaign-service"
	campaigncommands "peervote/contexts/voting/campaign-service/application/commands"
	campaignentities "peervote/contexts/voting/campaign-service/domain/entities"
	campaignerrors "peervote/contexts/voting/campaign-service/domain/errors"
	campaignports "peervote/contexts/voting/campaign-service/ports"
	candidateregistry "peervote/contexts/voting/candidate-registry"
	candidatecommands "peervote/contexts/voting/candidate-registry/application/commands"
	candidateentities "peervote/contexts/voting/candidate-registry/domain/entities"
	candidateerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	candidateports "peervote/contexts/voting/candidate-registry/ports"
	resolverports "peervote/contexts/voting/result-resolver/ports"
	votingledger "peervote/contexts/voting/voting-ledger"
	ledgerports "peervote/contexts/voting/voting-ledger/ports"
	attendanceports "peervote/contexts/workforce/attendance-tracker/ports"
)

// demotionReviewRole is the synthetic target role automatic demotion
// campaigns run against. Keeping it constant makes the unique active
// (trigger employee, role) constraint collapse repeated triggers.
const demotionReviewRole = "demotion-review"

// electorateSource reports how many employees are eligible to vote.
type electorateSource interface {
	Headcount(ctx context.Context) (int, error)
}

// campaignTriggerAdapter hands threshold crossings from the attendance
// tracker to the campaign service. The trigger employee is enrolled as the
// sole, pre-approved candidate of the demotion vote, and the directory
// headcount fixes the campaign's eligible electorate at open time.
type campaignTriggerAdapter struct {
	campaigns  campaignservice.Module
	candidates candidateregistry.Module
	electorate electorateSource
}

func (a campaignTriggerAdapter) OpenDemotionCampaign(ctx context.Context, employeeID string, year int, month int, firedAt time.Time) (string, error) {
	eligible, err := a.electorate.Headcount(ctx)
	if err != nil {
		return "", err
	}
	if eligible <= 0 {
		// An unseeded directory must not block a demotion trigger.
		eligible = 1
	}
	result, err := a.campaigns.OpenAutomatic.Execute(ctx, campaigncommands.OpenAutomaticCampaignCommand{
		TriggerEmployeeID: employeeID,
		TriggerYear:       year,
		TriggerMonth:      month,
		Kind:              campaignentities.SubTypeAutoDemotion,
		TargetRole:        demotionReviewRole,
		StartTime:         firedAt,
		EligibleVoters:    eligible,
	})
	if err != nil {
		return "", err
	}
	if !result.Created {
		return result.Campaign.CampaignID, nil
	}

	candidate, err := a.candidates.Register.Execute(ctx, candidatecommands.RegisterCandidateCommand{
		CampaignID: result.Campaign.CampaignID,
		EmployeeID: employeeID,
	})
	if err != nil {
		if errors.Is(err, candidateerrors.ErrDuplicateCandidate) {
			return result.Campaign.CampaignID, nil
		}
		return "", err
	}
	if _, err := a.candidates.Review.Execute(ctx, candidate.CandidateID, candidatecommands.DecisionApprove); err != nil {
		return "", err
	}
	return result.Campaign.CampaignID, nil
}

var _ attendanceports.CampaignTrigger = campaignTriggerAdapter{}

// punishmentCounterAdapter routes the retry path's punishment increment back
// into the attendance tracker.
type punishmentCounterAdapter struct {
	attendance interface {
		Execute(ctx context.Context, employeeID string, year int, month int) (int, error)
	}
}

func (a punishmentCounterAdapter) Increment(ctx context.Context, employeeID string, year int, month int) (int, error) {
	return a.attendance.Execute(ctx, employeeID, year, month)
}

var _ campaignports.PunishmentCounter = punishmentCounterAdapter{}

// campaignGateAdapter exposes campaign state to the candidate registry.
type campaignGateAdapter struct {
	campaigns campaignports.CampaignRepository
}

func (a campaignGateAdapter) Lookup(ctx context.Context, campaignID string) (candidateports.CampaignView, error) {
	campaign, err := a.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return candidateports.CampaignView{}, err
	}
	return candidateports.CampaignView{
		CampaignID:     campaign.CampaignID,
		TargetRole:     campaign.TargetRole,
		Status:         string(campaign.Status),
		EligibleVoters: campaign.EligibleVoters,
		TotalVoters:    campaign.TotalVoters,
	}, nil
}

var _ candidateports.CampaignGate = campaignGateAdapter{}

// voteCounterAdapter lets the registry read tally counts from the ledger.
type voteCounterAdapter struct {
	votes ledgerports.VoteRepository
}

func (a voteCounterAdapter) CountVotes(ctx context.Context, campaignID string) (map[string]int, int, error) {
	return a.votes.CountVotes(ctx, campaignID)
}

var _ candidateports.VoteCounter = voteCounterAdapter{}

// campaignGuardAdapter gives the ledger the admission slice of campaign
// state. A campaign accepts votes only while active and inside its window.
type campaignGuardAdapter struct {
	campaigns campaignports.CampaignRepository
	clock     campaignports.Clock
}

func (a campaignGuardAdapter) VotingPolicy(ctx context.Context, campaignID string) (ledgerports.CampaignPolicy, error) {
	campaign, err := a.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return ledgerports.CampaignPolicy{}, err
	}
	now := time.Now().UTC()
	if a.clock != nil {
		now = a.clock.Now().UTC()
	}
	return ledgerports.CampaignPolicy{
		CampaignID:       campaign.CampaignID,
		Active:           campaign.Status == campaignentities.StatusActive && campaign.WindowContains(now),
		CanModifyVotes:   campaign.CanModifyVotes,
		MaxModifications: campaign.MaxModifications,
	}, nil
}

var _ ledgerports.CampaignGuard = campaignGuardAdapter{}

// candidateGuardAdapter confirms votability against the registry.
type candidateGuardAdapter struct {
	candidates candidateports.CandidateRepository
}

func (a candidateGuardAdapter) Votable(ctx context.Context, campaignID string, candidateID string) (bool, error) {
	candidate, err := a.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, candidateerrors.ErrCandidateNotFound) {
			return false, nil
		}
		return false, err
	}
	return candidate.CampaignID == campaignID && candidate.Status == candidateentities.StatusApproved, nil
}

var _ ledgerports.CandidateGuard = candidateGuardAdapter{}

// resolverCampaignAdapter drives the campaign state machine for resolution.
type resolverCampaignAdapter struct {
	campaigns campaignports.CampaignRepository
}

func (a resolverCampaignAdapter) GetCampaign(ctx context.Context, campaignID string) (resolverports.CampaignView, error) {
	campaign, err := a.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return resolverports.CampaignView{}, err
	}
	return resolverports.CampaignView{
		CampaignID:           campaign.CampaignID,
		Status:               string(campaign.Status),
		EndTime:              campaign.EndTime,
		PassThresholdPercent: campaign.PassThresholdPercent,
		SystemGenerated:      campaign.SystemGenerated,
		Outcome:              campaign.Outcome,
		TotalVotes:           campaign.TotalVotes,
		TotalVoters:          campaign.TotalVoters,
		TargetRole:           campaign.TargetRole,
	}, nil
}

func (a resolverCampaignAdapter) BeginClosing(ctx context.Context, campaignID string, at time.Time) (bool, error) {
	_, err := a.campaigns.TransitionStatus(ctx, campaignID, campaignentities.StatusActive, campaignentities.StatusClosing, at)
	if err != nil {
		if errors.Is(err, campaignerrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a resolverCampaignAdapter) CompleteClosing(ctx context.Context, campaignID string, outcome string, totalVotes int, totalVoters int, at time.Time) error {
	_, err := a.campaigns.CloseWithOutcome(ctx, campaignID, campaignentities.StatusClosing, outcome, totalVotes, totalVoters, at)
	return err
}

func (a resolverCampaignAdapter) ListResolvable(ctx context.Context, now time.Time, limit int) ([]string, error) {
	campaigns, err := a.campaigns.ListResolvable(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(campaigns))
	for _, campaign := range campaigns {
		ids = append(ids, campaign.CampaignID)
	}
	return ids, nil
}

var _ resolverports.CampaignStateMachine = resolverCampaignAdapter{}

// tallyServiceAdapter runs the registry recompute for the resolver.
type tallyServiceAdapter struct {
	recompute candidatecommands.RecomputeTalliesUseCase
}

func (a tallyServiceAdapter) Recompute(ctx context.Context, campaignID string) ([]resolverports.RankedCandidate, int, error) {
	result, err := a.recompute.Execute(ctx, campaignID)
	if err != nil {
		return nil, 0, err
	}
	ranked := make([]resolverports.RankedCandidate, 0, len(result.Ranked))
	for _, candidate := range result.Ranked {
		ranked = append(ranked, resolverports.RankedCandidate{
			CandidateID: candidate.CandidateID,
			AnonymousID: candidate.AnonymousID,
			VoteCount:   candidate.VoteCount,
			VotePercent: candidate.VotePercent,
			Ranking:     candidate.Ranking,
		})
	}
	return ranked, result.TotalVoters, nil
}

var _ resolverports.TallyService = tallyServiceAdapter{}

// ledgerSummaryAdapter reads participation totals for the resolver.
type ledgerSummaryAdapter struct {
	ledger votingledger.Module
}

func (a ledgerSummaryAdapter) Summarize(ctx context.Context, campaignID string) (int, int, error) {
	summary, err := a.ledger.Summary.Execute(ctx, campaignID)
	if err != nil {
		return 0, 0, err
	}
	return summary.TotalVotes, summary.TotalVoters, nil
}

var _ resolverports.LedgerSummary = ledgerSummaryAdapter{}

// promotionMarkerAdapter applies the terminal promoted state.
type promotionMarkerAdapter struct {
	markPromoted candidatecommands.MarkPromotedUseCase
}

func (a promotionMarkerAdapter) MarkPromoted(ctx context.Context, candidateID string) error {
	_, err := a.markPromoted.Execute(ctx, candidateID)
	return err
}

var _ resolverports.PromotionMarker = promotionMarkerAdapter{}

// retrySchedulerAdapter opens retry successors through the campaign service.
type retrySchedulerAdapter struct {
	scheduleRetry campaigncommands.ScheduleRetryUseCase
}

func (a retrySchedulerAdapter) ScheduleRetry(ctx context.Context, campaignID string) (string, error) {
	return a.scheduleRetry.Execute(ctx, campaignID)
}

var _ resolverports.RetryScheduler = retrySchedulerAdapter{}
