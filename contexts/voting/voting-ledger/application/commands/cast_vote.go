package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "peervote/contexts/voting/voting-ledger/application"
	"peervote/contexts/voting/voting-ledger/domain/entities"
	domainerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	"peervote/contexts/voting/voting-ledger/ports"
)

type CastVoteCommand struct {
	CampaignID    string
	VoterIdentity string
	CandidateID   string
}

type CastVoteResult struct {
	Vote    entities.PromotionVote
	Revised bool
}

// CastVoteUseCase records or revises a voter's choice. The voter identity is
// fingerprinted before any storage access and is never logged. First casts
// go through an insert guarded by the (campaign, fingerprint) unique
// constraint; a constraint hit means a concurrent first cast won, and the
// call degrades to the revision path. Re-casting the same candidate is a
// no-op that does not consume a modification.
type CastVoteUseCase struct {
	Votes      ports.VoteRepository
	Campaigns  ports.CampaignGuard
	Candidates ports.CandidateGuard
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	VoterSalt  string
	Logger     *slog.Logger
}

func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaignID := strings.TrimSpace(cmd.CampaignID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	identity := strings.TrimSpace(cmd.VoterIdentity)
	if campaignID == "" || candidateID == "" || identity == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	policy, err := uc.Campaigns.VotingPolicy(ctx, campaignID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !policy.Active {
		return CastVoteResult{}, domainerrors.ErrCampaignNotActive
	}

	votable, err := uc.Candidates.Votable(ctx, campaignID, candidateID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !votable {
		return CastVoteResult{}, domainerrors.ErrCandidateNotVotable
	}

	fingerprint := entities.ComputeFingerprint(identity, campaignID, uc.VoterSalt)
	now := resolveNow(uc.Clock)

	existing, found, err := uc.Votes.GetVote(ctx, campaignID, fingerprint)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !found {
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CastVoteResult{}, err
		}
		vote := entities.PromotionVote{
			VoteID:           voteID,
			CampaignID:       campaignID,
			VoterFingerprint: fingerprint,
			CandidateID:      candidateID,
			CastAt:           now,
			UpdatedAt:        now,
		}
		err = uc.Votes.InsertVote(ctx, vote)
		if err == nil {
			logger.Info("vote cast",
				"event", "vote_cast",
				"module", "voting/voting-ledger",
				"layer", "application",
				"campaign_id", campaignID,
				"candidate_id", candidateID,
			)
			return CastVoteResult{Vote: vote}, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			return CastVoteResult{}, err
		}
		// Lost the insert race; the voter's row now exists.
		existing, found, err = uc.Votes.GetVote(ctx, campaignID, fingerprint)
		if err != nil {
			return CastVoteResult{}, err
		}
		if !found {
			return CastVoteResult{}, domainerrors.ErrConflict
		}
	}

	if existing.CandidateID == candidateID {
		return CastVoteResult{Vote: existing}, nil
	}
	if !policy.CanModifyVotes {
		return CastVoteResult{}, domainerrors.ErrVoteModificationDisabled
	}
	if existing.ModificationCount >= policy.MaxModifications {
		return CastVoteResult{}, domainerrors.ErrVoteLocked
	}

	revised, err := uc.Votes.UpdateVote(ctx, campaignID, fingerprint, candidateID, existing.ModificationCount, now)
	if err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote revised",
		"event", "vote_revised",
		"module", "voting/voting-ledger",
		"layer", "application",
		"campaign_id", campaignID,
		"candidate_id", candidateID,
		"modification_count", revised.ModificationCount,
	)
	return CastVoteResult{Vote: revised, Revised: true}, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
