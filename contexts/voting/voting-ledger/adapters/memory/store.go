package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"peervote/contexts/voting/voting-ledger/domain/entities"
	domainerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	"peervote/contexts/voting/voting-ledger/ports"
)

type Store struct {
	mu    sync.RWMutex
	votes map[string]entities.PromotionVote
}

func NewStore() *Store {
	return &Store{votes: make(map[string]entities.PromotionVote)}
}

func voteKey(campaignID string, fingerprint string) string {
	return strings.TrimSpace(campaignID) + "|" + fingerprint
}

func (s *Store) InsertVote(_ context.Context, vote entities.PromotionVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(vote.CampaignID, vote.VoterFingerprint)
	if _, ok := s.votes[key]; ok {
		return domainerrors.ErrConflict
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, campaignID string, fingerprint string) (entities.PromotionVote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vote, ok := s.votes[voteKey(campaignID, fingerprint)]
	return vote, ok, nil
}

func (s *Store) UpdateVote(_ context.Context, campaignID string, fingerprint string, candidateID string, expectedModCount int, at time.Time) (entities.PromotionVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(campaignID, fingerprint)
	vote, ok := s.votes[key]
	if !ok || vote.ModificationCount != expectedModCount {
		return entities.PromotionVote{}, domainerrors.ErrConflict
	}
	vote.CandidateID = strings.TrimSpace(candidateID)
	vote.ModificationCount = expectedModCount + 1
	vote.UpdatedAt = at.UTC()
	s.votes[key] = vote
	return vote, nil
}

func (s *Store) CountVotes(_ context.Context, campaignID string) (map[string]int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	voters := 0
	for _, vote := range s.votes {
		if vote.CampaignID != strings.TrimSpace(campaignID) {
			continue
		}
		counts[vote.CandidateID]++
		voters++
	}
	return counts, voters, nil
}

func (s *Store) SummarizeCampaign(_ context.Context, campaignID string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totalVotes := 0
	totalVoters := 0
	for _, vote := range s.votes {
		if vote.CampaignID != strings.TrimSpace(campaignID) {
			continue
		}
		totalVoters++
		totalVotes += vote.ModificationCount + 1
	}
	return totalVotes, totalVoters, nil
}

var _ ports.VoteRepository = (*Store)(nil)
