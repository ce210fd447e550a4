package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

type Store struct {
	mu         sync.RWMutex
	candidates map[string]entities.PromotionCandidate
	nextSeq    int64
}

func NewStore() *Store {
	return &Store{candidates: make(map[string]entities.PromotionCandidate)}
}

func (s *Store) RegisterCandidate(_ context.Context, candidate entities.PromotionCandidate) (entities.PromotionCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.candidates {
		if existing.CampaignID == candidate.CampaignID && existing.EmployeeID == candidate.EmployeeID {
			return entities.PromotionCandidate{}, domainerrors.ErrDuplicateCandidate
		}
	}
	s.nextSeq++
	candidate.AnonymousSeq = s.nextSeq
	candidate.AnonymousID = entities.FormatAnonymousID(candidate.AnonymousSeq)
	s.candidates[candidate.CandidateID] = candidate
	return candidate, nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.PromotionCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.PromotionCandidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListByCampaign(_ context.Context, campaignID string) ([]entities.PromotionCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.PromotionCandidate, 0)
	for _, candidate := range s.candidates {
		if candidate.CampaignID == strings.TrimSpace(campaignID) {
			out = append(out, candidate)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AnonymousSeq < out[j].AnonymousSeq
	})
	return out, nil
}

func (s *Store) UpdateStatus(_ context.Context, candidateID string, from entities.CandidateStatus, to entities.CandidateStatus, at time.Time) (entities.PromotionCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.PromotionCandidate{}, domainerrors.ErrCandidateNotFound
	}
	if candidate.Status != from {
		return entities.PromotionCandidate{}, domainerrors.ErrConflict
	}
	candidate.Status = to
	candidate.UpdatedAt = at.UTC()
	s.candidates[candidate.CandidateID] = candidate
	return candidate, nil
}

func (s *Store) ApplyTallies(_ context.Context, campaignID string, updates []ports.TallyUpdate, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, update := range updates {
		candidate, ok := s.candidates[update.CandidateID]
		if !ok || candidate.CampaignID != strings.TrimSpace(campaignID) {
			continue
		}
		candidate.VoteCount = update.VoteCount
		candidate.VotePercent = update.VotePercent
		candidate.Ranking = update.Ranking
		candidate.UpdatedAt = at.UTC()
		s.candidates[update.CandidateID] = candidate
	}
	return nil
}

var _ ports.CandidateRepository = (*Store)(nil)
