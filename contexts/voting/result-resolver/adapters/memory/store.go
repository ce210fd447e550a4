package memory

import (
	"context"
	"strings"
	"sync"

	"peervote/contexts/voting/result-resolver/domain/entities"
	domainerrors "peervote/contexts/voting/result-resolver/domain/errors"
	"peervote/contexts/voting/result-resolver/ports"
)

type Store struct {
	mu       sync.RWMutex
	outcomes map[string]entities.CampaignOutcome
}

func NewStore() *Store {
	return &Store{outcomes: make(map[string]entities.CampaignOutcome)}
}

func (s *Store) SaveOutcome(_ context.Context, outcome entities.CampaignOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[outcome.CampaignID] = outcome
	return nil
}

func (s *Store) GetOutcome(_ context.Context, campaignID string) (entities.CampaignOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outcome, ok := s.outcomes[strings.TrimSpace(campaignID)]
	if !ok {
		return entities.CampaignOutcome{}, domainerrors.ErrOutcomeNotFound
	}
	return outcome, nil
}

var _ ports.OutcomeRepository = (*Store)(nil)
