package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

type Store struct {
	mu        sync.RWMutex
	campaigns map[string]entities.PromotionCampaign
}

func NewStore() *Store {
	return &Store{campaigns: make(map[string]entities.PromotionCampaign)}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.PromotionCampaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[campaign.CampaignID]; ok {
		return domainerrors.ErrConflict
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.PromotionCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) ListCampaigns(_ context.Context, status string) ([]entities.PromotionCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.PromotionCampaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if status != "" && string(campaign.Status) != status {
			continue
		}
		out = append(out, campaign)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateOrFetchActiveAutomatic(_ context.Context, campaign entities.PromotionCampaign) (entities.PromotionCampaign, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.campaigns {
		if existing.SystemGenerated &&
			existing.Status == entities.StatusActive &&
			existing.TriggerEmployeeID == campaign.TriggerEmployeeID &&
			existing.TargetRole == campaign.TargetRole {
			return existing, false, nil
		}
	}
	if _, ok := s.campaigns[campaign.CampaignID]; ok {
		return entities.PromotionCampaign{}, false, domainerrors.ErrConflict
	}
	s.campaigns[campaign.CampaignID] = campaign
	return campaign, true, nil
}

func (s *Store) TransitionStatus(_ context.Context, campaignID string, from entities.CampaignStatus, to entities.CampaignStatus, at time.Time) (entities.PromotionCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotFound
	}
	if campaign.Status != from {
		return entities.PromotionCampaign{}, domainerrors.ErrConflict
	}
	campaign.Status = to
	campaign.UpdatedAt = at.UTC()
	switch to {
	case entities.StatusActive:
		activated := at.UTC()
		campaign.ActivatedAt = &activated
	case entities.StatusClosed, entities.StatusCancelled:
		closed := at.UTC()
		campaign.ClosedAt = &closed
	}
	s.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

func (s *Store) ActivateDue(_ context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	activated := make([]entities.PromotionCampaign, 0)
	for id, campaign := range s.campaigns {
		if len(activated) >= limit {
			break
		}
		if campaign.Status != entities.StatusDraft || campaign.StartTime.After(now.UTC()) {
			continue
		}
		campaign.Status = entities.StatusActive
		at := now.UTC()
		campaign.ActivatedAt = &at
		campaign.UpdatedAt = at
		s.campaigns[id] = campaign
		activated = append(activated, campaign)
	}
	return activated, nil
}

func (s *Store) ListResolvable(_ context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	out := make([]entities.PromotionCampaign, 0)
	for _, campaign := range s.campaigns {
		ended := campaign.Status == entities.StatusActive && !campaign.EndTime.After(now.UTC())
		if !ended && campaign.Status != entities.StatusClosing {
			continue
		}
		out = append(out, campaign)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndTime.Before(out[j].EndTime)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CloseWithOutcome(_ context.Context, campaignID string, from entities.CampaignStatus, outcome string, totalVotes int, totalVoters int, at time.Time) (entities.PromotionCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotFound
	}
	if campaign.Status != from {
		return entities.PromotionCampaign{}, domainerrors.ErrConflict
	}
	campaign.Status = entities.StatusClosed
	campaign.Outcome = outcome
	campaign.TotalVotes = totalVotes
	campaign.TotalVoters = totalVoters
	closed := at.UTC()
	campaign.ClosedAt = &closed
	campaign.UpdatedAt = closed
	s.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

var _ ports.CampaignRepository = (*Store)(nil)
