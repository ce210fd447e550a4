package ports

import (
	"context"
	"time"

	"peervote/contexts/voting/campaign-service/domain/entities"
	"peervote/internal/shared/events"
)

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.PromotionCampaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.PromotionCampaign, error)
	ListCampaigns(ctx context.Context, status string) ([]entities.PromotionCampaign, error)
	// CreateOrFetchActiveAutomatic inserts the campaign unless an active
	// automatic campaign already exists for the same (trigger employee,
	// target role); in that case the existing row is returned and created is
	// false. The storage layer enforces this with a unique constraint, not a
	// read-then-write.
	CreateOrFetchActiveAutomatic(ctx context.Context, campaign entities.PromotionCampaign) (entities.PromotionCampaign, bool, error)
	// TransitionStatus performs a guarded from -> to update and returns the
	// refreshed row. Zero rows affected means the campaign raced into another
	// state.
	TransitionStatus(ctx context.Context, campaignID string, from entities.CampaignStatus, to entities.CampaignStatus, at time.Time) (entities.PromotionCampaign, error)
	// ActivateDue flips draft campaigns whose window has opened.
	ActivateDue(ctx context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error)
	// ListResolvable returns ended active campaigns plus campaigns stuck in
	// closing, oldest first.
	ListResolvable(ctx context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error)
	// CloseWithOutcome performs the guarded from -> closed transition while
	// stamping the outcome and participation totals in the same update.
	CloseWithOutcome(ctx context.Context, campaignID string, from entities.CampaignStatus, outcome string, totalVotes int, totalVoters int, at time.Time) (entities.PromotionCampaign, error)
}

// PunishmentCounter bumps the punishment count on the statistics row that
// fired the original campaign. Implemented by the attendance tracker; the
// campaign service never writes statistics rows itself.
type PunishmentCounter interface {
	Increment(ctx context.Context, employeeID string, year int, month int) (int, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
