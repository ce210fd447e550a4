package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peervote/contexts/voting/result-resolver/domain/entities"
	domainerrors "peervote/contexts/voting/result-resolver/domain/errors"
	"peervote/contexts/voting/result-resolver/ports"
)

type OutcomeRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewOutcomeRepository(db *gorm.DB, logger *slog.Logger) *OutcomeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutcomeRepository{db: db, logger: logger}
}

// SaveOutcome upserts on campaign_id so a resumed resolution overwrites its
// own partial write instead of failing.
func (r *OutcomeRepository) SaveOutcome(ctx context.Context, outcome entities.CampaignOutcome) error {
	row := outcomeModel{
		CampaignID:        outcome.CampaignID,
		Outcome:           outcome.Outcome,
		WinnerCandidateID: outcome.WinnerCandidateID,
		WinnerAnonymousID: outcome.WinnerAnonymousID,
		WinningPercentage: outcome.WinningPercentage,
		TotalVotes:        outcome.TotalVotes,
		TotalVoters:       outcome.TotalVoters,
		RetryCampaignID:   outcome.RetryCampaignID,
		ResolvedAt:        outcome.ResolvedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("outcome_repo_save_failed", err, "campaign_id", outcome.CampaignID)
	}
	return nil
}

func (r *OutcomeRepository) GetOutcome(ctx context.Context, campaignID string) (entities.CampaignOutcome, error) {
	var row outcomeModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignOutcome{}, domainerrors.ErrOutcomeNotFound
		}
		return entities.CampaignOutcome{}, r.logError("outcome_repo_get_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), nil
}

func (r *OutcomeRepository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "voting/result-resolver",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("outcome repository operation failed", fields...)
	return err
}

type outcomeModel struct {
	CampaignID        string    `gorm:"column:campaign_id;primaryKey"`
	Outcome           string    `gorm:"column:outcome"`
	WinnerCandidateID string    `gorm:"column:winner_candidate_id"`
	WinnerAnonymousID string    `gorm:"column:winner_anonymous_id"`
	WinningPercentage float64   `gorm:"column:winning_percentage"`
	TotalVotes        int       `gorm:"column:total_votes"`
	TotalVoters       int       `gorm:"column:total_voters"`
	RetryCampaignID   string    `gorm:"column:retry_campaign_id"`
	ResolvedAt        time.Time `gorm:"column:resolved_at"`
}

func (outcomeModel) TableName() string {
	return "campaign_outcomes"
}

func (m outcomeModel) toEntity() entities.CampaignOutcome {
	return entities.CampaignOutcome{
		CampaignID:        m.CampaignID,
		Outcome:           m.Outcome,
		WinnerCandidateID: m.WinnerCandidateID,
		WinnerAnonymousID: m.WinnerAnonymousID,
		WinningPercentage: m.WinningPercentage,
		TotalVotes:        m.TotalVotes,
		TotalVoters:       m.TotalVoters,
		RetryCampaignID:   m.RetryCampaignID,
		ResolvedAt:        m.ResolvedAt.UTC(),
	}
}

var _ ports.OutcomeRepository = (*OutcomeRepository)(nil)
