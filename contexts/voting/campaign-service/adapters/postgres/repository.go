package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peervote/contexts/voting/campaign-service/domain/entities"
	domainerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/campaign-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.PromotionCampaign) error {
	row := toModel(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("campaign_repo_create_failed", err, "campaign_id", campaign.CampaignID)
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.PromotionCampaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PromotionCampaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.PromotionCampaign{}, r.logError("campaign_repo_get_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, status string) ([]entities.PromotionCampaign, error) {
	query := r.db.WithContext(ctx).Model(&campaignModel{}).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []campaignModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("campaign_repo_list_failed", err, "status", status)
	}
	campaigns := make([]entities.PromotionCampaign, 0, len(rows))
	for _, row := range rows {
		campaigns = append(campaigns, row.toEntity())
	}
	return campaigns, nil
}

// CreateOrFetchActiveAutomatic relies on a partial unique index over
// (trigger_employee_id, target_role) for active system-generated rows, so
// concurrent triggers collapse at the database instead of through a
// read-then-write.
func (r *Repository) CreateOrFetchActiveAutomatic(ctx context.Context, campaign entities.PromotionCampaign) (entities.PromotionCampaign, bool, error) {
	row := toModel(campaign)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return r.fetchActiveAutomatic(ctx, campaign)
		}
		return entities.PromotionCampaign{}, false, r.logError("campaign_repo_auto_create_failed", result.Error,
			"trigger_employee_id", campaign.TriggerEmployeeID, "target_role", campaign.TargetRole)
	}
	if result.RowsAffected == 0 {
		return r.fetchActiveAutomatic(ctx, campaign)
	}
	return campaign, true, nil
}

func (r *Repository) fetchActiveAutomatic(ctx context.Context, campaign entities.PromotionCampaign) (entities.PromotionCampaign, bool, error) {
	var existing campaignModel
	err := r.db.WithContext(ctx).
		Where("trigger_employee_id = ? AND target_role = ? AND status = ? AND system_generated", campaign.TriggerEmployeeID, campaign.TargetRole, string(entities.StatusActive)).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The competing campaign left the active state between our
			// insert and this read.
			return entities.PromotionCampaign{}, false, domainerrors.ErrConflict
		}
		return entities.PromotionCampaign{}, false, r.logError("campaign_repo_auto_fetch_failed", err,
			"trigger_employee_id", campaign.TriggerEmployeeID, "target_role", campaign.TargetRole)
	}
	return existing.toEntity(), false, nil
}

func (r *Repository) TransitionStatus(ctx context.Context, campaignID string, from entities.CampaignStatus, to entities.CampaignStatus, at time.Time) (entities.PromotionCampaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at.UTC(),
	}
	switch to {
	case entities.StatusActive:
		updates["activated_at"] = at.UTC()
	case entities.StatusClosed, entities.StatusCancelled:
		updates["closed_at"] = at.UTC()
	}

	result := r.db.WithContext(ctx).Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return entities.PromotionCampaign{}, r.logError("campaign_repo_transition_failed", result.Error,
			"campaign_id", campaignID, "from", string(from), "to", string(to))
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCampaign(ctx, campaignID); err != nil {
			return entities.PromotionCampaign{}, err
		}
		return entities.PromotionCampaign{}, domainerrors.ErrConflict
	}
	return r.GetCampaign(ctx, campaignID)
}

func (r *Repository) ActivateDue(ctx context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error) {
	if limit <= 0 {
		limit = 100
	}
	var due []campaignModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time <= ?", string(entities.StatusDraft), now.UTC()).
		Limit(limit).
		Find(&due).Error
	if err != nil {
		return nil, r.logError("campaign_repo_activate_list_failed", err)
	}

	activated := make([]entities.PromotionCampaign, 0, len(due))
	for _, row := range due {
		campaign, err := r.TransitionStatus(ctx, row.CampaignID, entities.StatusDraft, entities.StatusActive, now)
		if err != nil {
			if errors.Is(err, domainerrors.ErrConflict) {
				continue
			}
			return activated, err
		}
		activated = append(activated, campaign)
	}
	return activated, nil
}

func (r *Repository) ListResolvable(ctx context.Context, now time.Time, limit int) ([]entities.PromotionCampaign, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []campaignModel
	err := r.db.WithContext(ctx).
		Where("(status = ? AND end_time <= ?) OR status = ?",
			string(entities.StatusActive), now.UTC(), string(entities.StatusClosing)).
		Order("end_time ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("campaign_repo_resolvable_list_failed", err)
	}
	campaigns := make([]entities.PromotionCampaign, 0, len(rows))
	for _, row := range rows {
		campaigns = append(campaigns, row.toEntity())
	}
	return campaigns, nil
}

func (r *Repository) CloseWithOutcome(ctx context.Context, campaignID string, from entities.CampaignStatus, outcome string, totalVotes int, totalVoters int, at time.Time) (entities.PromotionCampaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	result := r.db.WithContext(ctx).Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, string(from)).
		Updates(map[string]any{
			"status":       string(entities.StatusClosed),
			"outcome":      outcome,
			"total_votes":  totalVotes,
			"total_voters": totalVoters,
			"closed_at":    at.UTC(),
			"updated_at":   at.UTC(),
		})
	if result.Error != nil {
		return entities.PromotionCampaign{}, r.logError("campaign_repo_close_outcome_failed", result.Error,
			"campaign_id", campaignID, "outcome", outcome)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCampaign(ctx, campaignID); err != nil {
			return entities.PromotionCampaign{}, err
		}
		return entities.PromotionCampaign{}, domainerrors.ErrConflict
	}
	return r.GetCampaign(ctx, campaignID)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "voting/campaign-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("campaign repository operation failed", fields...)
	return err
}

type campaignModel struct {
	CampaignID           string     `gorm:"column:campaign_id;primaryKey"`
	TargetRole           string     `gorm:"column:target_role"`
	SubType              string     `gorm:"column:sub_type"`
	Status               string     `gorm:"column:status"`
	StartTime            time.Time  `gorm:"column:start_time"`
	EndTime              time.Time  `gorm:"column:end_time"`
	IsAnonymous          bool       `gorm:"column:is_anonymous"`
	CanModifyVotes       bool       `gorm:"column:can_modify_votes"`
	MaxModifications     int        `gorm:"column:max_modifications"`
	BufferPeriodDays     int        `gorm:"column:buffer_period_days"`
	PassThresholdPercent float64    `gorm:"column:pass_threshold_percent"`
	EligibleVoters       int        `gorm:"column:eligible_voters"`
	TriggerEmployeeID    string     `gorm:"column:trigger_employee_id"`
	TriggerYear          int        `gorm:"column:trigger_year"`
	TriggerMonth         int        `gorm:"column:trigger_month"`
	SystemGenerated      bool       `gorm:"column:system_generated"`
	Attempt              int        `gorm:"column:attempt"`
	PredecessorID        string     `gorm:"column:predecessor_id"`
	Outcome              string     `gorm:"column:outcome"`
	TotalVotes           int        `gorm:"column:total_votes"`
	TotalVoters          int        `gorm:"column:total_voters"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
	ActivatedAt          *time.Time `gorm:"column:activated_at"`
	ClosedAt             *time.Time `gorm:"column:closed_at"`
}

func (campaignModel) TableName() string {
	return "promotion_campaigns"
}

func toModel(c entities.PromotionCampaign) campaignModel {
	return campaignModel{
		CampaignID:           c.CampaignID,
		TargetRole:           c.TargetRole,
		SubType:              string(c.SubType),
		Status:               string(c.Status),
		StartTime:            c.StartTime.UTC(),
		EndTime:              c.EndTime.UTC(),
		IsAnonymous:          c.IsAnonymous,
		CanModifyVotes:       c.CanModifyVotes,
		MaxModifications:     c.MaxModifications,
		BufferPeriodDays:     c.BufferPeriodDays,
		PassThresholdPercent: c.PassThresholdPercent,
		EligibleVoters:       c.EligibleVoters,
		TriggerEmployeeID:    c.TriggerEmployeeID,
		TriggerYear:          c.TriggerYear,
		TriggerMonth:         c.TriggerMonth,
		SystemGenerated:      c.SystemGenerated,
		Attempt:              c.Attempt,
		PredecessorID:        c.PredecessorID,
		Outcome:              c.Outcome,
		TotalVotes:           c.TotalVotes,
		TotalVoters:          c.TotalVoters,
		CreatedAt:            c.CreatedAt.UTC(),
		UpdatedAt:            c.UpdatedAt.UTC(),
		ActivatedAt:          c.ActivatedAt,
		ClosedAt:             c.ClosedAt,
	}
}

func (m campaignModel) toEntity() entities.PromotionCampaign {
	return entities.PromotionCampaign{
		CampaignID:           m.CampaignID,
		TargetRole:           m.TargetRole,
		SubType:              entities.CampaignSubType(m.SubType),
		Status:               entities.CampaignStatus(m.Status),
		StartTime:            m.StartTime.UTC(),
		EndTime:              m.EndTime.UTC(),
		IsAnonymous:          m.IsAnonymous,
		CanModifyVotes:       m.CanModifyVotes,
		MaxModifications:     m.MaxModifications,
		BufferPeriodDays:     m.BufferPeriodDays,
		PassThresholdPercent: m.PassThresholdPercent,
		EligibleVoters:       m.EligibleVoters,
		TriggerEmployeeID:    m.TriggerEmployeeID,
		TriggerYear:          m.TriggerYear,
		TriggerMonth:         m.TriggerMonth,
		SystemGenerated:      m.SystemGenerated,
		Attempt:              m.Attempt,
		PredecessorID:        m.PredecessorID,
		Outcome:              m.Outcome,
		TotalVotes:           m.TotalVotes,
		TotalVoters:          m.TotalVoters,
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
		ActivatedAt:          m.ActivatedAt,
		ClosedAt:             m.ClosedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CampaignRepository = (*Repository)(nil)
