package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
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

// RegisterCandidate inserts the row and lets the database assign the global
// anonymous sequence; the insert returns the assigned value, so the display
// id can be derived without a second round trip.
func (r *Repository) RegisterCandidate(ctx context.Context, candidate entities.PromotionCandidate) (entities.PromotionCandidate, error) {
	row := toModel(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.PromotionCandidate{}, domainerrors.ErrDuplicateCandidate
		}
		return entities.PromotionCandidate{}, r.logError("candidate_repo_register_failed", err,
			"campaign_id", candidate.CampaignID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.PromotionCandidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PromotionCandidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.PromotionCandidate{}, r.logError("candidate_repo_get_failed", err, "candidate_id", candidateID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListByCampaign(ctx context.Context, campaignID string) ([]entities.PromotionCandidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("anonymous_seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("candidate_repo_list_failed", err, "campaign_id", campaignID)
	}
	candidates := make([]entities.PromotionCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.toEntity())
	}
	return candidates, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, candidateID string, from entities.CandidateStatus, to entities.CandidateStatus, at time.Time) (entities.PromotionCandidate, error) {
	candidateID = strings.TrimSpace(candidateID)
	result := r.db.WithContext(ctx).Model(&candidateModel{}).
		Where("candidate_id = ? AND status = ?", candidateID, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return entities.PromotionCandidate{}, r.logError("candidate_repo_status_failed", result.Error,
			"candidate_id", candidateID, "from", string(from), "to", string(to))
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCandidate(ctx, candidateID); err != nil {
			return entities.PromotionCandidate{}, err
		}
		return entities.PromotionCandidate{}, domainerrors.ErrConflict
	}
	return r.GetCandidate(ctx, candidateID)
}

func (r *Repository) ApplyTallies(ctx context.Context, campaignID string, updates []ports.TallyUpdate, at time.Time) error {
	campaignID = strings.TrimSpace(campaignID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			if err := tx.Model(&candidateModel{}).
				Where("candidate_id = ? AND campaign_id = ?", update.CandidateID, campaignID).
				Updates(map[string]any{
					"vote_count":   update.VoteCount,
					"vote_percent": update.VotePercent,
					"ranking":      update.Ranking,
					"updated_at":   at.UTC(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("candidate_repo_tally_failed", err, "campaign_id", campaignID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "voting/candidate-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("candidate repository operation failed", fields...)
	return err
}

type candidateModel struct {
	CandidateID  string    `gorm:"column:candidate_id;primaryKey"`
	CampaignID   string    `gorm:"column:campaign_id;uniqueIndex:ux_candidate_campaign_employee"`
	EmployeeID   string    `gorm:"column:employee_id;uniqueIndex:ux_candidate_campaign_employee"`
	AnonymousSeq int64     `gorm:"column:anonymous_seq;autoIncrement;->;<-:create"`
	Status       string    `gorm:"column:status"`
	Position     string    `gorm:"column:position"`
	TenureYears  int       `gorm:"column:tenure_years"`
	Statement    string    `gorm:"column:statement"`
	VoteCount    int       `gorm:"column:vote_count"`
	VotePercent  float64   `gorm:"column:vote_percent"`
	Ranking      int       `gorm:"column:ranking"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "promotion_candidates"
}

func toModel(c entities.PromotionCandidate) candidateModel {
	return candidateModel{
		CandidateID:  c.CandidateID,
		CampaignID:   c.CampaignID,
		EmployeeID:   c.EmployeeID,
		AnonymousSeq: c.AnonymousSeq,
		Status:       string(c.Status),
		Position:     c.Position,
		TenureYears:  c.TenureYears,
		Statement:    c.Statement,
		VoteCount:    c.VoteCount,
		VotePercent:  c.VotePercent,
		Ranking:      c.Ranking,
		CreatedAt:    c.CreatedAt.UTC(),
		UpdatedAt:    c.UpdatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.PromotionCandidate {
	return entities.PromotionCandidate{
		CandidateID:  m.CandidateID,
		CampaignID:   m.CampaignID,
		EmployeeID:   m.EmployeeID,
		AnonymousSeq: m.AnonymousSeq,
		AnonymousID:  entities.FormatAnonymousID(m.AnonymousSeq),
		Status:       entities.CandidateStatus(m.Status),
		Position:     m.Position,
		TenureYears:  m.TenureYears,
		Statement:    m.Statement,
		VoteCount:    m.VoteCount,
		VotePercent:  m.VotePercent,
		Ranking:      m.Ranking,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CandidateRepository = (*Repository)(nil)
