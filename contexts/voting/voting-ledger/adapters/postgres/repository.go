package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"peervote/contexts/voting/voting-ledger/domain/entities"
	domainerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	"peervote/contexts/voting/voting-ledger/ports"
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

func (r *Repository) InsertVote(ctx context.Context, vote entities.PromotionVote) error {
	row := voteModel{
		VoteID:            vote.VoteID,
		CampaignID:        vote.CampaignID,
		VoterFingerprint:  vote.VoterFingerprint,
		CandidateID:       vote.CandidateID,
		ModificationCount: vote.ModificationCount,
		CastAt:            vote.CastAt.UTC(),
		UpdatedAt:         vote.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("vote_repo_insert_failed", err, "campaign_id", vote.CampaignID)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, campaignID string, fingerprint string) (entities.PromotionVote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND voter_fingerprint = ?", strings.TrimSpace(campaignID), fingerprint).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PromotionVote{}, false, nil
		}
		return entities.PromotionVote{}, false, r.logError("vote_repo_get_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateVote(ctx context.Context, campaignID string, fingerprint string, candidateID string, expectedModCount int, at time.Time) (entities.PromotionVote, error) {
	campaignID = strings.TrimSpace(campaignID)
	result := r.db.WithContext(ctx).Model(&voteModel{}).
		Where("campaign_id = ? AND voter_fingerprint = ? AND modification_count = ?", campaignID, fingerprint, expectedModCount).
		Updates(map[string]any{
			"candidate_id":       strings.TrimSpace(candidateID),
			"modification_count": expectedModCount + 1,
			"updated_at":         at.UTC(),
		})
	if result.Error != nil {
		return entities.PromotionVote{}, r.logError("vote_repo_update_failed", result.Error, "campaign_id", campaignID)
	}
	if result.RowsAffected == 0 {
		return entities.PromotionVote{}, domainerrors.ErrConflict
	}

	var row voteModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND voter_fingerprint = ?", campaignID, fingerprint).
		First(&row).Error; err != nil {
		return entities.PromotionVote{}, r.logError("vote_repo_refetch_failed", err, "campaign_id", campaignID)
	}
	return row.toEntity(), nil
}

func (r *Repository) CountVotes(ctx context.Context, campaignID string) (map[string]int, int, error) {
	campaignID = strings.TrimSpace(campaignID)
	type countRow struct {
		CandidateID string
		Count       int
	}
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Select("candidate_id, COUNT(*) AS count").
		Where("campaign_id = ?", campaignID).
		Group("candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, r.logError("vote_repo_count_failed", err, "campaign_id", campaignID)
	}

	counts := make(map[string]int, len(rows))
	voters := 0
	for _, row := range rows {
		counts[row.CandidateID] = row.Count
		voters += row.Count
	}
	return counts, voters, nil
}

func (r *Repository) SummarizeCampaign(ctx context.Context, campaignID string) (int, int, error) {
	campaignID = strings.TrimSpace(campaignID)
	type summaryRow struct {
		Voters  int
		Actions int
	}
	var row summaryRow
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Select("COUNT(*) AS voters, COALESCE(SUM(modification_count), 0) + COUNT(*) AS actions").
		Where("campaign_id = ?", campaignID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, r.logError("vote_repo_summary_failed", err, "campaign_id", campaignID)
	}
	return row.Actions, row.Voters, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "voting/voting-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

type voteModel struct {
	VoteID            string    `gorm:"column:vote_id;primaryKey"`
	CampaignID        string    `gorm:"column:campaign_id;uniqueIndex:ux_vote_campaign_fingerprint"`
	VoterFingerprint  string    `gorm:"column:voter_fingerprint;uniqueIndex:ux_vote_campaign_fingerprint"`
	CandidateID       string    `gorm:"column:candidate_id"`
	ModificationCount int       `gorm:"column:modification_count"`
	CastAt            time.Time `gorm:"column:cast_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "promotion_votes"
}

func (m voteModel) toEntity() entities.PromotionVote {
	return entities.PromotionVote{
		VoteID:            m.VoteID,
		CampaignID:        m.CampaignID,
		VoterFingerprint:  m.VoterFingerprint,
		CandidateID:       m.CandidateID,
		ModificationCount: m.ModificationCount,
		CastAt:            m.CastAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
