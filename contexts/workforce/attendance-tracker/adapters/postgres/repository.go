package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"peervote/contexts/workforce/attendance-tracker/domain/entities"
	domainerrors "peervote/contexts/workforce/attendance-tracker/domain/errors"
	"peervote/contexts/workforce/attendance-tracker/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) AppendLateRecord(
	ctx context.Context,
	employeeID string,
	year int,
	month int,
	record entities.LateRecord,
) (entities.AttendanceStatistics, error) {
	employeeID = strings.TrimSpace(employeeID)
	var updated statisticsModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		seed := statisticsModel{
			EmployeeID:  employeeID,
			Year:        year,
			Month:       month,
			LateRecords: []byte("[]"),
			Phase:       string(entities.PhaseAccumulating),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   statisticsKeyColumns(),
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}

		var row statisticsModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
			First(&row).Error; err != nil {
			return err
		}

		records, err := decodeLateRecords(row.LateRecords)
		if err != nil {
			return err
		}
		records = append(records, record)
		encoded, err := json.Marshal(records)
		if err != nil {
			return err
		}

		row.LateCount++
		row.LateMinutesTotal += record.Minutes
		row.LateRecords = encoded
		row.UpdatedAt = now
		if err := tx.Model(&statisticsModel{}).
			Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
			Updates(map[string]any{
				"late_count":         row.LateCount,
				"late_minutes_total": row.LateMinutesTotal,
				"late_records":       row.LateRecords,
				"updated_at":         row.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return entities.AttendanceStatistics{}, domainerrors.ErrConflict
		}
		return entities.AttendanceStatistics{}, r.logError("attendance_repo_append_failed", err,
			"employee_id", employeeID, "year", year, "month", month)
	}
	return updated.toEntity()
}

func (r *Repository) MarkTriggered(ctx context.Context, employeeID string, year int, month int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&statisticsModel{}).
		Where("employee_id = ? AND year = ? AND month = ?", strings.TrimSpace(employeeID), year, month).
		Where("phase = ?", string(entities.PhaseAccumulating)).
		Updates(map[string]any{
			"phase":      string(entities.PhaseTriggered),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, r.logError("attendance_repo_mark_triggered_failed", result.Error,
			"employee_id", strings.TrimSpace(employeeID), "year", year, "month", month)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) GetStatistics(ctx context.Context, employeeID string, year int, month int) (entities.AttendanceStatistics, error) {
	var row statisticsModel
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ? AND month = ?", strings.TrimSpace(employeeID), year, month).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AttendanceStatistics{}, domainerrors.ErrStatisticsNotFound
		}
		return entities.AttendanceStatistics{}, r.logError("attendance_repo_get_failed", err,
			"employee_id", strings.TrimSpace(employeeID), "year", year, "month", month)
	}
	return row.toEntity()
}

func (r *Repository) ResetPeriod(ctx context.Context, employeeID string, year int, month int) error {
	result := r.db.WithContext(ctx).Model(&statisticsModel{}).
		Where("employee_id = ? AND year = ? AND month = ?", strings.TrimSpace(employeeID), year, month).
		Updates(map[string]any{
			"late_count":         0,
			"late_minutes_total": 0,
			"late_records":       []byte("[]"),
			"phase":              string(entities.PhaseAccumulating),
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return r.logError("attendance_repo_reset_failed", result.Error,
			"employee_id", strings.TrimSpace(employeeID), "year", year, "month", month)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStatisticsNotFound
	}
	return nil
}

func (r *Repository) IncrementPunishment(ctx context.Context, employeeID string, year int, month int) (int, error) {
	employeeID = strings.TrimSpace(employeeID)
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row statisticsModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrStatisticsNotFound
			}
			return err
		}
		row.PunishmentCount++
		count = row.PunishmentCount
		return tx.Model(&statisticsModel{}).
			Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
			Updates(map[string]any{
				"punishment_count": row.PunishmentCount,
				"updated_at":       time.Now().UTC(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStatisticsNotFound) {
			return 0, err
		}
		return 0, r.logError("attendance_repo_increment_punishment_failed", err,
			"employee_id", employeeID, "year", year, "month", month)
	}
	return count, nil
}

func (r *Repository) ResetTriggeredBefore(ctx context.Context, year int, month int, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []statisticsModel
	err := r.db.WithContext(ctx).
		Where("phase = ?", string(entities.PhaseTriggered)).
		Where("year < ? OR (year = ? AND month < ?)", year, year, month).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return 0, r.logError("attendance_repo_rollover_list_failed", err)
	}

	reset := 0
	for _, row := range rows {
		if err := r.db.WithContext(ctx).Model(&statisticsModel{}).
			Where("employee_id = ? AND year = ? AND month = ?", row.EmployeeID, row.Year, row.Month).
			Updates(map[string]any{
				"phase":      string(entities.PhaseAccumulating),
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return reset, r.logError("attendance_repo_rollover_update_failed", err,
				"employee_id", row.EmployeeID, "year", row.Year, "month", row.Month)
		}
		reset++
	}
	return reset, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "workforce/attendance-tracker",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("attendance repository operation failed", fields...)
	return err
}

type statisticsModel struct {
	EmployeeID       string    `gorm:"column:employee_id;primaryKey"`
	Year             int       `gorm:"column:year;primaryKey"`
	Month            int       `gorm:"column:month;primaryKey"`
	LateCount        int       `gorm:"column:late_count"`
	LateMinutesTotal int       `gorm:"column:late_minutes_total"`
	LateRecords      []byte    `gorm:"column:late_records;type:jsonb"`
	Phase            string    `gorm:"column:phase"`
	PunishmentCount  int       `gorm:"column:punishment_count"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (statisticsModel) TableName() string {
	return "attendance_statistics"
}

func statisticsKeyColumns() []clause.Column {
	return []clause.Column{{Name: "employee_id"}, {Name: "year"}, {Name: "month"}}
}

func (m statisticsModel) toEntity() (entities.AttendanceStatistics, error) {
	records, err := decodeLateRecords(m.LateRecords)
	if err != nil {
		return entities.AttendanceStatistics{}, err
	}
	return entities.AttendanceStatistics{
		EmployeeID:       m.EmployeeID,
		Year:             m.Year,
		Month:            m.Month,
		LateCount:        m.LateCount,
		LateMinutesTotal: m.LateMinutesTotal,
		LateRecords:      records,
		Phase:            entities.PunishmentPhase(m.Phase),
		PunishmentCount:  m.PunishmentCount,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}, nil
}

func decodeLateRecords(raw []byte) ([]entities.LateRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []entities.LateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.StatisticsRepository = (*Repository)(nil)
