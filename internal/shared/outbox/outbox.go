package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"peervote/internal/shared/events"
)

// Writer appends event envelopes to the voting_outbox table inside the
// caller's database. A relay worker drains the table and publishes to the
// in-process bus; consumers never read the table directly.
type Writer struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWriter(db *gorm.DB, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{db: db, logger: logger}
}

func (w *Writer) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}
	row := outboxModel{
		EventID:        envelope.EventID,
		EventType:      envelope.EventType,
		SourceService:  envelope.SourceService,
		OccurredAtUTC:  envelope.OccurredAtUTC.UTC(),
		EntityType:     envelope.EntityType,
		EntityID:       envelope.EntityID,
		PayloadVersion: envelope.PayloadVersion,
		Payload:        payload,
		CreatedAt:      time.Now().UTC(),
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		w.logger.Error("outbox append failed",
			"event", "outbox_append_failed",
			"layer", "adapter",
			"event_type", envelope.EventType,
			"entity_id", envelope.EntityID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// Relay drains unpublished outbox rows to a publish function in insertion
// order. Rows are marked published only after a successful publish.
type Relay struct {
	db        *gorm.DB
	publish   func(ctx context.Context, envelope events.Envelope) error
	batchSize int
	logger    *slog.Logger
}

func NewRelay(db *gorm.DB, publish func(ctx context.Context, envelope events.Envelope) error, batchSize int, logger *slog.Logger) *Relay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{db: db, publish: publish, batchSize: batchSize, logger: logger}
}

func (r *Relay) RunOnce(ctx context.Context) error {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id ASC").
		Limit(r.batchSize).
		Find(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		var payload any
		if len(row.Payload) > 0 {
			if err := json.Unmarshal(row.Payload, &payload); err != nil {
				return err
			}
		}
		envelope := events.Envelope{
			EventID:        row.EventID,
			EventType:      row.EventType,
			SourceService:  row.SourceService,
			OccurredAtUTC:  row.OccurredAtUTC.UTC(),
			EntityType:     row.EntityType,
			EntityID:       row.EntityID,
			PayloadVersion: row.PayloadVersion,
			Payload:        payload,
		}
		if err := r.publish(ctx, envelope); err != nil {
			r.logger.Error("outbox publish failed",
				"event", "outbox_publish_failed",
				"layer", "worker",
				"event_id", row.EventID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			return err
		}
		now := time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(&outboxModel{}).
			Where("id = ?", row.ID).
			Update("published_at", &now).Error; err != nil {
			return err
		}
	}
	return nil
}

type outboxModel struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	EventID        string     `gorm:"column:event_id;uniqueIndex"`
	EventType      string     `gorm:"column:event_type"`
	SourceService  string     `gorm:"column:source_service"`
	OccurredAtUTC  time.Time  `gorm:"column:occurred_at_utc"`
	EntityType     string     `gorm:"column:entity_type"`
	EntityID       string     `gorm:"column:entity_id"`
	PayloadVersion int        `gorm:"column:payload_version"`
	Payload        []byte     `gorm:"column:payload;type:jsonb"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}
