package screening

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mirai-health/screening/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScreeningLog is the persistence model for the screening audit trail.
type ScreeningLog struct {
	ID          uuid.UUID         `gorm:"primaryKey;column:id"`
	Stage       int               `gorm:"column:stage"`
	Probability float64           `gorm:"column:probability"`
	Category    string            `gorm:"column:category"`
	Tier        string            `gorm:"column:tier"`
	Request     datatypes.JSONMap `gorm:"column:request"`
	LatencyMs   float64           `gorm:"column:latency_ms"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
}

// TableName overrides gorm naming.
func (ScreeningLog) TableName() string {
	return "screening_logs"
}

// Repository handles screening log queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ScreeningLog{})
}

func (r *Repository) Record(ctx context.Context, patient models.PatientAttributes, result models.ScreeningResult, tier string, latency time.Duration) error {
	log := ScreeningLog{
		ID:          uuid.New(),
		Stage:       result.Stage,
		Probability: result.RiskProbability,
		Category:    result.RiskCategory,
		Tier:        tier,
		Request:     datatypes.JSONMap(patient),
		LatencyMs:   float64(latency.Microseconds()) / 1000.0,
		CreatedAt:   time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&log).Error
}

// Recent returns the most recent screening logs up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]ScreeningLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []ScreeningLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
