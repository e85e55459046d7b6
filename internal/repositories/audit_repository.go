package repositories

import (
	"context"
	"time"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"gorm.io/gorm"
)

// AuditRepository journals two-phase graph writes so that incomplete ones are
// enumerable for repair.
type AuditRepository interface {
	RecordForward(ctx context.Context, op string, actorID, targetID int64) (*models.GraphAudit, error)
	MarkDone(ctx context.Context, id uint) error
	ListIncomplete(ctx context.Context, olderThan time.Duration) ([]models.GraphAudit, error)
}

// GormAuditRepository implements AuditRepository on a relational store.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// RecordForward journals a graph write after its follower-side update and
// before the peer-side one.
func (r *GormAuditRepository) RecordForward(ctx context.Context, op string, actorID, targetID int64) (*models.GraphAudit, error) {
	entry := &models.GraphAudit{
		Op:       op,
		ActorID:  actorID,
		TargetID: targetID,
		Phase:    models.PhaseForward,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkDone promotes a journal row once the peer-side write has landed.
func (r *GormAuditRepository) MarkDone(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.GraphAudit{}).
		Where("id = ?", id).
		Update("phase", models.PhaseDone).Error
}

// ListIncomplete returns forward-phase rows older than the grace period.
// These are the candidate one-directional relationships.
func (r *GormAuditRepository) ListIncomplete(ctx context.Context, olderThan time.Duration) ([]models.GraphAudit, error) {
	var entries []models.GraphAudit
	cutoff := time.Now().Add(-olderThan)
	err := r.db.WithContext(ctx).
		Where("phase = ? AND created_at < ?", models.PhaseForward, cutoff).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
