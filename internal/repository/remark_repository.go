package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"remarkly/internal/model"
)

// RemarkRepository defines remark persistence operations. Listing is always
// scoped to a single owner; FindByID deliberately is not, so that callers can
// distinguish a missing record from a foreign one.
type RemarkRepository interface {
	Create(ctx context.Context, remark *model.Remark) error
	Update(ctx context.Context, remark *model.Remark) error
	Delete(ctx context.Context, remark *model.Remark) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Remark, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Remark, error)
	ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Remark, error)
	ListByUserAndDone(ctx context.Context, userID uuid.UUID, done bool) ([]model.Remark, error)
	ListByUserAndPriority(ctx context.Context, userID uuid.UUID, priority model.Priority) ([]model.Remark, error)
	SummarizeByUser(ctx context.Context, userID uuid.UUID) (*model.FinancialSummary, error)
}

type remarkRepository struct {
	db *gorm.DB
}

// NewRemarkRepository creates a new remark repository.
func NewRemarkRepository(db *gorm.DB) RemarkRepository {
	return &remarkRepository{db: db}
}

// Create creates a new remark record.
func (r *remarkRepository) Create(ctx context.Context, remark *model.Remark) error {
	return r.db.WithContext(ctx).Create(remark).Error
}

// Update updates an existing remark record.
func (r *remarkRepository) Update(ctx context.Context, remark *model.Remark) error {
	return r.db.WithContext(ctx).Save(remark).Error
}

// Delete removes a remark permanently.
func (r *remarkRepository) Delete(ctx context.Context, remark *model.Remark) error {
	return r.db.WithContext(ctx).Delete(remark).Error
}

// FindByID finds a remark by ID regardless of owner.
func (r *remarkRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Remark, error) {
	var remark model.Remark
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&remark).Error; err != nil {
		return nil, err
	}
	return &remark, nil
}

// ListByUser lists all remarks owned by the user, newest business date first.
func (r *remarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Remark, error) {
	var remarks []model.Remark
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&remarks).Error; err != nil {
		return nil, err
	}
	return remarks, nil
}

// ListByUserAndDateRange lists remarks whose business date falls inside
// [from, to], newest created first.
func (r *remarkRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Remark, error) {
	var remarks []model.Remark
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("created_at DESC").
		Find(&remarks).Error; err != nil {
		return nil, err
	}
	return remarks, nil
}

// ListByUserAndDone lists remarks filtered by completion state, newest business date first.
func (r *remarkRepository) ListByUserAndDone(ctx context.Context, userID uuid.UUID, done bool) ([]model.Remark, error) {
	var remarks []model.Remark
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND done = ?", userID, done).
		Order("date DESC").
		Find(&remarks).Error; err != nil {
		return nil, err
	}
	return remarks, nil
}

// ListByUserAndPriority lists remarks filtered by priority, newest business date first.
func (r *remarkRepository) ListByUserAndPriority(ctx context.Context, userID uuid.UUID, priority model.Priority) ([]model.Remark, error) {
	var remarks []model.Remark
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND priority = ?", userID, priority).
		Order("date DESC").
		Find(&remarks).Error; err != nil {
		return nil, err
	}
	return remarks, nil
}

// SummarizeByUser aggregates financial fields and completion counts across
// all remarks owned by the user. A user with no remarks gets all zeros.
func (r *remarkRepository) SummarizeByUser(ctx context.Context, userID uuid.UUID) (*model.FinancialSummary, error) {
	var summary model.FinancialSummary
	err := r.db.WithContext(ctx).
		Model(&model.Remark{}).
		Select(
			"COALESCE(SUM(total_amount), 0) AS total_amount, " +
				"COALESCE(SUM(advance_amount), 0) AS total_advance, " +
				"COALESCE(SUM(pending_amount), 0) AS total_pending, " +
				"COALESCE(SUM(CASE WHEN done THEN 1 ELSE 0 END), 0) AS completed_remarks, " +
				"COALESCE(SUM(CASE WHEN done THEN 0 ELSE 1 END), 0) AS pending_remarks").
		Where("user_id = ?", userID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
