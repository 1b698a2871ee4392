package repository

import (
	"context"
	"time"

	"pauller/internal/models"

	"gorm.io/gorm"
)

// PollRepository defines persistence operations for polls.
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	// List returns polls in insertion order with limit/offset applied. When
	// activeOnly is set, the voting-window filter is applied before paging,
	// and the returned total counts only matching rows.
	List(ctx context.Context, limit, offset int, activeOnly bool, now time.Time) ([]models.Poll, int64, error)
	ListAll(ctx context.Context) ([]models.Poll, error)
	// DeleteByID reports whether a row was actually removed.
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository returns a new PollRepository implementation.
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	if err := r.db.WithContext(ctx).Create(poll).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int, activeOnly bool, now time.Time) ([]models.Poll, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Poll{})
	if activeOnly {
		query = query.Where("start_at <= ? AND finish_at > ?", now, now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var polls []models.Poll
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&polls).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return polls, total, nil
}

func (r *pollRepository) ListAll(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).Order("id").Find(&polls).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return polls, nil
}

func (r *pollRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Poll{}, id)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
