package library

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (*types.Lesson, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.Lesson, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Lesson, error)
	RecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Lesson, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	ClearSessionTrace(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	CreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (*types.Lesson, error) {
	if err := r.conn(tx).WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.Lesson, error) {
	var result types.Lesson
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", lessonID, userID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lessonRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) RecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Delete(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", lessonID, userID).
		Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Unscoped().
		Where("user_id = ?", userID).
		Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) ClearSessionTrace(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("session_id = ?", sessionID).
		Update("session_id", nil).Error
}

func (r *lessonRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *lessonRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Count(&count).Error
	return count, err
}

func (r *lessonRepo) CreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}
	return stamps, nil
}
