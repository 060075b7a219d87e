package roster

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// Every read and write here is scoped by the owning user id; there is no
// unscoped accessor on purpose.
type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID) (*types.Student, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, studentIDs []uuid.UUID) ([]*types.Student, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Student, error)
	Update(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (r *studentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error) {
	if len(students) == 0 {
		return []*types.Student{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID) (*types.Student, error) {
	var result types.Student
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", studentID, userID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *studentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, studentIDs []uuid.UUID) ([]*types.Student, error) {
	var results []*types.Student
	if len(studentIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, studentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Student, error) {
	var results []*types.Student
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_name, first_name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) Update(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID, fields map[string]any) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Student{}).
		Where("id = ? AND user_id = ?", studentID, userID).
		Updates(fields).Error
}

func (r *studentRepo) Delete(ctx context.Context, tx *gorm.DB, userID, studentID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", studentID, userID).
		Delete(&types.Student{}).Error
}

func (r *studentRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Unscoped().
		Where("user_id = ?", userID).
		Delete(&types.Student{}).Error
}

func (r *studentRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Student{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
