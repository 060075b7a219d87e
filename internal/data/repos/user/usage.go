package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// UserStatsRow is the admin statistics join of accounts and their counters.
type UserStatsRow struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	IsAdmin       bool      `json:"is_admin"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	APIRequests   int64     `json:"api_requests"`
	LessonsCount  int64     `json:"lessons_created"`
	StudentsCount int64     `json:"students_count"`
	GroupsCount   int64     `json:"groups_count"`
}

type UsageRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, rec *types.APIUsage) error
	IncrementRequests(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	UpsertCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessons, students, groups int64) error
	CreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	StatsRows(ctx context.Context, tx *gorm.DB) ([]UserStatsRow, error)
}

type usageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageRepo(db *gorm.DB, baseLog *logger.Logger) UsageRepo {
	repoLog := baseLog.With("repo", "UsageRepo")
	return &usageRepo{db: db, log: repoLog}
}

func (r *usageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *usageRepo) Insert(ctx context.Context, tx *gorm.DB, rec *types.APIUsage) error {
	return r.conn(tx).WithContext(ctx).Create(rec).Error
}

func (r *usageRepo) IncrementRequests(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	now := time.Now()
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"api_requests_count": gorm.Expr("user_stats.api_requests_count + 1"),
				"last_updated":       now,
			}),
		}).
		Create(&types.UserStats{
			UserID:      userID,
			APIRequests: 1,
			LastUpdated: now,
		}).Error
}

func (r *usageRepo) UpsertCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessons, students, groups int64) error {
	now := time.Now()
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"lessons_created_count": lessons,
				"students_count":        students,
				"groups_count":          groups,
				"last_updated":          now,
			}),
		}).
		Create(&types.UserStats{
			UserID:        userID,
			LessonsCount:  lessons,
			StudentsCount: students,
			GroupsCount:   groups,
			LastUpdated:   now,
		}).Error
}

// CreatedSince returns raw timestamps; day bucketing happens in the service so
// the query stays portable across postgres and the sqlite test database.
func (r *usageRepo) CreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.APIUsage{}).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}
	return stamps, nil
}

func (r *usageRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.APIUsage{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *usageRepo) StatsRows(ctx context.Context, tx *gorm.DB) ([]UserStatsRow, error) {
	var rows []UserStatsRow
	err := r.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Select(`"user".id, "user".email, "user".first_name, "user".last_name, "user".is_admin, "user".is_active, "user".created_at,
			COALESCE(user_stats.api_requests_count, 0) AS api_requests,
			COALESCE(user_stats.lessons_created_count, 0) AS lessons_count,
			COALESCE(user_stats.students_count, 0) AS students_count,
			COALESCE(user_stats.groups_count, 0) AS groups_count`).
		Joins(`LEFT JOIN user_stats ON user_stats.user_id = "user".id`).
		Order("api_requests DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
