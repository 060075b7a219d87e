package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// UsageService is observability only: a failed write is logged and swallowed
// so it can never fail the request it was observing.
type UsageService interface {
	Record(ctx context.Context, userID uuid.UUID, endpoint, requestType string)
	RefreshCounts(ctx context.Context, userID uuid.UUID)
}

type usageService struct {
	db          *gorm.DB
	log         *logger.Logger
	usageRepo   repos.UsageRepo
	studentRepo repos.StudentRepo
	groupRepo   repos.GroupRepo
	lessonRepo  repos.LessonRepo
}

func NewUsageService(db *gorm.DB, log *logger.Logger, usageRepo repos.UsageRepo, studentRepo repos.StudentRepo, groupRepo repos.GroupRepo, lessonRepo repos.LessonRepo) UsageService {
	serviceLog := log.With("service", "UsageService")
	return &usageService{
		db:          db,
		log:         serviceLog,
		usageRepo:   usageRepo,
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		lessonRepo:  lessonRepo,
	}
}

func (us *usageService) Record(ctx context.Context, userID uuid.UUID, endpoint, requestType string) {
	rec := &types.APIUsage{
		ID:          uuid.New(),
		UserID:      userID,
		Endpoint:    endpoint,
		RequestType: requestType,
		CreatedAt:   time.Now(),
	}
	if err := us.usageRepo.Insert(ctx, nil, rec); err != nil {
		us.log.Warn("Failed to record api usage", "error", err, "endpoint", endpoint)
		return
	}
	if err := us.usageRepo.IncrementRequests(ctx, nil, userID); err != nil {
		us.log.Warn("Failed to bump usage counter", "error", err, "user_id", userID.String())
	}
}

func (us *usageService) RefreshCounts(ctx context.Context, userID uuid.UUID) {
	lessons, err := us.lessonRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		us.log.Warn("Failed to count lessons", "error", err)
		return
	}
	students, err := us.studentRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		us.log.Warn("Failed to count students", "error", err)
		return
	}
	groups, err := us.groupRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		us.log.Warn("Failed to count groups", "error", err)
		return
	}
	if err := us.usageRepo.UpsertCounts(ctx, nil, userID, lessons, students, groups); err != nil {
		us.log.Warn("Failed to upsert user stats", "error", err, "user_id", userID.String())
	}
}
