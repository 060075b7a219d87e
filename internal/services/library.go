package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// LibraryService reads and removes saved lessons. Lessons are immutable
// snapshots; the only mutation is deletion.
type LibraryService interface {
	GetLesson(ctx context.Context, userID, lessonID uuid.UUID) (*types.Lesson, error)
	ListLessons(ctx context.Context, userID uuid.UUID) ([]*types.Lesson, error)
	DeleteLesson(ctx context.Context, userID, lessonID uuid.UUID) error
}

type libraryService struct {
	db         *gorm.DB
	log        *logger.Logger
	lessonRepo repos.LessonRepo
	usage      UsageService
}

func NewLibraryService(db *gorm.DB, log *logger.Logger, lessonRepo repos.LessonRepo, usage UsageService) LibraryService {
	serviceLog := log.With("service", "LibraryService")
	return &libraryService{db: db, log: serviceLog, lessonRepo: lessonRepo, usage: usage}
}

func (ls *libraryService) GetLesson(ctx context.Context, userID, lessonID uuid.UUID) (*types.Lesson, error) {
	lesson, err := ls.lessonRepo.GetByID(ctx, nil, userID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("lesson")
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	return lesson, nil
}

func (ls *libraryService) ListLessons(ctx context.Context, userID uuid.UUID) ([]*types.Lesson, error) {
	return ls.lessonRepo.ListByUser(ctx, nil, userID)
}

func (ls *libraryService) DeleteLesson(ctx context.Context, userID, lessonID uuid.UUID) error {
	if _, err := ls.GetLesson(ctx, userID, lessonID); err != nil {
		return err
	}
	if err := ls.lessonRepo.Delete(ctx, nil, userID, lessonID); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	ls.usage.RefreshCounts(ctx, userID)
	return nil
}
