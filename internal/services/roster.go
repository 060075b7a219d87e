package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

type StudentInput struct {
	FirstName        string
	LastName         string
	GradeLevel       string
	Accommodations   string
	NeedsDescription string
}

type GroupInput struct {
	Name        string
	Description string
	StudentIDs  []uuid.UUID
}

// GroupView is a group plus its resolved member list.
type GroupView struct {
	Group    *types.Group     `json:"group"`
	Students []*types.Student `json:"students"`
}

// Dashboard aggregates the landing-page counters, recent lessons and any
// sessions still mid-workflow.
type Dashboard struct {
	StudentCount   int64                `json:"student_count"`
	GroupCount     int64                `json:"group_count"`
	LessonCount    int64                `json:"lesson_count"`
	RecentLessons  []*types.Lesson      `json:"recent_lessons"`
	ActiveSessions []*types.DiffSession `json:"active_sessions"`
}

// RosterService manages the per-teacher student and group roster. Every
// operation is scoped to the calling account.
type RosterService interface {
	CreateStudent(ctx context.Context, userID uuid.UUID, in StudentInput) (*types.Student, error)
	GetStudent(ctx context.Context, userID, studentID uuid.UUID) (*types.Student, error)
	ListStudents(ctx context.Context, userID uuid.UUID) ([]*types.Student, error)
	UpdateStudent(ctx context.Context, userID, studentID uuid.UUID, in StudentInput) (*types.Student, error)
	DeleteStudent(ctx context.Context, userID, studentID uuid.UUID) error

	CreateGroup(ctx context.Context, userID uuid.UUID, in GroupInput) (*types.Group, error)
	GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*GroupView, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]repos.GroupWithCount, error)
	UpdateGroup(ctx context.Context, userID, groupID uuid.UUID, in GroupInput) (*types.Group, error)
	DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error

	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type rosterService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
	groupRepo   repos.GroupRepo
	lessonRepo  repos.LessonRepo
	sessionRepo repos.SessionRepo
	usage       UsageService
}

func NewRosterService(db *gorm.DB, log *logger.Logger, studentRepo repos.StudentRepo, groupRepo repos.GroupRepo, lessonRepo repos.LessonRepo, sessionRepo repos.SessionRepo, usage UsageService) RosterService {
	serviceLog := log.With("service", "RosterService")
	return &rosterService{
		db:          db,
		log:         serviceLog,
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		lessonRepo:  lessonRepo,
		sessionRepo: sessionRepo,
		usage:       usage,
	}
}

func (rs *rosterService) CreateStudent(ctx context.Context, userID uuid.UUID, in StudentInput) (*types.Student, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, apierr.Validation("first and last name are required")
	}

	student := &types.Student{
		ID:               uuid.New(),
		UserID:           userID,
		FirstName:        first,
		LastName:         last,
		GradeLevel:       strings.TrimSpace(in.GradeLevel),
		Accommodations:   in.Accommodations,
		NeedsDescription: in.NeedsDescription,
	}
	if _, err := rs.studentRepo.Create(ctx, nil, []*types.Student{student}); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	rs.usage.RefreshCounts(ctx, userID)
	return student, nil
}

func (rs *rosterService) GetStudent(ctx context.Context, userID, studentID uuid.UUID) (*types.Student, error) {
	student, err := rs.studentRepo.GetByID(ctx, nil, userID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student")
		}
		return nil, fmt.Errorf("load student: %w", err)
	}
	return student, nil
}

func (rs *rosterService) ListStudents(ctx context.Context, userID uuid.UUID) ([]*types.Student, error) {
	return rs.studentRepo.ListByUser(ctx, nil, userID)
}

func (rs *rosterService) UpdateStudent(ctx context.Context, userID, studentID uuid.UUID, in StudentInput) (*types.Student, error) {
	if _, err := rs.GetStudent(ctx, userID, studentID); err != nil {
		return nil, err
	}
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, apierr.Validation("first and last name are required")
	}

	fields := map[string]any{
		"first_name":        first,
		"last_name":         last,
		"grade_level":       strings.TrimSpace(in.GradeLevel),
		"accommodations":    in.Accommodations,
		"needs_description": in.NeedsDescription,
	}
	if err := rs.studentRepo.Update(ctx, nil, userID, studentID, fields); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return rs.GetStudent(ctx, userID, studentID)
}

// DeleteStudent also drops the student's group memberships so no group keeps
// a dangling member row.
func (rs *rosterService) DeleteStudent(ctx context.Context, userID, studentID uuid.UUID) error {
	if _, err := rs.GetStudent(ctx, userID, studentID); err != nil {
		return err
	}
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&types.GroupMember{}).Error; err != nil {
			return err
		}
		return rs.studentRepo.Delete(ctx, tx, userID, studentID)
	})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	rs.usage.RefreshCounts(ctx, userID)
	return nil
}

// CreateGroup verifies the member selection against the caller's roster;
// ids that don't resolve are rejected rather than silently dropped, since a
// group edit is an explicit statement of membership.
func (rs *rosterService) CreateGroup(ctx context.Context, userID uuid.UUID, in GroupInput) (*types.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Validation("group name is required")
	}
	memberIDs, err := rs.verifyMembers(ctx, userID, in.StudentIDs)
	if err != nil {
		return nil, err
	}

	group := &types.Group{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: in.Description,
	}
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := rs.groupRepo.Create(ctx, tx, group, memberIDs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	rs.usage.RefreshCounts(ctx, userID)
	return group, nil
}

func (rs *rosterService) GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*GroupView, error) {
	group, err := rs.groupRepo.GetByID(ctx, nil, userID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("group")
		}
		return nil, fmt.Errorf("load group: %w", err)
	}
	memberIDs, err := rs.groupRepo.MemberIDs(ctx, nil, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	students, err := rs.studentRepo.GetByIDs(ctx, nil, userID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve group members: %w", err)
	}
	return &GroupView{Group: group, Students: students}, nil
}

func (rs *rosterService) ListGroups(ctx context.Context, userID uuid.UUID) ([]repos.GroupWithCount, error) {
	return rs.groupRepo.ListByUser(ctx, nil, userID)
}

func (rs *rosterService) UpdateGroup(ctx context.Context, userID, groupID uuid.UUID, in GroupInput) (*types.Group, error) {
	if _, err := rs.groupRepo.GetByID(ctx, nil, userID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("group")
		}
		return nil, fmt.Errorf("load group: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Validation("group name is required")
	}
	memberIDs, err := rs.verifyMembers(ctx, userID, in.StudentIDs)
	if err != nil {
		return nil, err
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{"name": name, "description": in.Description}
		if err := rs.groupRepo.Update(ctx, tx, userID, groupID, fields); err != nil {
			return err
		}
		return rs.groupRepo.ReplaceMembers(ctx, tx, groupID, memberIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return rs.groupRepo.GetByID(ctx, nil, userID, groupID)
}

func (rs *rosterService) DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := rs.groupRepo.GetByID(ctx, nil, userID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("group")
		}
		return fmt.Errorf("load group: %w", err)
	}
	if err := rs.groupRepo.Delete(ctx, nil, userID, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	rs.usage.RefreshCounts(ctx, userID)
	return nil
}

func (rs *rosterService) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	studentCount, err := rs.studentRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	groupCount, err := rs.groupRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count groups: %w", err)
	}
	lessonCount, err := rs.lessonRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	recent, err := rs.lessonRepo.RecentByUser(ctx, nil, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("load recent lessons: %w", err)
	}
	active, err := rs.sessionRepo.ListActiveByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load active sessions: %w", err)
	}
	return &Dashboard{
		StudentCount:   studentCount,
		GroupCount:     groupCount,
		LessonCount:    lessonCount,
		RecentLessons:  recent,
		ActiveSessions: active,
	}, nil
}

func (rs *rosterService) verifyMembers(ctx context.Context, userID uuid.UUID, studentIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var unique []uuid.UUID
	for _, sid := range studentIDs {
		if !seen[sid] {
			seen[sid] = true
			unique = append(unique, sid)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}
	owned, err := rs.studentRepo.GetByIDs(ctx, nil, userID, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}
	if len(owned) != len(unique) {
		return nil, apierr.Validation("one or more selected students were not found")
	}
	return unique, nil
}
