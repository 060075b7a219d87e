package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

type AdminDashboard struct {
	TotalUsers      int64         `json:"total_users"`
	ActiveUsers     int64         `json:"active_users"`
	AdminUsers      int64         `json:"admin_users"`
	PendingUsers    []*types.User `json:"pending_users"`
	TotalLessons    int64         `json:"total_lessons"`
	RequestsLast7d  int64         `json:"requests_last_7d"`
	RequestsLast30d int64         `json:"requests_last_30d"`
}

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsAdmin   bool
}

// UpdateUserInput carries only the fields the admin form submitted; nil
// pointer means leave the column alone.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsAdmin   *bool
	IsActive  *bool
}

// TimelinePoint is one day of activity in the statistics view.
type TimelinePoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type Statistics struct {
	Users           []repos.UserStatsRow `json:"users"`
	TopAPIUsers     []repos.UserStatsRow `json:"top_api_users"`
	RequestTimeline []TimelinePoint      `json:"request_timeline"`
	LessonTimeline  []TimelinePoint      `json:"lesson_timeline"`
}

// AdminService covers account administration and platform statistics. Every
// caller has already passed the admin gate in the middleware.
type AdminService interface {
	GetDashboard(ctx context.Context) (*AdminDashboard, error)
	ListUsers(ctx context.Context, search string) ([]*types.User, error)
	ListPendingUsers(ctx context.Context) ([]*types.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*types.User, error)
	ApproveUser(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
	DeleteUsers(ctx context.Context, adminID uuid.UUID, userIDs []uuid.UUID) (int, error)
	GetStatistics(ctx context.Context, days int) (*Statistics, error)
}

type adminService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	usageRepo   repos.UsageRepo
	studentRepo repos.StudentRepo
	groupRepo   repos.GroupRepo
	sessionRepo repos.SessionRepo
	lessonRepo  repos.LessonRepo
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	usageRepo repos.UsageRepo,
	studentRepo repos.StudentRepo,
	groupRepo repos.GroupRepo,
	sessionRepo repos.SessionRepo,
	lessonRepo repos.LessonRepo,
) AdminService {
	serviceLog := log.With("service", "AdminService")
	return &adminService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		usageRepo:   usageRepo,
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		sessionRepo: sessionRepo,
		lessonRepo:  lessonRepo,
	}
}

func (s *adminService) GetDashboard(ctx context.Context) (*AdminDashboard, error) {
	total, active, admins, err := s.userRepo.Counts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	pending, err := s.userRepo.ListPending(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	lessons, err := s.lessonRepo.CountAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	now := time.Now()
	week, err := s.usageRepo.CountSince(ctx, nil, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count recent requests: %w", err)
	}
	month, err := s.usageRepo.CountSince(ctx, nil, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("count recent requests: %w", err)
	}
	return &AdminDashboard{
		TotalUsers:      total,
		ActiveUsers:     active,
		AdminUsers:      admins,
		PendingUsers:    pending,
		TotalLessons:    lessons,
		RequestsLast7d:  week,
		RequestsLast30d: month,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, search string) ([]*types.User, error) {
	return s.userRepo.List(ctx, nil, strings.TrimSpace(search))
}

func (s *adminService) ListPendingUsers(ctx context.Context) ([]*types.User, error) {
	return s.userRepo.ListPending(ctx, nil)
}

// CreateUser provisions an account directly; admin-created accounts skip the
// approval queue and start active.
func (s *adminService) CreateUser(ctx context.Context, in CreateUserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, apierr.Validation("all fields are required")
	}
	exists, err := s.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		IsAdmin:   in.IsAdmin,
		IsActive:  true,
	}
	if _, err := s.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("Admin created account", "user_id", user.ID.String())
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*types.User, error) {
	target, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, apierr.Validation("email cannot be empty")
		}
		if email != target.Email {
			exists, err := s.userRepo.EmailExists(ctx, nil, email)
			if err != nil {
				return nil, fmt.Errorf("check existing email: %w", err)
			}
			if exists {
				return nil, apierr.Conflict("email already registered")
			}
			fields["email"] = email
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hash)
	}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, apierr.Validation("first name cannot be empty")
		}
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return nil, apierr.Validation("last name cannot be empty")
		}
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.IsAdmin != nil {
		fields["is_admin"] = *in.IsAdmin
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := s.userRepo.Update(ctx, nil, userID, fields); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.getUser(ctx, userID)
}

func (s *adminService) ApproveUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(ctx, nil, userID, true); err != nil {
		return fmt.Errorf("approve user: %w", err)
	}
	s.log.Info("Approved account", "user_id", userID.String())
	return nil
}

// DeleteUser removes the account and everything it owns. Self-deletion is
// rejected so an admin can't lock themselves out mid-session.
func (s *adminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return apierr.Validation("cannot delete your own account")
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.purgeUserData(ctx, tx, userID)
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info("Deleted account", "user_id", userID.String())
	return nil
}

// DeleteUsers is the bulk form; the calling admin is silently skipped and the
// number of removed accounts is reported.
func (s *adminService) DeleteUsers(ctx context.Context, adminID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	deleted := 0
	for _, uid := range userIDs {
		if uid == adminID {
			continue
		}
		if _, err := s.getUser(ctx, uid); err != nil {
			var ae *apierr.Error
			if errors.As(err, &ae) && ae.Code == apierr.CodeNotFound {
				continue
			}
			return deleted, err
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.purgeUserData(ctx, tx, uid)
		})
		if err != nil {
			return deleted, fmt.Errorf("delete user %s: %w", uid, err)
		}
		deleted++
	}
	s.log.Info("Bulk deleted accounts", "count", deleted)
	return deleted, nil
}

func (s *adminService) purgeUserData(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.lessonRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.groupRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.studentRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&types.APIUsage{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&types.UserStats{}).Error; err != nil {
		return err
	}
	return s.userRepo.HardDelete(ctx, tx, userID)
}

// GetStatistics returns per-user counters plus day-bucketed activity over the
// trailing window. Bucketing happens here rather than in SQL so the query
// works on both backing databases.
func (s *adminService) GetStatistics(ctx context.Context, days int) (*Statistics, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	rows, err := s.usageRepo.StatsRows(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	requestStamps, err := s.usageRepo.CreatedSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("load request timeline: %w", err)
	}
	lessonStamps, err := s.lessonRepo.CreatedSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("load lesson timeline: %w", err)
	}

	// Rows arrive sorted by request count, so the leaderboard is a prefix.
	top := rows
	if len(top) > 10 {
		top = top[:10]
	}

	return &Statistics{
		Users:           rows,
		TopAPIUsers:     top,
		RequestTimeline: bucketByDay(requestStamps),
		LessonTimeline:  bucketByDay(lessonStamps),
	}, nil
}

func (s *adminService) getUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user")
	}
	return users[0], nil
}

func bucketByDay(stamps []time.Time) []TimelinePoint {
	counts := make(map[string]int64)
	for _, ts := range stamps {
		counts[ts.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)
	points := make([]TimelinePoint, 0, len(days))
	for _, day := range days {
		points = append(points, TimelinePoint{Day: day, Count: counts[day]})
	}
	return points
}
