package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/testutil"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
)

type adminEnv struct {
	tx    *gorm.DB
	repos repos.All
	svc   AdminService
	admin *types.User
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	ctx := context.Background()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	all := repos.NewAll(tx, log)
	svc := NewAdminService(tx, log, all.Users, all.Usage, all.Students, all.Groups, all.Sessions, all.Lessons)

	admin := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	admin.IsAdmin = true
	if err := tx.Save(admin).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	return &adminEnv{tx: tx, repos: all, svc: svc, admin: admin}
}

func TestAdminCreateUserStartsActive(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateUser(ctx, CreateUserInput{Email: "x@example.com"})
	assertAPIErr(t, err, apierr.CodeValidation)

	email := uuid.NewString() + "@example.com"
	user, err := env.svc.CreateUser(ctx, CreateUserInput{
		Email:     email,
		Password:  "pw12345",
		FirstName: "Grace",
		LastName:  "Hopper",
		IsAdmin:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !user.IsActive {
		t.Fatalf("admin-created accounts must skip the approval queue")
	}
	if !user.IsAdmin {
		t.Fatalf("admin flag lost")
	}

	_, err = env.svc.CreateUser(ctx, CreateUserInput{Email: email, Password: "pw", FirstName: "G", LastName: "H"})
	assertAPIErr(t, err, apierr.CodeConflict)
}

func TestApproveUserFlipsActive(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	pending := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")
	if err := env.tx.Model(pending).Update("is_active", false).Error; err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	before, err := env.svc.ListPendingUsers(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if !containsUser(before, pending.ID) {
		t.Fatalf("pending account missing from queue")
	}

	if err := env.svc.ApproveUser(ctx, pending.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	after, err := env.svc.ListPendingUsers(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if containsUser(after, pending.ID) {
		t.Fatalf("approved account still pending")
	}

	err = env.svc.ApproveUser(ctx, uuid.New())
	assertAPIErr(t, err, apierr.CodeNotFound)
}

func TestUpdateUserPartialFields(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	target := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")

	newFirst := "Renamed"
	isAdmin := true
	updated, err := env.svc.UpdateUser(ctx, target.ID, UpdateUserInput{FirstName: &newFirst, IsAdmin: &isAdmin})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Renamed" || !updated.IsAdmin {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.LastName != target.LastName || updated.Email != target.Email {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	empty := " "
	_, err = env.svc.UpdateUser(ctx, target.ID, UpdateUserInput{FirstName: &empty})
	assertAPIErr(t, err, apierr.CodeValidation)

	taken := env.admin.Email
	_, err = env.svc.UpdateUser(ctx, target.ID, UpdateUserInput{Email: &taken})
	assertAPIErr(t, err, apierr.CodeConflict)
}

func TestDeleteUserPurgesOwnedData(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	target := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")
	student := testutil.SeedStudent(t, ctx, env.tx, target.ID, "Jane", "Doe", "")
	testutil.SeedGroup(t, ctx, env.tx, target.ID, "Period 2", student.ID)
	testutil.SeedSession(t, ctx, env.tx, target.ID, "material", student.ID)

	// Self-deletion is refused.
	err := env.svc.DeleteUser(ctx, env.admin.ID, env.admin.ID)
	assertAPIErr(t, err, apierr.CodeValidation)

	if err := env.svc.DeleteUser(ctx, env.admin.ID, target.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := env.repos.Students.CountByUser(ctx, nil, target.ID)
	if err != nil {
		t.Fatalf("count students: %v", err)
	}
	if count != 0 {
		t.Fatalf("students survived account deletion: %d", count)
	}
	users, err := env.repos.Users.GetByIDs(ctx, nil, []uuid.UUID{target.ID})
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("account row survived deletion")
	}
}

func TestBulkDeleteSkipsSelfAndUnknown(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	a := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")
	b := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")

	deleted, err := env.svc.DeleteUsers(ctx, env.admin.ID, []uuid.UUID{a.ID, env.admin.ID, uuid.New(), b.ID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("unexpected delete count: got=%d want=2", deleted)
	}

	// The calling admin is untouched.
	users, err := env.repos.Users.GetByIDs(ctx, nil, []uuid.UUID{env.admin.ID})
	if err != nil || len(users) != 1 {
		t.Fatalf("admin account affected by bulk delete: %v", err)
	}
}

func TestGetStatisticsBucketsByDay(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	target := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	for _, stamp := range []time.Time{today, today, yesterday} {
		rec := &types.APIUsage{
			ID:          uuid.New(),
			UserID:      target.ID,
			Endpoint:    "differentiate/suggestions",
			RequestType: "generate",
			CreatedAt:   stamp,
		}
		if err := env.repos.Usage.Insert(ctx, nil, rec); err != nil {
			t.Fatalf("seed usage: %v", err)
		}
	}

	stats, err := env.svc.GetStatistics(ctx, 7)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if len(stats.RequestTimeline) != 2 {
		t.Fatalf("unexpected bucket count: %d", len(stats.RequestTimeline))
	}
	// Buckets are sorted ascending by day.
	if stats.RequestTimeline[0].Day > stats.RequestTimeline[1].Day {
		t.Fatalf("timeline not sorted: %+v", stats.RequestTimeline)
	}
	if stats.RequestTimeline[0].Count != 1 || stats.RequestTimeline[1].Count != 2 {
		t.Fatalf("unexpected counts: %+v", stats.RequestTimeline)
	}
	if !containsStatsRow(stats.Users, target.ID) {
		t.Fatalf("per-user stats missing seeded account")
	}
}

func TestAdminDashboardCounts(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	pending := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")
	if err := env.tx.Model(pending).Update("is_active", false).Error; err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	dash, err := env.svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalUsers < 2 {
		t.Fatalf("total users too low: %d", dash.TotalUsers)
	}
	if dash.AdminUsers < 1 {
		t.Fatalf("admin count missing: %d", dash.AdminUsers)
	}
	if !containsUser(dash.PendingUsers, pending.ID) {
		t.Fatalf("pending account missing from dashboard")
	}
}

func containsUser(users []*types.User, id uuid.UUID) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func containsStatsRow(rows []repos.UserStatsRow, id uuid.UUID) bool {
	for _, r := range rows {
		if r.ID == id {
			return true
		}
	}
	return false
}
