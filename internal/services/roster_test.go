package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/testutil"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
)

type rosterEnv struct {
	tx    *gorm.DB
	repos repos.All
	svc   RosterService
	user  *types.User
}

func newRosterEnv(t *testing.T) *rosterEnv {
	t.Helper()
	ctx := context.Background()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	all := repos.NewAll(tx, log)
	usage := NewUsageService(tx, log, all.Usage, all.Students, all.Groups, all.Lessons)
	svc := NewRosterService(tx, log, all.Students, all.Groups, all.Lessons, all.Sessions, usage)
	user := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	return &rosterEnv{tx: tx, repos: all, svc: svc, user: user}
}

func TestStudentLifecycle(t *testing.T) {
	env := newRosterEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateStudent(ctx, env.user.ID, StudentInput{FirstName: " ", LastName: "Doe"})
	assertAPIErr(t, err, apierr.CodeValidation)

	created, err := env.svc.CreateStudent(ctx, env.user.ID, StudentInput{
		FirstName:      "  Jane ",
		LastName:       "Doe",
		GradeLevel:     "9",
		Accommodations: "Extended time",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FirstName != "Jane" {
		t.Fatalf("name not trimmed: %q", created.FirstName)
	}

	updated, err := env.svc.UpdateStudent(ctx, env.user.ID, created.ID, StudentInput{
		FirstName:      "Jane",
		LastName:       "Doe",
		GradeLevel:     "10",
		Accommodations: "Extended time, chunked instructions",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.GradeLevel != "10" {
		t.Fatalf("update lost: %q", updated.GradeLevel)
	}

	if err := env.svc.DeleteStudent(ctx, env.user.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = env.svc.GetStudent(ctx, env.user.ID, created.ID)
	assertAPIErr(t, err, apierr.CodeNotFound)
}

func TestStudentScopedToOwner(t *testing.T) {
	env := newRosterEnv(t)
	ctx := context.Background()
	other := testutil.SeedUser(t, ctx, env.tx, uuid.NewString()+"@example.com")
	student := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Jane", "Doe", "")

	_, err := env.svc.GetStudent(ctx, other.ID, student.ID)
	assertAPIErr(t, err, apierr.CodeNotFound)

	err = env.svc.DeleteStudent(ctx, other.ID, student.ID)
	assertAPIErr(t, err, apierr.CodeNotFound)
}

func TestDeleteStudentRemovesGroupMemberships(t *testing.T) {
	env := newRosterEnv(t)
	ctx := context.Background()
	jane := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Jane", "Doe", "")
	mike := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Mike", "Kim", "")
	group := testutil.SeedGroup(t, ctx, env.tx, env.user.ID, "Period 2", jane.ID, mike.ID)

	if err := env.svc.DeleteStudent(ctx, env.user.ID, jane.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ids, err := env.repos.Groups.MemberIDs(ctx, nil, group.ID)
	if err != nil {
		t.Fatalf("member ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != mike.ID {
		t.Fatalf("stale membership after student delete: %v", ids)
	}
}

func TestGroupLifecycle(t *testing.T) {
	env := newRosterEnv(t)
	ctx := context.Background()
	jane := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Jane", "Doe", "")
	mike := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Mike", "Kim", "")

	_, err := env.svc.CreateGroup(ctx, env.user.ID, GroupInput{Name: " "})
	assertAPIErr(t, err, apierr.CodeValidation)

	// A member id outside the caller's roster is rejected outright.
	_, err = env.svc.CreateGroup(ctx, env.user.ID, GroupInput{Name: "Bad", StudentIDs: []uuid.UUID{uuid.New()}})
	assertAPIErr(t, err, apierr.CodeValidation)

	group, err := env.svc.CreateGroup(ctx, env.user.ID, GroupInput{
		Name:       "504 Group",
		StudentIDs: []uuid.UUID{jane.ID, jane.ID, mike.ID},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	view, err := env.svc.GetGroup(ctx, env.user.ID, group.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if len(view.Students) != 2 {
		t.Fatalf("duplicate member ids not collapsed: %d", len(view.Students))
	}

	_, err = env.svc.UpdateGroup(ctx, env.user.ID, group.ID, GroupInput{
		Name:       "504 Group (spring)",
		StudentIDs: []uuid.UUID{mike.ID},
	})
	if err != nil {
		t.Fatalf("update group: %v", err)
	}
	ids, err := env.repos.Groups.MemberIDs(ctx, nil, group.ID)
	if err != nil {
		t.Fatalf("member ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != mike.ID {
		t.Fatalf("membership not replaced: %v", ids)
	}

	if err := env.svc.DeleteGroup(ctx, env.user.ID, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	_, err = env.svc.GetGroup(ctx, env.user.ID, group.ID)
	assertAPIErr(t, err, apierr.CodeNotFound)

	// Students survive their group.
	if _, err := env.svc.GetStudent(ctx, env.user.ID, mike.ID); err != nil {
		t.Fatalf("student lost with group: %v", err)
	}
}

func TestGetDashboard(t *testing.T) {
	env := newRosterEnv(t)
	ctx := context.Background()
	jane := testutil.SeedStudent(t, ctx, env.tx, env.user.ID, "Jane", "Doe", "")
	testutil.SeedGroup(t, ctx, env.tx, env.user.ID, "Period 2", jane.ID)

	for i := 0; i < 7; i++ {
		lesson := &types.Lesson{
			ID:                    uuid.New(),
			UserID:                env.user.ID,
			Title:                 "Lesson",
			OriginalMaterial:      "m",
			DifferentiatedContent: "<p>c</p>",
		}
		if _, err := env.repos.Lessons.Create(ctx, nil, lesson); err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}

	session := testutil.SeedSession(t, ctx, env.tx, env.user.ID, "material", jane.ID)

	dash, err := env.svc.GetDashboard(ctx, env.user.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.StudentCount != 1 || dash.GroupCount != 1 || dash.LessonCount != 7 {
		t.Fatalf("unexpected counts: %+v", dash)
	}
	if len(dash.RecentLessons) != 5 {
		t.Fatalf("recent lessons not capped at 5: %d", len(dash.RecentLessons))
	}
	if len(dash.ActiveSessions) != 1 || dash.ActiveSessions[0].ID != session.ID {
		t.Fatalf("unexpected active sessions: %+v", dash.ActiveSessions)
	}
}
