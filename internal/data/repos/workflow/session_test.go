package workflow_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/testutil"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/workflow"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := workflow.NewSessionRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	student := testutil.SeedStudent(t, ctx, tx, user.ID, "Jane", "Doe", "")

	session := &types.DiffSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            "OOP Intro",
		OriginalMaterial: "Write a class.",
		Phase:            types.PhaseSelectStudents,
		StandardCodes:    []string{"1A-2-1"},
	}
	if _, err := repo.Create(ctx, nil, session, []uuid.UUID{student.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, user.ID, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "OOP Intro" || got.Phase != types.PhaseSelectStudents {
		t.Fatalf("unexpected session: %+v", got)
	}
	if len(got.StandardCodes) != 1 || got.StandardCodes[0] != "1A-2-1" {
		t.Fatalf("standard codes lost: %v", got.StandardCodes)
	}

	ids, err := repo.StudentIDs(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("student ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != student.ID {
		t.Fatalf("unexpected links: %v", ids)
	}
}

func TestSessionSuggestionColumnsSurviveScan(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := workflow.NewSessionRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	session := testutil.SeedSession(t, ctx, tx, user.ID, "material")

	suggestions := []types.Suggestion{
		{Text: "Add a glossary", AppliesTo: []string{"Jane Doe"}},
		{Text: "Whole reply", AppliesTo: []string{"Jane Doe", "Mike Kim"}, Degraded: true},
	}
	if err := repo.SetSuggestions(ctx, nil, session.ID, suggestions, types.PhaseReviewSuggestions); err != nil {
		t.Fatalf("set suggestions: %v", err)
	}
	if err := repo.SetApproved(ctx, nil, session.ID, suggestions[:1], types.PhaseReadyToGenerate); err != nil {
		t.Fatalf("set approved: %v", err)
	}
	if err := repo.SetFinalContent(ctx, nil, session.ID, "<h1>Done</h1>", types.PhaseCompleted); err != nil {
		t.Fatalf("set final: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, user.ID, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phase != types.PhaseCompleted || got.FinalContent != "<h1>Done</h1>" {
		t.Fatalf("final state lost: %+v", got)
	}
	if len(got.Suggestions) != 2 || !got.Suggestions[1].Degraded {
		t.Fatalf("suggestion column mangled: %+v", got.Suggestions)
	}
	if len(got.Approved) != 1 || got.Approved[0].Text != "Add a glossary" {
		t.Fatalf("approved column mangled: %+v", got.Approved)
	}
}

func TestListActiveExcludesCompleted(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := workflow.NewSessionRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	active := testutil.SeedSession(t, ctx, tx, user.ID, "one")
	done := testutil.SeedSession(t, ctx, tx, user.ID, "two")
	if err := repo.SetFinalContent(ctx, nil, done.ID, "<p>x</p>", types.PhaseCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := repo.ListActiveByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("unexpected active set: %+v", got)
	}
}

func TestSessionDeleteRemovesLinks(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := workflow.NewSessionRepo(tx, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, uuid.NewString()+"@example.com")
	student := testutil.SeedStudent(t, ctx, tx, user.ID, "Jane", "Doe", "")
	session := testutil.SeedSession(t, ctx, tx, user.ID, "material", student.ID)

	if err := repo.Delete(ctx, nil, user.ID, session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, nil, user.ID, session.ID); err == nil {
		t.Fatalf("deleted session still readable")
	}
	ids, err := repo.StudentIDs(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("student ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("links survived delete: %v", ids)
	}
}
