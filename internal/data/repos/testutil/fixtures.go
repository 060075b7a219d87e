package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, first, last, accommodations string) *types.Student {
	tb.Helper()
	s := &types.Student{
		ID:             uuid.New(),
		UserID:         userID,
		FirstName:      first,
		LastName:       last,
		Accommodations: accommodations,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, memberIDs ...uuid.UUID) *types.Group {
	tb.Helper()
	g := &types.Group{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	for _, sid := range memberIDs {
		m := &types.GroupMember{ID: uuid.New(), GroupID: g.ID, StudentID: sid}
		if err := tx.WithContext(ctx).Create(m).Error; err != nil {
			tb.Fatalf("seed group member: %v", err)
		}
	}
	return g
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, material string, studentIDs ...uuid.UUID) *types.DiffSession {
	tb.Helper()
	s := &types.DiffSession{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            "seeded",
		OriginalMaterial: material,
		Phase:            types.PhaseSelectStudents,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	for _, sid := range studentIDs {
		link := &types.SessionStudent{ID: uuid.New(), SessionID: s.ID, StudentID: sid}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			tb.Fatalf("seed session student: %v", err)
		}
	}
	return s
}
