package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jmcalla/lessonbridge-backend/internal/curriculum"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/gemini"
	"github.com/jmcalla/lessonbridge-backend/internal/normalize"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/apierr"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
	"github.com/jmcalla/lessonbridge-backend/internal/prompt"
)

type CreateSessionInput struct {
	Title         string
	Material      string
	StudentIDs    []uuid.UUID
	GroupIDs      []uuid.UUID
	StandardCodes []string
}

// SessionView is the read-only snapshot handed to the presentation layer.
type SessionView struct {
	Session  *types.DiffSession `json:"session"`
	Students []*types.Student   `json:"students"`
}

// WorkflowService drives the four-phase differentiation state machine.
// Phases only move forward; generation is at-most-once per session because
// both generate operations return stored output when it already exists.
type WorkflowService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, in CreateSessionInput) (*types.DiffSession, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)
	ListActiveSessions(ctx context.Context, userID uuid.UUID) ([]*types.DiffSession, error)
	GenerateSuggestions(ctx context.Context, userID, sessionID uuid.UUID) (*types.DiffSession, error)
	ApproveSuggestions(ctx context.Context, userID, sessionID uuid.UUID, indices []int) (*types.DiffSession, error)
	GenerateFinal(ctx context.Context, userID, sessionID uuid.UUID) (*types.DiffSession, error)
	SaveToLibrary(ctx context.Context, userID, sessionID uuid.UUID, title string) (*types.Lesson, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

type workflowService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	studentRepo repos.StudentRepo
	groupRepo   repos.GroupRepo
	lessonRepo  repos.LessonRepo
	generator   gemini.Generator
	standards   *curriculum.Standards
	usage       UsageService
}

func NewWorkflowService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionRepo,
	studentRepo repos.StudentRepo,
	groupRepo repos.GroupRepo,
	lessonRepo repos.LessonRepo,
	generator gemini.Generator,
	standards *curriculum.Standards,
	usage UsageService,
) WorkflowService {
	serviceLog := log.With("service", "WorkflowService")
	return &workflowService{
		db:          db,
		log:         serviceLog,
		sessionRepo: sessionRepo,
		studentRepo: studentRepo,
		groupRepo:   groupRepo,
		lessonRepo:  lessonRepo,
		generator:   generator,
		standards:   standards,
		usage:       usage,
	}
}

// CreateSession resolves the student and group selection into a concrete,
// deduplicated student set and opens the session at select_students.
func (ws *workflowService) CreateSession(ctx context.Context, userID uuid.UUID, in CreateSessionInput) (*types.DiffSession, error) {
	if strings.TrimSpace(in.Material) == "" {
		return nil, apierr.Validation("lesson material is required")
	}
	if len(in.StudentIDs) == 0 && len(in.GroupIDs) == 0 {
		return nil, apierr.Validation("select at least one student or group")
	}

	var session *types.DiffSession
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberIDs, err := ws.groupRepo.MemberIDsForGroups(ctx, tx, in.GroupIDs)
		if err != nil {
			return fmt.Errorf("expand groups: %w", err)
		}

		seen := make(map[uuid.UUID]bool)
		var candidates []uuid.UUID
		for _, sid := range append(append([]uuid.UUID{}, in.StudentIDs...), memberIDs...) {
			if !seen[sid] {
				seen[sid] = true
				candidates = append(candidates, sid)
			}
		}

		// Ownership filter: ids that don't resolve under this account are
		// dropped the same way unknown standard codes are.
		owned, err := ws.studentRepo.GetByIDs(ctx, tx, userID, candidates)
		if err != nil {
			return fmt.Errorf("resolve students: %w", err)
		}
		if len(owned) == 0 {
			return apierr.Validation("no selected students found")
		}
		studentIDs := make([]uuid.UUID, 0, len(owned))
		for _, s := range owned {
			studentIDs = append(studentIDs, s.ID)
		}

		session = &types.DiffSession{
			ID:               uuid.New(),
			UserID:           userID,
			Title:            strings.TrimSpace(in.Title),
			OriginalMaterial: in.Material,
			Phase:            types.PhaseSelectStudents,
			StandardCodes:    in.StandardCodes,
		}
		if _, err := ws.sessionRepo.Create(ctx, tx, session, studentIDs); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ws.log.Info("Created differentiation session", "session_id", session.ID.String(), "user_id", userID.String())
	return session, nil
}

func (ws *workflowService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error) {
	session, err := ws.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	students, err := ws.sessionStudents(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: session, Students: students}, nil
}

func (ws *workflowService) ListActiveSessions(ctx context.Context, userID uuid.UUID) ([]*types.DiffSession, error) {
	return ws.sessionRepo.ListActiveByUser(ctx, nil, userID)
}

// GenerateSuggestions is phase 2. If the session already holds suggestions
// they are returned as-is and the generator is never re-invoked; a remote
// failure leaves the phase untouched so the caller can simply retry.
func (ws *workflowService) GenerateSuggestions(ctx context.Context, userID, sessionID uuid.UUID) (*types.DiffSession, error) {
	session, err := ws.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Suggestions) > 0 {
		return session, nil
	}

	students, err := ws.sessionStudents(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	profiles := make([]prompt.StudentProfile, 0, len(students))
	names := make([]string, 0, len(students))
	for _, s := range students {
		profiles = append(profiles, prompt.StudentProfile{
			Name:           s.FullName(),
			Accommodations: s.Accommodations,
			Needs:          s.NeedsDescription,
		})
		names = append(names, s.FullName())
	}

	standardsBlock := ""
	if ws.standards != nil {
		standardsBlock = ws.standards.Render(session.StandardCodes)
	}

	raw, err := ws.generator.Generate(ctx, prompt.Suggestions(session.OriginalMaterial, profiles, standardsBlock))
	if err != nil {
		ws.log.Warn("Suggestion generation failed", "error", err, "session_id", sessionID.String())
		return nil, apierr.GenerationFailed(err)
	}

	suggestions, degraded := normalize.ParseSuggestions(raw, names)
	if degraded {
		ws.log.Warn("Generator reply was not structured, stored as degraded fallback", "session_id", sessionID.String())
	}
	if err := ws.sessionRepo.SetSuggestions(ctx, nil, sessionID, suggestions, types.PhaseReviewSuggestions); err != nil {
		return nil, fmt.Errorf("store suggestions: %w", err)
	}
	ws.usage.Record(ctx, userID, "differentiate/suggestions", "generate")

	session.Suggestions = suggestions
	session.Phase = types.PhaseReviewSuggestions
	return session, nil
}

// ApproveSuggestions is phase 3. Indices address the stored suggestion list;
// any out-of-range index fails validation with the phase unchanged. Order of
// the given indices is preserved in the approved list.
func (ws *workflowService) ApproveSuggestions(ctx context.Context, userID, sessionID uuid.UUID, indices []int) (*types.DiffSession, error) {
	session, err := ws.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase == types.PhaseCompleted {
		return nil, apierr.Validation("session is already completed")
	}
	if len(session.Suggestions) == 0 {
		return nil, apierr.Validation("session has no suggestions to approve")
	}

	approved := make([]types.Suggestion, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(session.Suggestions) {
			return nil, apierr.Validation("suggestion index %d out of range", i)
		}
		approved = append(approved, session.Suggestions[i])
	}

	if err := ws.sessionRepo.SetApproved(ctx, nil, sessionID, approved, types.PhaseReadyToGenerate); err != nil {
		return nil, fmt.Errorf("store approved suggestions: %w", err)
	}

	session.Approved = approved
	session.Phase = types.PhaseReadyToGenerate
	return session, nil
}

// GenerateFinal is phase 4: one remote call over the approved suggestion
// texts, rendered to HTML and stored. Stored content short-circuits the
// remote call forever after.
func (ws *workflowService) GenerateFinal(ctx context.Context, userID, sessionID uuid.UUID) (*types.DiffSession, error) {
	session, err := ws.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.FinalContent != "" {
		return session, nil
	}
	if !session.Phase.AtLeast(types.PhaseReadyToGenerate) || len(session.Approved) == 0 {
		return nil, apierr.Validation("no approved suggestions for this session")
	}

	texts := make([]string, 0, len(session.Approved))
	for _, s := range session.Approved {
		texts = append(texts, s.Text)
	}

	raw, err := ws.generator.Generate(ctx, prompt.FinalContent(session.OriginalMaterial, texts))
	if err != nil {
		ws.log.Warn("Final content generation failed", "error", err, "session_id", sessionID.String())
		return nil, apierr.GenerationFailed(err)
	}

	htmlContent, err := normalize.MarkdownToHTML(raw)
	if err != nil {
		return nil, fmt.Errorf("render final content: %w", err)
	}
	if err := ws.sessionRepo.SetFinalContent(ctx, nil, sessionID, htmlContent, types.PhaseCompleted); err != nil {
		return nil, fmt.Errorf("store final content: %w", err)
	}
	ws.usage.Record(ctx, userID, "differentiate/generate", "generate")

	session.FinalContent = htmlContent
	session.Phase = types.PhaseCompleted
	return session, nil
}

// SaveToLibrary snapshots a completed session into an immutable lesson.
func (ws *workflowService) SaveToLibrary(ctx context.Context, userID, sessionID uuid.UUID, title string) (*types.Lesson, error) {
	session, err := ws.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.FinalContent == "" {
		return nil, apierr.Validation("session has no generated content to save")
	}

	students, err := ws.sessionStudents(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.FullName())
	}

	if strings.TrimSpace(title) == "" {
		title = session.Title
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled Lesson"
	}

	sid := session.ID
	lesson := &types.Lesson{
		ID:                    uuid.New(),
		UserID:                userID,
		SessionID:             &sid,
		Title:                 title,
		OriginalMaterial:      session.OriginalMaterial,
		DifferentiatedContent: session.FinalContent,
		StudentsInvolved:      strings.Join(names, ", "),
	}
	if _, err := ws.lessonRepo.Create(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("save lesson: %w", err)
	}
	ws.usage.RefreshCounts(ctx, userID)

	ws.log.Info("Saved lesson to library", "session_id", sessionID.String(), "user_id", userID.String())
	return lesson, nil
}

// DeleteSession removes the session; library lessons keep their snapshot but
// lose the trace reference.
func (ws *workflowService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := ws.getOwned(ctx, userID, sessionID); err != nil {
		return err
	}
	return ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ws.lessonRepo.ClearSessionTrace(ctx, tx, sessionID); err != nil {
			return fmt.Errorf("clear lesson trace: %w", err)
		}
		return ws.sessionRepo.Delete(ctx, tx, userID, sessionID)
	})
}

func (ws *workflowService) getOwned(ctx context.Context, userID, sessionID uuid.UUID) (*types.DiffSession, error) {
	session, err := ws.sessionRepo.GetByID(ctx, nil, userID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("session")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

// sessionStudents returns the session's students in a stable name order so
// prompts and denormalized name lists are deterministic.
func (ws *workflowService) sessionStudents(ctx context.Context, userID, sessionID uuid.UUID) ([]*types.Student, error) {
	ids, err := ws.sessionRepo.StudentIDs(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session students: %w", err)
	}
	students, err := ws.studentRepo.GetByIDs(ctx, nil, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve session students: %w", err)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students, nil
}
