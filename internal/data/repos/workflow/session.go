package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.DiffSession, studentIDs []uuid.UUID) (*types.DiffSession, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.DiffSession, error)
	ListActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DiffSession, error)
	StudentIDs(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]uuid.UUID, error)
	SetSuggestions(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, suggestions []types.Suggestion, phase types.Phase) error
	SetApproved(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, approved []types.Suggestion, phase types.Phase) error
	SetFinalContent(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, content string, phase types.Phase) error
	Delete(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.DiffSession, studentIDs []uuid.UUID) (*types.DiffSession, error) {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Create(session).Error; err != nil {
		return nil, err
	}
	for _, sid := range studentIDs {
		link := &types.SessionStudent{ID: uuid.New(), SessionID: session.ID, StudentID: sid}
		if err := conn.Create(link).Error; err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.DiffSession, error) {
	var result types.DiffSession
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sessionRepo) ListActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DiffSession, error) {
	var results []*types.DiffSession
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND phase != ?", userID, types.PhaseCompleted).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) StudentIDs(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.SessionStudent{}).
		Where("session_id = ?", sessionID).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sessionRepo) SetSuggestions(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, suggestions []types.Suggestion, phase types.Phase) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.DiffSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"suggestions": datatypes.NewJSONSlice(suggestions),
			"phase":       phase,
			"updated_at":  time.Now(),
		}).Error
}

func (r *sessionRepo) SetApproved(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, approved []types.Suggestion, phase types.Phase) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.DiffSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"approved_suggestions": datatypes.NewJSONSlice(approved),
			"phase":                phase,
			"updated_at":           time.Now(),
		}).Error
}

func (r *sessionRepo) SetFinalContent(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, content string, phase types.Phase) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.DiffSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"final_content": content,
			"phase":         phase,
			"updated_at":    time.Now(),
		}).Error
}

// Delete removes the session and its student links. Library lessons tracing
// back to it keep their snapshot; the trace reference is nulled by the caller.
func (r *sessionRepo) Delete(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("session_id = ?", sessionID).Delete(&types.SessionStudent{}).Error; err != nil {
		return err
	}
	return conn.
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&types.DiffSession{}).Error
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	var sessionIDs []uuid.UUID
	if err := conn.Model(&types.DiffSession{}).
		Where("user_id = ?", userID).
		Pluck("id", &sessionIDs).Error; err != nil {
		return err
	}
	if len(sessionIDs) > 0 {
		if err := conn.Where("session_id IN ?", sessionIDs).Delete(&types.SessionStudent{}).Error; err != nil {
			return err
		}
	}
	return conn.Unscoped().
		Where("user_id = ?", userID).
		Delete(&types.DiffSession{}).Error
}
