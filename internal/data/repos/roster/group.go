package roster

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

// GroupWithCount carries a group plus its member count for list views.
type GroupWithCount struct {
	types.Group
	MemberCount int64 `json:"member_count"`
}

type GroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, group *types.Group, memberIDs []uuid.UUID) (*types.Group, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID) (*types.Group, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]GroupWithCount, error)
	Update(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID, fields map[string]any) error
	ReplaceMembers(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, memberIDs []uuid.UUID) error
	MemberIDs(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error)
	MemberIDsForGroups(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	repoLog := baseLog.With("repo", "GroupRepo")
	return &groupRepo{db: db, log: repoLog}
}

func (r *groupRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *groupRepo) Create(ctx context.Context, tx *gorm.DB, group *types.Group, memberIDs []uuid.UUID) (*types.Group, error) {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Create(group).Error; err != nil {
		return nil, err
	}
	for _, sid := range memberIDs {
		member := &types.GroupMember{ID: uuid.New(), GroupID: group.ID, StudentID: sid}
		if err := conn.Create(member).Error; err != nil {
			return nil, err
		}
	}
	return group, nil
}

func (r *groupRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID) (*types.Group, error) {
	var result types.Group
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", groupID, userID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *groupRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]GroupWithCount, error) {
	var groups []*types.Group
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.
		Where("user_id = ?", userID).
		Order("name").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	results := make([]GroupWithCount, 0, len(groups))
	for _, g := range groups {
		var count int64
		if err := conn.Model(&types.GroupMember{}).
			Where("group_id = ?", g.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		results = append(results, GroupWithCount{Group: *g, MemberCount: count})
	}
	return results, nil
}

func (r *groupRepo) Update(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID, fields map[string]any) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Group{}).
		Where("id = ? AND user_id = ?", groupID, userID).
		Updates(fields).Error
}

// ReplaceMembers drops and re-adds the membership set, matching how group
// edits submit the full selection each time.
func (r *groupRepo) ReplaceMembers(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, memberIDs []uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("group_id = ?", groupID).Delete(&types.GroupMember{}).Error; err != nil {
		return err
	}
	for _, sid := range memberIDs {
		member := &types.GroupMember{ID: uuid.New(), GroupID: groupID, StudentID: sid}
		if err := conn.Create(member).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *groupRepo) MemberIDs(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *groupRepo) MemberIDsForGroups(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(groupIDs) == 0 {
		return ids, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.GroupMember{}).
		Where("group_id IN ?", groupIDs).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *groupRepo) Delete(ctx context.Context, tx *gorm.DB, userID, groupID uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("group_id = ?", groupID).Delete(&types.GroupMember{}).Error; err != nil {
		return err
	}
	return conn.
		Where("id = ? AND user_id = ?", groupID, userID).
		Delete(&types.Group{}).Error
}

func (r *groupRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	conn := r.conn(tx).WithContext(ctx)
	var groupIDs []uuid.UUID
	if err := conn.Model(&types.Group{}).
		Where("user_id = ?", userID).
		Pluck("id", &groupIDs).Error; err != nil {
		return err
	}
	if len(groupIDs) > 0 {
		if err := conn.Where("group_id IN ?", groupIDs).Delete(&types.GroupMember{}).Error; err != nil {
			return err
		}
	}
	return conn.Unscoped().
		Where("user_id = ?", userID).
		Delete(&types.Group{}).Error
}

func (r *groupRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.Group{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
