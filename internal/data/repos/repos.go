package repos

import (
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/library"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/roster"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/user"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos/workflow"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UsageRepo = user.UsageRepo
type UserStatsRow = user.UserStatsRow

type StudentRepo = roster.StudentRepo
type GroupRepo = roster.GroupRepo
type GroupWithCount = roster.GroupWithCount

type SessionRepo = workflow.SessionRepo
type LessonRepo = library.LessonRepo

var NewUserRepo = user.NewUserRepo
var NewUsageRepo = user.NewUsageRepo
var NewStudentRepo = roster.NewStudentRepo
var NewGroupRepo = roster.NewGroupRepo
var NewSessionRepo = workflow.NewSessionRepo
var NewLessonRepo = library.NewLessonRepo

// All bundles every repo for handing to services in one argument.
type All struct {
	Users    UserRepo
	Usage    UsageRepo
	Students StudentRepo
	Groups   GroupRepo
	Sessions SessionRepo
	Lessons  LessonRepo
}

func NewAll(db *gorm.DB, log *logger.Logger) All {
	return All{
		Users:    NewUserRepo(db, log),
		Usage:    NewUsageRepo(db, log),
		Students: NewStudentRepo(db, log),
		Groups:   NewGroupRepo(db, log),
		Sessions: NewSessionRepo(db, log),
		Lessons:  NewLessonRepo(db, log),
	}
}
