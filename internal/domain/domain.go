package domain

import (
	"github.com/jmcalla/lessonbridge-backend/internal/domain/library"
	"github.com/jmcalla/lessonbridge-backend/internal/domain/roster"
	"github.com/jmcalla/lessonbridge-backend/internal/domain/user"
	"github.com/jmcalla/lessonbridge-backend/internal/domain/workflow"
)

type User = user.User
type APIUsage = user.APIUsage
type UserStats = user.UserStats

type Student = roster.Student
type Group = roster.Group
type GroupMember = roster.GroupMember

type Phase = workflow.Phase
type Suggestion = workflow.Suggestion
type DiffSession = workflow.DiffSession
type SessionStudent = workflow.SessionStudent

type Lesson = library.Lesson

const (
	PhaseAnalyze           = workflow.PhaseAnalyze
	PhaseSelectStudents    = workflow.PhaseSelectStudents
	PhaseReviewSuggestions = workflow.PhaseReviewSuggestions
	PhaseReadyToGenerate   = workflow.PhaseReadyToGenerate
	PhaseCompleted         = workflow.PhaseCompleted
)
