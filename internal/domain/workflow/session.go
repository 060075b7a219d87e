package workflow

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Phase is the differentiation workflow state. Transitions only ever move
// forward; a failed remote call leaves the phase where it was.
type Phase string

const (
	PhaseAnalyze           Phase = "analyze"
	PhaseSelectStudents    Phase = "select_students"
	PhaseReviewSuggestions Phase = "review_suggestions"
	PhaseReadyToGenerate   Phase = "ready_to_generate"
	PhaseCompleted         Phase = "completed"
)

var phaseOrder = map[Phase]int{
	PhaseAnalyze:           0,
	PhaseSelectStudents:    1,
	PhaseReviewSuggestions: 2,
	PhaseReadyToGenerate:   3,
	PhaseCompleted:         4,
}

// AtLeast reports whether p has reached (or passed) other in the forward
// sequence. Unknown phases rank below everything.
func (p Phase) AtLeast(other Phase) bool {
	pi, ok := phaseOrder[p]
	if !ok {
		return false
	}
	oi, ok := phaseOrder[other]
	if !ok {
		return false
	}
	return pi >= oi
}

func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// Suggestion is one proposed lesson modification with the students it benefits.
// Degraded marks a reply the normalizer could not decode and wrapped whole, so
// callers can tell fallback output apart from a real per-student mapping.
type Suggestion struct {
	Text      string   `json:"text"`
	AppliesTo []string `json:"applies_to"`
	Degraded  bool     `json:"degraded,omitempty"`
}

// DiffSession is one differentiation-request lifecycle instance (distinct from
// an authentication session). Suggestion lists are typed JSON columns, not
// opaque text blobs, so the store boundary validates their shape on scan.
type DiffSession struct {
	ID               uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string                            `gorm:"column:title" json:"title"`
	OriginalMaterial string                            `gorm:"type:text;not null;column:original_material" json:"original_material"`
	Phase            Phase                             `gorm:"not null;default:'analyze';column:phase" json:"phase"`
	Suggestions      datatypes.JSONSlice[Suggestion]   `gorm:"column:suggestions" json:"suggestions"`
	Approved         datatypes.JSONSlice[Suggestion]   `gorm:"column:approved_suggestions" json:"approved_suggestions"`
	FinalContent     string                            `gorm:"type:text;column:final_content" json:"final_content"`
	StandardCodes    datatypes.JSONSlice[string]       `gorm:"column:standard_codes" json:"standard_codes"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DiffSession) TableName() string { return "diff_session" }

// SessionStudent joins a workflow session to the students it targets. Rows
// survive phase advancement; they are only removed with the session itself.
type SessionStudent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_session_student,unique,priority:1" json:"session_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_session_student,unique,priority:2" json:"student_id"`
}

func (SessionStudent) TableName() string { return "session_student" }
