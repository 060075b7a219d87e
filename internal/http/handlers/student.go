package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

type StudentHandler struct {
	roster services.RosterService
}

func NewStudentHandler(roster services.RosterService) *StudentHandler {
	return &StudentHandler{roster: roster}
}

type studentRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	GradeLevel       string `json:"grade_level"`
	Accommodations   string `json:"accommodations"`
	NeedsDescription string `json:"needs_description"`
}

func (sr studentRequest) toInput() services.StudentInput {
	return services.StudentInput{
		FirstName:        sr.FirstName,
		LastName:         sr.LastName,
		GradeLevel:       sr.GradeLevel,
		Accommodations:   sr.Accommodations,
		NeedsDescription: sr.NeedsDescription,
	}
}

// POST /api/students
func (sh *StudentHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	student, err := sh.roster.CreateStudent(c.Request.Context(), rd.UserID, req.toInput())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"student": student})
}

// GET /api/students
func (sh *StudentHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	students, err := sh.roster.ListStudents(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"students": students})
}

// GET /api/students/:id
func (sh *StudentHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	student, err := sh.roster.GetStudent(c.Request.Context(), rd.UserID, studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"student": student})
}

// PUT /api/students/:id
func (sh *StudentHandler) Update(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	student, err := sh.roster.UpdateStudent(c.Request.Context(), rd.UserID, studentID, req.toInput())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"student": student})
}

// DELETE /api/students/:id
func (sh *StudentHandler) Delete(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	if err := sh.roster.DeleteStudent(c.Request.Context(), rd.UserID, studentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
