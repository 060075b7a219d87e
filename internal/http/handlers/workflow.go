package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

type WorkflowHandler struct {
	workflow services.WorkflowService
}

func NewWorkflowHandler(workflow services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// POST /api/sessions
func (wh *WorkflowHandler) CreateSession(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Title         string   `json:"title"`
		Material      string   `json:"material"`
		StudentIDs    []string `json:"student_ids"`
		GroupIDs      []string `json:"group_ids"`
		StandardCodes []string `json:"standard_codes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	studentIDs, err := parseIDs(req.StudentIDs)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	groupIDs, err := parseIDs(req.GroupIDs)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}
	session, err := wh.workflow.CreateSession(c.Request.Context(), rd.UserID, services.CreateSessionInput{
		Title:         req.Title,
		Material:      req.Material,
		StudentIDs:    studentIDs,
		GroupIDs:      groupIDs,
		StandardCodes: req.StandardCodes,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/sessions
func (wh *WorkflowHandler) ListActive(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessions, err := wh.workflow.ListActiveSessions(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// GET /api/sessions/:id
func (wh *WorkflowHandler) GetSession(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	view, err := wh.workflow.GetSession(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/sessions/:id/suggestions
func (wh *WorkflowHandler) GenerateSuggestions(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	session, err := wh.workflow.GenerateSuggestions(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /api/sessions/:id/approve
func (wh *WorkflowHandler) ApproveSuggestions(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	var req struct {
		Indices []int `json:"indices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := wh.workflow.ApproveSuggestions(c.Request.Context(), rd.UserID, sessionID, req.Indices)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /api/sessions/:id/generate
func (wh *WorkflowHandler) GenerateFinal(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	session, err := wh.workflow.GenerateFinal(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /api/sessions/:id/save
func (wh *WorkflowHandler) SaveToLibrary(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	// Title is optional; an empty body falls back to the session title.
	_ = c.ShouldBindJSON(&req)
	lesson, err := wh.workflow.SaveToLibrary(c.Request.Context(), rd.UserID, sessionID, req.Title)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// DELETE /api/sessions/:id
func (wh *WorkflowHandler) DeleteSession(c *gin.Context) {
	rd, sessionID, ok := wh.sessionCall(c)
	if !ok {
		return
	}
	if err := wh.workflow.DeleteSession(c.Request.Context(), rd.UserID, sessionID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (wh *WorkflowHandler) sessionCall(c *gin.Context) (*ctxutil.RequestData, uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return nil, uuid.Nil, false
	}
	return rd, sessionID, true
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
