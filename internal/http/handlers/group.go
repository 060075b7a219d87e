package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

type GroupHandler struct {
	roster services.RosterService
}

func NewGroupHandler(roster services.RosterService) *GroupHandler {
	return &GroupHandler{roster: roster}
}

type groupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StudentIDs  []string `json:"student_ids"`
}

func (gr groupRequest) toInput() (services.GroupInput, error) {
	ids := make([]uuid.UUID, 0, len(gr.StudentIDs))
	for _, raw := range gr.StudentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return services.GroupInput{}, err
		}
		ids = append(ids, id)
	}
	return services.GroupInput{
		Name:        gr.Name,
		Description: gr.Description,
		StudentIDs:  ids,
	}, nil
}

// POST /api/groups
func (gh *GroupHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	group, err := gh.roster.CreateGroup(c.Request.Context(), rd.UserID, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"group": group})
}

// GET /api/groups
func (gh *GroupHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	groups, err := gh.roster.ListGroups(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// GET /api/groups/:id
func (gh *GroupHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}
	view, err := gh.roster.GetGroup(c.Request.Context(), rd.UserID, groupID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/groups/:id
func (gh *GroupHandler) Update(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
		return
	}
	group, err := gh.roster.UpdateGroup(c.Request.Context(), rd.UserID, groupID, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"group": group})
}

// DELETE /api/groups/:id
func (gh *GroupHandler) Delete(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}
	if err := gh.roster.DeleteGroup(c.Request.Context(), rd.UserID, groupID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
