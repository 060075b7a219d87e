package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

type DashboardHandler struct {
	roster services.RosterService
}

func NewDashboardHandler(roster services.RosterService) *DashboardHandler {
	return &DashboardHandler{roster: roster}
}

// GET /api/dashboard
func (dh *DashboardHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	dashboard, err := dh.roster.GetDashboard(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, dashboard)
}
