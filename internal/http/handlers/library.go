package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

type LibraryHandler struct {
	library services.LibraryService
}

func NewLibraryHandler(library services.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// GET /api/lessons
func (lh *LibraryHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessons, err := lh.library.ListLessons(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/lessons/:id
func (lh *LibraryHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	lesson, err := lh.library.GetLesson(c.Request.Context(), rd.UserID, lessonID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/lessons/:id
func (lh *LibraryHandler) Delete(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	if err := lh.library.DeleteLesson(c.Request.Context(), rd.UserID, lessonID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
