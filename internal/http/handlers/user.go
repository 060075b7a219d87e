package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	"github.com/jmcalla/lessonbridge-backend/internal/http/response"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/ctxutil"
)

type UserHandler struct {
	userRepo repos.UserRepo
}

func NewUserHandler(userRepo repos.UserRepo) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	users, err := uh.userRepo.GetByIDs(c.Request.Context(), nil, []uuid.UUID{rd.UserID})
	if err != nil || len(users) == 0 {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	response.RespondOK(c, gin.H{"user": users[0]})
}
