package handlers

import (
	"errors"
	"net/http"

	us "user_service"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
)

type sessionRequest struct {
	Email    string `json:"email" binding:"required" example:"steve.jobs@apple.com"`
	Password string `json:"password" binding:"required" example:"loveApple"`
}

type sessionResponse struct {
	Success bool          `json:"success" example:"true"`
	Token   string        `json:"token"`
	User    us.PublicUser `json:"user"`
}

// @Summary      Log in
// @Description  Exchanges email and password for a bearer token.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      sessionRequest  true  "credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /session [post]
func (h *Handler) createSession(c *gin.Context) {
	var input sessionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	token, u, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			recordAuthFailure("user_not_found")
		case errors.Is(err, service.ErrInvalidPassword):
			recordAuthFailure("bad_password")
		}
		if h.log != nil {
			h.log.Infow("session_create_failed", "email", input.Email, "err", err)
		}
		h.writeServiceError(c, "session_create_error", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Success: true,
		Token:   token,
		User:    u.Public(),
	})
}
