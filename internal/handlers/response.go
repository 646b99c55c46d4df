package handlers

import (
	"errors"
	"net/http"

	"user_service/internal/service"

	"github.com/gin-gonic/gin"
)

// Client-facing messages.
const (
	msgMissingToken       = "You must send a token on header."
	msgInvalidToken       = "Token invalid."
	msgMissingCredentials = "You must provide email and password on body request."
	msgUserNotFound       = "User not found."
	msgIncorrectPassword  = "Incorrect password."
	msgInvalidID          = "You must provide a valid user id on route param."
	msgMissingFields      = "You must provide a name, email and password as a json on request body."
	msgNoUpdateFields     = "You must provide at least one of these parameters on body: name, email or password."
	msgBadBody            = "Request body must be a JSON object."
	msgBlankEmail         = "Email can not be blank."
	msgBlankPassword      = "Password can not be blank."
	msgSelfDelete         = "You can not delete yourself."
	msgEmailTaken         = "Email already in use."
	msgUnusablePassword   = "Password must be between 1 and 72 bytes."
	msgInternal           = "Internal server error."

	msgUserList    = "List of users."
	msgUserCreated = "User created."
	msgUserUpdated = "User updated."
	msgUserDeleted = "User deleted."
	msgDashboard   = "Welcome to the dashboard."
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, errorResponse{Success: false, Message: msg})
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Success: false, Message: msg})
}

// writeServiceError maps a service error to its HTTP reply. Unknown errors
// are logged and reported as 500.
func (h *Handler) writeServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		fail(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrInvalidPassword):
		fail(c, http.StatusUnauthorized, msgIncorrectPassword)
	case errors.Is(err, service.ErrSelfDelete):
		fail(c, http.StatusBadRequest, msgSelfDelete)
	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, service.ErrUnusablePassword):
		fail(c, http.StatusBadRequest, msgUnusablePassword)
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		fail(c, http.StatusInternalServerError, msgInternal)
	}
}
