package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	us "user_service"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required" example:"Steve Jobs"`
	Email    string `json:"email" binding:"required" example:"steve.jobs@apple.com"`
	Password string `json:"password" binding:"required" example:"loveApple"`
}

// updateUserRequest distinguishes an absent key (nil) from an empty value.
type updateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type userResponse struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message,omitempty"`
	Data    us.PublicUser `json:"data"`
}

type userListResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message"`
	Data    []us.PublicUser `json:"data"`
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// validate applies the update body rules in order and returns the message
// of the first one broken, or "" when the body is acceptable.
func (r updateUserRequest) validate() string {
	if !nonEmpty(r.Name) && !nonEmpty(r.Email) && !nonEmpty(r.Password) {
		return msgNoUpdateFields
	}
	if r.Email != nil && strings.TrimSpace(*r.Email) == "" {
		return msgBlankEmail
	}
	if r.Password != nil && *r.Password == "" {
		return msgBlankPassword
	}
	return ""
}

func (r updateUserRequest) toUpdate() us.UserUpdate {
	upd := us.UserUpdate{Email: r.Email, Password: r.Password}
	// an empty name counts as not supplied
	if nonEmpty(r.Name) {
		upd.Name = r.Name
	}
	return upd
}

// pathID parses :id, writing 400 when it is not an integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Router       /user [get]
// @Security     BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, "users_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, userListResponse{
		Success: true,
		Message: msgUserList,
		Data:    us.PublicUsers(users),
	})
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id} [get]
// @Security     BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, "user_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, userResponse{Success: true, Data: u.Public()})
}

// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "new user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user [post]
// @Security     BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input createUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, msgMissingFields)
		return
	}

	u, err := h.services.Users.Create(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		h.writeServiceError(c, "user_create_failed", err, "email", input.Email)
		return
	}
	if h.log != nil {
		h.log.Infow("user_created", "id", u.ID)
	}
	c.JSON(http.StatusCreated, userResponse{Success: true, Message: msgUserCreated, Data: u.Public()})
}

// @Summary      Update user
// @Description  Partial update; only supplied fields change.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input updateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, msgBadBody)
		return
	}
	if msg := input.validate(); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	u, err := h.services.Users.Update(c.Request.Context(), id, input.toUpdate())
	if err != nil {
		h.writeServiceError(c, "user_update_failed", err, "id", id)
		return
	}
	if h.log != nil {
		h.log.Infow("user_updated", "id", u.ID)
	}
	c.JSON(http.StatusOK, userResponse{Success: true, Message: msgUserUpdated, Data: u.Public()})
}

// @Summary      Delete user
// @Description  Any authenticated user may delete another user, never themselves.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	caller, _ := callerID(c)

	u, err := h.services.Users.Delete(c.Request.Context(), caller, id)
	if err != nil {
		h.writeServiceError(c, "user_delete_failed", err, "id", id, "caller", caller)
		return
	}
	if h.log != nil {
		h.log.Infow("user_deleted", "id", u.ID, "caller", caller)
	}
	c.JSON(http.StatusOK, userResponse{Success: true, Message: msgUserDeleted, Data: u.Public()})
}
