package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	callerIDKey     = "callerID"
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// bearerToken extracts the token from "<scheme> <token>". The scheme must be
// "bearer", in any case, with an optional trailing colon.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.TrimSuffix(strings.ToLower(parts[0]), ":")
	if scheme != "bearer" {
		return "", false
	}
	return parts[1], true
}

// userIdentity authenticates the caller and stores its id for later handlers.
func (h *Handler) userIdentity(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		recordAuthFailure("missing_token")
		abort(c, http.StatusUnauthorized, msgMissingToken)
		return
	}

	token, ok := bearerToken(header)
	if !ok {
		recordAuthFailure("malformed_header")
		abort(c, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "err", err)
		}
		recordAuthFailure("invalid_token")
		abort(c, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	c.Set(callerIDKey, userID)
	c.Next()
}

// callerID returns the id stored by userIdentity.
func callerID(c *gin.Context) (int, bool) {
	v, ok := c.Get(callerIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// requestLogger tags each request with an id and logs its outcome.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	reqID := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(reqID); err != nil {
		reqID = uuid.NewString()
	}
	c.Set(requestIDKey, reqID)
	c.Header(requestIDHeader, reqID)

	c.Next()

	if h.log == nil {
		return
	}
	fields := []interface{}{
		"request_id", reqID,
		"method", c.Request.Method,
		"route", routeLabel(c),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	}
	if uid, ok := callerID(c); ok {
		fields = append(fields, "user_id", uid)
	}
	if c.Writer.Status() >= http.StatusInternalServerError {
		h.log.Errorw("http_request", fields...)
		return
	}
	h.log.Infow("http_request", fields...)
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
