package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phux/phishcheck/app"
)

type analyzeRequest struct {
	URL string `json:"url"`
}

// errorResponse mirrors the analysis service's own error shape.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyzeAPI(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object with a url field"})
		return
	}

	result, err := s.apiSession(c).Submit(c.Request.Context(), req.URL)
	s.logOutcome(req.URL, result, err)
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Error: app.DisplayMessage(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// apiSession reuses the caller's page session when the request carries its
// cookie. Other callers get a session that is never stored.
func (s *Server) apiSession(c *gin.Context) *app.Session {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if session, ok := s.sessions.lookup(id); ok {
			return session
		}
	}

	return s.sessions.newSession()
}

func statusFor(err error) int {
	var apiErr *app.APIError

	switch {
	case errors.Is(err, app.ErrEmptyURL):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}
