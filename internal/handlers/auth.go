package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/middleware"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/service"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionUserResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Role           string  `json:"role"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization *string `json:"specialization,omitempty"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "username and password are required")
		return
	}

	token, session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Session.TTL.Seconds()))

	ok(c, "logged in", sessionUserResponse{
		ID:             session.UserID,
		Username:       session.Username,
		Role:           string(session.Role),
		Name:           session.Name,
		Email:          session.Email,
		Specialization: session.Specialization,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Session.CookieName)
	if err == nil && token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.fail(c, err)
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	ok(c, "logged out", nil)
}

type registerRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"required"`
}

func (h HandlerSet) RegisterPatient(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failValidation(c, "missing required fields")
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	}); err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "user registered successfully", nil)
}

func (h HandlerSet) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		value,
		maxAge,
		"/",
		h.cfg.Session.CookieDomain,
		h.cfg.Session.CookieSecure,
		true,
	)
}

// sessionOrAbort is for handlers registered behind the Auth middleware; a
// missing session there means a wiring bug, not a client mistake.
func (h HandlerSet) sessionOrAbort(c *gin.Context) (models.Session, bool) {
	session, okSession := middleware.SessionFrom(c)
	if !okSession {
		h.fail(c, service.ErrUnauthenticated)
		return models.Session{}, false
	}
	return session, true
}
