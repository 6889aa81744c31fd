package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/http/middleware"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID.String(), Email: u.Email}
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}
	session, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.writeSession(c, http.StatusCreated, session)
}

func (h *Handler) signIn(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}
	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.writeSession(c, http.StatusOK, session)
}

func (h *Handler) signOut(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), claims); err != nil {
		h.handleError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.auth.CurrentUser(c.Request.Context(), p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(*user)})
}

func (h *Handler) updatePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req passwordRequest
	if !bind(c, &req) {
		return
	}
	err := h.auth.UpdatePassword(c.Request.Context(), p, req.CurrentPassword, req.NewPassword)
	h.respond(c, http.StatusNoContent, nil, err)
}

func (h *Handler) writeSession(c *gin.Context, status int, session *service.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookie, session.Token, maxAge, "/", "", false, true)
	c.JSON(status, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserResponse(session.User),
	})
}
