package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/logging"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func setSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, maxAge, "/", "", secure, true)
}

func Register(svc UserService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, err := svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeError(c, l, err)
			return
		}

		c.JSON(http.StatusCreated, u)
	}
}

// Login opens a session. The token is set as an HttpOnly cookie and also
// returned for clients that prefer the Authorization header.
func Login(svc UserService, l logging.Logger, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		res, err := svc.Login(c.Request.Context(), req.Login, req.Password)
		if err != nil {
			writeError(c, l, err)
			return
		}

		maxAge := int(time.Until(res.ExpiresAt).Seconds())
		setSessionCookie(c, res.Token, maxAge, secureCookie)
		c.JSON(http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
	}
}

func Logout(svc UserService, l logging.Logger, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), sessionToken(c)); err != nil {
			writeError(c, l, err)
			return
		}
		setSessionCookie(c, "", -1, secureCookie)
		c.Status(http.StatusNoContent)
	}
}

func Me(svc UserService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Me(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func UpdateProfile(svc UserService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.ProfileUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, err := svc.UpdateProfile(c.Request.Context(), currentUserID(c), upd)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func ChangePassword(svc UserService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req passwordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svc.ChangePassword(c.Request.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
			writeError(c, l, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteAccount removes the account and everything it owns, then clears the
// session cookie.
func DeleteAccount(svc UserService, l logging.Logger, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUserID(c)); err != nil {
			writeError(c, l, err)
			return
		}
		setSessionCookie(c, "", -1, secureCookie)
		c.Status(http.StatusNoContent)
	}
}
