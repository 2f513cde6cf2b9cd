package handlers

import (
	"context"
	"net/http"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authClient clients.AuthClient
	pages      *Pages
	log        *logrus.Logger
}

func NewAuthHandler(ac clients.AuthClient, pages *Pages, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authClient: ac,
		pages:      pages,
		log:        logger,
	}
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type loginView struct {
	Email   string
	Next    string
	Error   string
	Expired bool
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "login", "Log in", nil, loginView{
		Next:    safeNext(c.Query("next")),
		Expired: c.Query("expired") != "",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "Login")
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind login form: %v", err)
		h.pages.render(c, http.StatusBadRequest, "login", "Log in", nil, loginView{
			Email: form.Email,
			Next:  safeNext(form.Next),
			Error: "Please enter a valid email and password",
		})
		return
	}
	handlerLogger.Infof("Processing login request for email: %s", form.Email)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	res, err := h.authClient.Login(ctx, domain.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		status, message := statusFor(err)
		if isUnauthorized(err) {
			message = "Incorrect email or password"
		}
		handlerLogger.Warnf("Authentication failed for email %s: %v", form.Email, err)
		h.pages.render(c, status, "login", "Log in", nil, loginView{
			Email: form.Email,
			Next:  safeNext(form.Next),
			Error: message,
		})
		return
	}

	sess := session.New(res.Token, res.User.ID, res.User.FullName(), res.User.RoleName())
	sess.AddFlash(session.FlashSuccess, "Welcome back, "+res.User.FullName())
	if err := h.pages.start(c, sess); err != nil {
		handlerLogger.Errorf("Failed to store session for user %d: %v", res.User.ID, err)
		h.pages.render(c, http.StatusInternalServerError, "login", "Log in", nil, loginView{
			Email: form.Email,
			Next:  safeNext(form.Next),
			Error: "Could not start your session, please try again",
		})
		return
	}

	handlerLogger.Infof("Authentication successful for UserID: %d", res.User.ID)
	next := safeNext(form.Next)
	if next == "/" && res.User.IsAdmin() {
		next = "/admin/customers"
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.pages.end(c)
	c.Redirect(http.StatusSeeOther, "/")
}
