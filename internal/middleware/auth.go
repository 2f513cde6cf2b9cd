package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookie = "candlebliss_session"
	sessionKey    = "session"
)

// CurrentSession returns the session loaded by LoadSession, or nil for anonymous visitors.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// SetSession makes sess the current session for the rest of the request.
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
	ctx := clients.WithToken(c.Request.Context(), sess.Token)
	ctx = usecase.WithActor(ctx, sess.UserName)
	c.Request = c.Request.WithContext(ctx)
}

// LoadSession resolves the session cookie and puts the bearer token into the
// request context so every outgoing API call carries it.
func LoadSession(store session.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Errorf("Middleware: Failed to load session: %v", err)
			} else {
				log.Debug("Middleware: Session cookie points to an expired session")
			}
			c.Next()
			return
		}

		SetSession(c, sess)
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page, remembering where they were going.
func RequireLogin(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) != nil {
			c.Next()
			return
		}
		log.Warnf("Middleware: Anonymous request to %s redirected to login", c.Request.URL.Path)

		target := "/login"
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}

// RequireAdmin rejects sessions without the admin role. It must run after RequireLogin.
func RequireAdmin(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsAdmin() {
			userID := 0
			if sess != nil {
				userID = sess.UserID
			}
			log.Warnf("Middleware: User %d denied access to %s", userID, c.Request.URL.Path)
			c.String(http.StatusForbidden, "You are not allowed to do that")
			c.Abort()
			return
		}
		c.Next()
	}
}
