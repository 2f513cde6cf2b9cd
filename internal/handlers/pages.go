package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"candlebliss_storefront/internal/middleware"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// page is the value every template is executed with.
type page struct {
	Title   string
	Session *session.Session
	Nav     *usecase.NavBar
	Flashes []session.Flash
	Path    string
	Data    any
}

// Pages renders templates and manages the session cookie and its flashes.
type Pages struct {
	store        session.Store
	ttl          time.Duration
	secureCookie bool
	log          *logrus.Logger
}

func NewPages(store session.Store, ttl time.Duration, secureCookie bool, logger *logrus.Logger) *Pages {
	return &Pages{
		store:        store,
		ttl:          ttl,
		secureCookie: secureCookie,
		log:          logger,
	}
}

func (p *Pages) render(c *gin.Context, status int, name, title string, nav *usecase.NavBar, data any) {
	pd := page{
		Title: title,
		Nav:   nav,
		Path:  c.Request.URL.Path,
		Data:  data,
	}
	if sess := middleware.CurrentSession(c); sess != nil {
		pd.Session = sess
		if len(sess.Flashes) > 0 {
			pd.Flashes = sess.PopFlashes()
			p.save(c, sess)
		}
	}
	c.HTML(status, name, pd)
}

// renderError shows the error page with the toast text of err.
func (p *Pages) renderError(c *gin.Context, err error) {
	status, message := statusFor(err)
	p.render(c, status, "error", "Something went wrong", nil, message)
}

func (p *Pages) flash(c *gin.Context, kind, message string) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return
	}
	sess.AddFlash(kind, message)
	p.save(c, sess)
}

// done flashes a success message and redirects, completing a Post/Redirect/Get cycle.
func (p *Pages) done(c *gin.Context, message, location string) {
	p.flash(c, session.FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, location)
}

// fail reports err as a toast on the page at location. An expired API token
// ends the session instead.
func (p *Pages) fail(c *gin.Context, err error, location string) {
	if isUnauthorized(err) {
		p.expire(c)
		return
	}
	_, message := statusFor(err)
	p.flash(c, session.FlashError, message)
	c.Redirect(http.StatusSeeOther, location)
}

func (p *Pages) save(c *gin.Context, sess *session.Session) {
	if err := p.store.Save(c.Request.Context(), sess); err != nil {
		p.log.Errorf("Handler: Failed to save session of user %d: %v", sess.UserID, err)
	}
}

// start persists a fresh session and hands its id to the browser.
func (p *Pages) start(c *gin.Context, sess *session.Session) error {
	if err := p.store.Save(c.Request.Context(), sess); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sess.ID, int(p.ttl.Seconds()), "/", "", p.secureCookie, true)
	middleware.SetSession(c, sess)
	return nil
}

func (p *Pages) end(c *gin.Context) {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := p.store.Delete(c.Request.Context(), sess.ID); err != nil {
			p.log.Errorf("Handler: Failed to delete session of user %d: %v", sess.UserID, err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", p.secureCookie, true)
}

// expire ends a session whose token the API no longer accepts.
func (p *Pages) expire(c *gin.Context) {
	p.log.Warn("Handler: API rejected the session token, logging out")
	p.end(c)
	c.Redirect(http.StatusSeeOther, "/login?expired=1")
}

// safeNext keeps post-login redirects on this site.
// Browsers read a backslash as a slash, so "/\host" is off-site too.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	if strings.ContainsFunc(next, func(r rune) bool { return r == '\\' || r < 0x20 || r == 0x7f }) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
