package middleware

import (
	"net/http"

	"storefront_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "storefront_session"

	keyAuthenticated = "isAuthenticated"
	keyEmail         = "userEmail"
	keyName          = "userName"
	keyToken         = "token"
)

// NewCookieStore builds the signed cookie store for browser sessions.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SaveSession writes the browser markers and the token into the cookie.
func SaveSession(c *gin.Context, store sessions.Store, session *domain.Session) error {
	s, _ := store.Get(c.Request, SessionName)
	s.Values[keyAuthenticated] = true
	s.Values[keyEmail] = session.Email
	s.Values[keyName] = session.Name
	s.Values[keyToken] = session.Token
	return s.Save(c.Request, c.Writer)
}

// ClearSession drops the markers and expires the cookie.
func ClearSession(c *gin.Context, store sessions.Store) error {
	s, _ := store.Get(c.Request, SessionName)
	for _, k := range []string{keyAuthenticated, keyEmail, keyName, keyToken} {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
	return s.Save(c.Request, c.Writer)
}

// AddFlash queues a one-shot notice shown by the login page.
func AddFlash(c *gin.Context, store sessions.Store, message string) error {
	s, _ := store.Get(c.Request, SessionName)
	s.AddFlash(message)
	return s.Save(c.Request, c.Writer)
}

// Flashes pops the queued notices.
func Flashes(c *gin.Context, store sessions.Store) []string {
	s, err := store.Get(c.Request, SessionName)
	if err != nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(c.Request, c.Writer)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// sessionToken returns the token stored in the cookie, if the marker is set.
func sessionToken(c *gin.Context, store sessions.Store) string {
	s, err := store.Get(c.Request, SessionName)
	if err != nil {
		return ""
	}
	if ok, _ := s.Values[keyAuthenticated].(bool); !ok {
		return ""
	}
	token, _ := s.Values[keyToken].(string)
	return token
}
