package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront_service/internal/domain"
	"storefront_service/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	LoginPath = "/login"

	sessionContextKey = "session"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequestToken prefers the bearer header over the session cookie.
func RequestToken(c *gin.Context, store sessions.Store) string {
	if token := BearerToken(c); token != "" {
		return token
	}
	return sessionToken(c, store)
}

// Authenticate resolves the caller's session when one is presented. It never
// aborts; AuthGuard does.
func Authenticate(verifier TokenVerifier, store sessions.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := RequestToken(c, store)
		if token != "" {
			session, err := verifier.Verify(c.Request.Context(), token)
			if err == nil {
				c.Set(sessionContextKey, session)
			} else {
				log.Debugf("Middleware: Ignoring unverifiable session token: %v", err)
			}
		}
		c.Next()
	}
}

// AuthGuard protects a route group. Browsers are redirected to the login page
// with a flash notice, API clients get 401.
func AuthGuard(store sessions.Store, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); ok {
			c.Next()
			return
		}

		log.Warnf("Middleware: Unauthenticated access to %s %s", c.Request.Method, c.Request.URL.Path)
		notice := notify.Failure(notify.OpAccessDenied, domain.ErrUnauthorized)
		if wantsHTML(c) {
			if err := AddFlash(c, store, notice.Description); err != nil {
				log.Warnf("Middleware: Could not store flash notice: %v", err)
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"Status":  "Fail",
			"Message": notice.Description,
		})
	}
}

func CurrentSession(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok && session != nil
}

func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  time.Since(startTime).Milliseconds(),
		})
		if session, ok := CurrentSession(c); ok {
			entry = entry.WithField("user", session.Email)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
