package httpapi

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// VisitorSessionName is the cookie carrying the anonymous reader id.
	VisitorSessionName = "showcase_visitor"
	// AdminSessionName is the cookie set by a successful admin login.
	AdminSessionName = "showcase_admin"
	// AdminSessionMaxAge is the lifetime of the admin cookie (24 hours).
	AdminSessionMaxAge = 24 * 60 * 60

	sessionIDKey     = "sid"
	authenticatedKey = "authenticated"
)

type ctxKey int

const sessionIDCtxKey ctxKey = iota

// sessionIDFrom returns the visitor session id placed by visitorSession.
func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDCtxKey).(string)
	return id
}

// visitorSession ensures each reader carries a session id for the lifetime of
// the browser session.
func (h *Handler) visitorSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A cookie that fails to decode still yields a fresh session.
		session, _ := h.sessions.Get(r, VisitorSessionName)
		id, _ := session.Values[sessionIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			session.Values[sessionIDKey] = id
			session.Options = h.cookieOptions(0)
			if err := session.Save(r, w); err != nil {
				h.logger.Warn("save visitor session", "error", err)
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDCtxKey, id)))
	})
}

func (h *Handler) cookieOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// passwordMatches compares against the shared admin secret. An unset secret
// matches nothing.
func (h *Handler) passwordMatches(candidate string) bool {
	if h.adminPassword == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.adminPassword)) == 1
}

func (h *Handler) bearerAuthorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return h.passwordMatches(strings.TrimSpace(token))
}

func (h *Handler) adminCookieAuthorized(r *http.Request) bool {
	session, err := h.sessions.Get(r, AdminSessionName)
	if err != nil {
		return false
	}
	ok, _ := session.Values[authenticatedKey].(bool)
	return ok && h.adminPassword != ""
}

// isAdmin accepts either the bearer credential or a live admin cookie.
func (h *Handler) isAdmin(r *http.Request) bool {
	return h.bearerAuthorized(r) || h.adminCookieAuthorized(r)
}

// requireAdmin rejects every request without the bearer credential the same way.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.bearerAuthorized(r) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with status and duration.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if r.URL.Path == "/health" {
				return
			}
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chiMiddleware.GetReqID(r.Context()),
			)
		})
	}
}
