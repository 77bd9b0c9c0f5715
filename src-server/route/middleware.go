package route

import (
	"context"
	"dojoreport/src-server/jwt"
	"dojoreport/src-server/model"
	"dojoreport/src-server/utils"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type SessionCtxKeyType string

const (
	SessionCtxKey          SessionCtxKeyType = "session"
	SessionTokenCookieName string            = "session-token"
)

// AuthMiddleware turns the signed session cookie back into a session
// model and hands it to the wrapped handler via the request context.
// Requests without a usable session are sent back to the sign-in page.
func AuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// extract the session secret from the signed cookie
		sessionSecret := func() string {
			sessionCookie, err := r.Cookie(SessionTokenCookieName)
			if err != nil {
				return ""
			}
			claims, err := jwt.Decode(strings.TrimSpace(sessionCookie.Value), as.Config.GetJWTSecret())
			if err != nil {
				slog.Debug("can't decode session cookie", "error", err)
				return ""
			}
			return claims.Secret
		}()
		if sessionSecret == "" {
			redirectToAuth(w, r, "")
			return
		}

		startTimer := time.Now()
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Session)(nil)).
			Where("secret = ?", sessionSecret).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if session exists in DB"))
			slog.Error("can't check if session exists in DB", "error", err)
			return
		case !exists:
			clearSessionCookie(w)
			redirectToAuth(w, r, "Session not found, please sign in again.")
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		sessionModel := new(model.Session)
		if err := as.BunDB.
			NewSelect().
			Model(sessionModel).
			Where("secret = ?", sessionSecret).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't find session model in DB"))
			slog.Error("can't find session model in DB", "error", err)
			return
		}
		if sessionModel.Expired(as.Config.GetJWTExpire()) {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionSecret).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete session model in DB"))
				slog.Error("can't delete session model in DB", "error", err)
				return
			}
			as.DropReport(sessionSecret)
			clearSessionCookie(w)
			redirectToAuth(w, r, "Session expired, please sign in again.")
			return
		}

		ctx := context.WithValue(r.Context(), SessionCtxKey, sessionModel)
		next(w, r.WithContext(ctx))
	}
}

func sessionFromCtx(r *http.Request) (*model.Session, bool) {
	sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
	return sessionModel, ok
}

func redirectToAuth(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice != "" {
		target = "/?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func clearSessionCookie(w http.ResponseWriter) {
	w.Header().Set("Set-Cookie", SessionTokenCookieName+"=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0")
}

func setSessionCookie(w http.ResponseWriter, tokenString string, expire time.Duration) {
	w.Header().Set("Set-Cookie", SessionTokenCookieName+"="+tokenString+
		"; Path=/; HttpOnly; SameSite=Lax; Max-Age="+strconv.Itoa(int(expire.Seconds())))
}
