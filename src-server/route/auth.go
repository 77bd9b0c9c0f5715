package route

import (
	"context"
	"dojoreport/src-server/eventbrite"
	"dojoreport/src-server/jwt"
	"dojoreport/src-server/model"
	"dojoreport/src-server/utils"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	// sign-in page
	muxer.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		renderAuth(w, r.URL.Query().Get("notice"))
	})

	// sign in with a personal Eventbrite API token
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			renderAuth(w, "Invalid form data")
			return
		}
		apiToken := strings.TrimSpace(r.FormValue("token"))
		if apiToken == "" {
			renderAuth(w, "Please enter a token")
			return
		}

		user, err := as.Eventbrite.VerifyToken(r.Context(), apiToken)
		if err != nil {
			renderAuth(w, authNotice(err))
			return
		}

		organizationID, err := resolveOrganization(r.Context(), as, apiToken)
		if err != nil {
			renderAuth(w, authNotice(err))
			return
		}
		if organizationID == "" {
			renderAuth(w, "No organization found for this token")
			return
		}

		sessionModel := model.Session{
			Secret:         uuid.NewString(),
			ApiToken:       apiToken,
			UserID:         user.ID,
			UserName:       user.Name,
			OrganizationID: organizationID,
			CreatedAt:      time.Now().UTC().Unix(),
		}
		if err := sessionModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert session model to DB"))
			slog.Error("can't insert session model to DB", "error", err)
			return
		}

		tokenString, err := jwt.Encode(sessionModel.Secret, as.Config.GetJWTSecret(), as.Config.GetJWTExpire())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't sign session cookie"))
			slog.Error("can't sign session cookie", "error", err)
			return
		}
		setSessionCookie(w, tokenString, as.Config.GetJWTExpire())
		slog.Debug("new session", "user", user.Name, "organization", organizationID)
		http.Redirect(w, r, "/report", http.StatusSeeOther)
	})

	// sign out
	muxer.HandleFunc("GET /logout", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := sessionFromCtx(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from context"))
			return
		}
		if _, err := as.BunDB.
			NewDelete().
			Model((*model.Session)(nil)).
			Where("secret = ?", sessionModel.Secret).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't delete session model in DB"))
			slog.Error("can't delete session model in DB", "error", err)
			return
		}
		as.DropReport(sessionModel.Secret)
		clearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}))
}

// resolveOrganization picks the organization reports are built for. An
// explicitly configured ID wins, otherwise the first organization the
// token can see is used.
func resolveOrganization(ctx context.Context, as *utils.AppState, apiToken string) (string, error) {
	if organizationID := as.Config.GetEventbriteOrgID(); organizationID != "" {
		return organizationID, nil
	}
	organizations, err := as.Eventbrite.Organizations(ctx, apiToken)
	if err != nil {
		return "", err
	}
	if len(organizations) == 0 {
		return "", nil
	}
	if len(organizations) > 1 {
		slog.Warn("token can see multiple organizations, using the first one", "count", len(organizations), "organization", organizations[0].Name)
	}
	return organizations[0].ID, nil
}

// authNotice maps a sign-in failure to the message on the auth page.
func authNotice(err error) string {
	var authErr *eventbrite.AuthError
	var transientErr *eventbrite.TransientError
	switch {
	case errors.As(err, &authErr):
		return "Invalid token"
	case errors.As(err, &transientErr):
		return transientErr.Detail
	default:
		return "An error occurred. Please try again."
	}
}
