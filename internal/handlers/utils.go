package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/simplenotes/notes/types"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextUserKey contextKey = "user"

// maxFormBytes bounds urlencoded bodies; a full note is well below it.
const maxFormBytes = 64 << 10

func withUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok || user.ID < 1 {
		return types.User{}, errors.New("missing user")
	}
	return user, nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	return r.ParseForm()
}

func parseNoteID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "noteID")
	id, err := strconv.Atoi(raw)
	// notes.id is a postgres integer.
	if err != nil || id < 1 || id > math.MaxInt32 {
		return 0, errors.New("invalid note id")
	}
	return id, nil
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func requestLog(log logrus.FieldLogger, r *http.Request) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
	})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, msg string, err error) {
	requestLog(log, r).WithError(err).Error(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
