package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/simplenotes/notes/internal/services"
	"github.com/simplenotes/notes/internal/session"
	"github.com/simplenotes/notes/types"
	"github.com/sirupsen/logrus"
)

const (
	formFieldText = "text"

	flashNoteTooLong  = "Note is too long."
	flashNoteInvalid  = "Note contains invalid characters."
	flashNoteNotFound = "Note not found."
	flashNotAllowed   = "You are not allowed to change that note."
)

// NoteHandler serves the note list and note mutations.
type NoteHandler struct {
	noteService *services.NoteService
	sessions    *session.Manager
	views       *Views
	log         logrus.FieldLogger
}

func NewNoteHandler(noteService *services.NoteService, sessions *session.Manager, views *Views, log logrus.FieldLogger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		sessions:    sessions,
		views:       views,
		log:         log,
	}
}

// NoteRouter registers note routes on the given router. Every route requires
// an authenticated user.
func NoteRouter(r chi.Router, h *NoteHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Home)
		r.Post("/", h.CreateNote)
		r.Get("/delete-note/{noteID:[0-9]+}", h.DeleteNote)
		r.Get("/update-note/{noteID:[0-9]+}", h.UpdateNote)
	})
}

func (h *NoteHandler) Home(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		redirect(w, r, "/login")
		return
	}

	notes, err := h.noteService.List(r.Context(), user)
	if err != nil {
		writeInternalError(w, r, h.log, "failed to list notes", err)
		return
	}

	data := ViewData{
		Title: "Notes",
		User:  &user,
		Notes: notes,
		Flash: h.sessions.PopFlash(w, r),
	}
	if err := h.views.Render(w, viewNotes, data); err != nil {
		writeInternalError(w, r, h.log, "failed to render view", err)
	}
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		redirect(w, r, "/login")
		return
	}
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if _, err := h.noteService.Add(r.Context(), user, r.PostFormValue(formFieldText)); err != nil {
		switch {
		case errors.Is(err, services.ErrNoteTooLong):
			h.sessions.SetFlash(w, flashNoteTooLong)
		case errors.Is(err, services.ErrInvalidInput):
			h.sessions.SetFlash(w, flashNoteInvalid)
		default:
			writeInternalError(w, r, h.log, "failed to create note", err)
			return
		}
	}

	redirect(w, r, "/")
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, func(user types.User, noteID int) error {
		return h.noteService.Remove(r.Context(), user, noteID)
	})
}

// UpdateNote only verifies the note; editing is not supported.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, func(user types.User, noteID int) error {
		_, err := h.noteService.Update(r.Context(), user, noteID)
		return err
	})
}

// withNote runs op for the note named in the URL and redirects home. Domain
// failures are shown to the user as a flash message.
func (h *NoteHandler) withNote(w http.ResponseWriter, r *http.Request, op func(user types.User, noteID int) error) {
	user, err := userFromContext(r.Context())
	if err != nil {
		redirect(w, r, "/login")
		return
	}
	noteID, err := parseNoteID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := op(user, noteID); err != nil {
		switch {
		case errors.Is(err, services.ErrNoteNotFound):
			h.sessions.SetFlash(w, flashNoteNotFound)
		case errors.Is(err, services.ErrForbidden):
			h.sessions.SetFlash(w, flashNotAllowed)
		default:
			writeInternalError(w, r, h.log, "failed to update note state", err)
			return
		}
	}

	redirect(w, r, "/")
}
