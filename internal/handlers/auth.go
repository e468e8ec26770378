package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/simplenotes/notes/internal/services"
	"github.com/simplenotes/notes/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	formFieldFullName = "fullname"
	formFieldUsername = "username"
	formFieldEmail    = "email"
	formFieldPassword = "password"
	formFieldInfo     = "info"

	flashUserExists   = "User already exists!"
	flashInvalidLogin = "Incorrect username, email or password."
)

// AuthHandler serves sign-up, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
	views       *Views
	log         logrus.FieldLogger
}

func NewAuthHandler(authService *services.AuthService, sessions *session.Manager, views *Views, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		views:       views,
		log:         log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, h *AuthHandler) {
	r.Get("/sign-up", h.SignUpForm)
	r.Post("/sign-up", h.SignUp)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.With(h.RequireUser).Get("/logout", h.Logout)
}

// RequireUser resolves the session cookie to a user and stores it in the
// request context. Anonymous clients are redirected to the login page.
func (h *AuthHandler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := session.Token(r)
		if token == "" {
			redirect(w, r, "/login")
			return
		}

		user, err := h.authService.CurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				h.sessions.Destroy(w)
				redirect(w, r, "/login")
				return
			}
			writeInternalError(w, r, h.log, "failed to load current user", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (h *AuthHandler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, viewSignUp, ViewData{Title: "Sign up"})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, _, err := h.authService.Register(r.Context(), services.RegisterInput{
		FullName: r.PostFormValue(formFieldFullName),
		Username: r.PostFormValue(formFieldUsername),
		Email:    r.PostFormValue(formFieldEmail),
		Password: r.PostFormValue(formFieldPassword),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			h.sessions.SetFlash(w, flashUserExists)
		case errors.Is(err, services.ErrInvalidInput):
			h.sessions.SetFlash(w, err.Error())
		default:
			writeInternalError(w, r, h.log, "failed to register user", err)
			return
		}
		redirect(w, r, "/sign-up")
		return
	}

	h.sessions.SetCookie(w, sess)
	redirect(w, r, "/")
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, viewLogin, ViewData{Title: "Login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, _, err := h.authService.Login(r.Context(), r.PostFormValue(formFieldInfo), r.PostFormValue(formFieldPassword))
	if err != nil {
		if errors.Is(err, services.ErrAuthentication) {
			h.sessions.SetFlash(w, flashInvalidLogin)
			redirect(w, r, "/login")
			return
		}
		writeInternalError(w, r, h.log, "failed to authenticate", err)
		return
	}

	h.sessions.SetCookie(w, sess)
	redirect(w, r, "/")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), session.Token(r)); err != nil {
		requestLog(h.log, r).WithError(err).Warn("logout with invalid session")
	}
	h.sessions.Destroy(w)
	redirect(w, r, "/login")
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, view string, data ViewData) {
	data.Flash = h.sessions.PopFlash(w, r)
	if err := h.views.Render(w, view, data); err != nil {
		writeInternalError(w, r, h.log, "failed to render view", err)
	}
}
