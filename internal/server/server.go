package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/simplenotes/notes/config"
	"github.com/simplenotes/notes/internal/db"
	"github.com/simplenotes/notes/internal/handlers"
	"github.com/simplenotes/notes/internal/services"
	"github.com/simplenotes/notes/internal/session"
	"github.com/simplenotes/notes/internal/store"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server and its database pool.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	log        logrus.FieldLogger
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Users    services.UserRepository
	Notes    services.NoteRepository
	Sessions *session.Manager
	// BcryptCost of 0 selects bcrypt.DefaultCost.
	BcryptCost int
	Log        *logrus.Logger
}

// New constructs a Server backed by postgres.
func New(ctx context.Context, cfg config.Config, log *logrus.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(Deps{
		Users:      store.NewUserRepository(dbConn),
		Notes:      store.NewNoteRepository(dbConn),
		Sessions:   session.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure),
		BcryptCost: cfg.BcryptCost,
		Log:        log,
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		log:        log,
	}, nil
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(deps Deps) (*chi.Mux, error) {
	if deps.Users == nil || deps.Notes == nil || deps.Sessions == nil || deps.Log == nil {
		return nil, errors.New("server: missing dependency")
	}

	views, err := handlers.NewViews()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	authService := services.NewAuthService(deps.Users, deps.Sessions, deps.BcryptCost, deps.Log)
	noteService := services.NewNoteService(deps.Notes, deps.Log)

	authHandler := handlers.NewAuthHandler(authService, deps.Sessions, views, deps.Log)
	noteHandler := handlers.NewNoteHandler(noteService, deps.Sessions, views, deps.Log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: deps.Log, NoColor: true}),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authHandler)
	handlers.NoteRouter(router, noteHandler, authHandler.RequireUser)

	return router, nil
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
