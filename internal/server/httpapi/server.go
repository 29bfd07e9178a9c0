// Package httpapi exposes the REST surface: authentication, file metadata
// CRUD, publish toggles, content download, and the status endpoints. It
// depends on the service layer through narrow provider interfaces so
// handlers can be tested with fakes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"filesmanager/internal/logging"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/services"
)

// AuthProvider is the slice of the auth service the handlers need.
type AuthProvider interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, basicPayload string) (string, error)
	Logout(ctx context.Context, token string) error
	ResolveUser(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// FileProvider is the slice of the file service the handlers need.
type FileProvider interface {
	Create(ctx context.Context, userID string, in services.CreateFileInput) (*models.FileRecord, error)
	GetByID(ctx context.Context, userID, id string) (*models.FileRecord, error)
	List(ctx context.Context, userID string, parent *string, page, limit int) ([]*models.FileRecord, error)
	SetPublished(ctx context.Context, userID, id string, published bool) (*models.FileRecord, error)
	GetData(ctx context.Context, userID, id string) (*models.FileRecord, []byte, error)
}

// StatusProvider backs the status and stats endpoints.
type StatusProvider interface {
	Health(ctx context.Context) services.Health
	Stats(ctx context.Context) (services.Stats, error)
}

// Server is the HTTP front of the application.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
	auth       AuthProvider
	files      FileProvider
	status     StatusProvider
}

func NewServer(addr string, log logging.Logger, auth AuthProvider, files FileProvider, status StatusProvider) *Server {
	s := &Server{
		log:    log,
		auth:   auth,
		files:  files,
		status: status,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("GET /connect", s.handleConnect)
	mux.HandleFunc("GET /disconnect", s.handleDisconnect)
	mux.HandleFunc("GET /users/me", s.handleMe)
	mux.HandleFunc("POST /files", s.handleCreateFile)
	mux.HandleFunc("GET /files", s.handleListFiles)
	mux.HandleFunc("GET /files/{id}", s.handleGetFile)
	mux.HandleFunc("PUT /files/{id}/publish", s.handlePublish(true))
	mux.HandleFunc("PUT /files/{id}/unpublish", s.handlePublish(false))
	mux.HandleFunc("GET /files/{id}/data", s.handleGetFileData)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.withLogging(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug(r.Context(), "request served",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	s.log.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
