// Package httpapi exposes the session lifecycle over HTTP: signup, signin,
// signout, profile, and an index greeting. Handlers translate service errors
// into the status codes and response bodies the public API promises.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

type sessionSvc interface {
	SignUp(ctx context.Context, email, password string) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	Validate(ctx context.Context, jti string) (*auth.Claims, error)
	SignOut(ctx context.Context, jti string) error
}

type HTTPServer struct {
	address       string
	sessions      sessionSvc
	logger        logging.Logger
	secureCookies bool
}

func NewHTTPServer(a string, l logging.Logger, s sessionSvc, secureCookies bool) *HTTPServer {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		sessions:      s,
		secureCookies: secureCookies,
	}
}

// Router assembles the chi mux with the full route table.
func (s *HTTPServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/signup", s.handleSignUp)
	r.Post("/signin", s.handleSignIn)
	r.Post("/signout", s.handleSignOut)
	r.Get("/profile", s.handleProfile)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
