package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chikhali-gp/portal/backend/auth"
	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/services"
	"github.com/chikhali-gp/portal/backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Dependencies are the components the HTTP surface is built over. Mailer and
// Reminders may be nil when their providers are not configured.
type Dependencies struct {
	Database  database.Database
	Gate      *auth.Gate
	Uploader  *storage.Uploader
	Mailer    *services.Mailer
	Reminders *services.TaxReminders
	Config    map[string]string
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies) (Server, error) {
	c := deps.Config

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withStartupTime(startupTime))

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime time.Time
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(config.GetList(deps.Config, "ACCEPTED_ORIGINS", []string{"http://localhost:5173"})))
	chiRouter.Use(HTTPLoggingMiddleware)

	handlers := initializeHandlers(deps)
	authMiddleware := newAuthMiddleware(deps.Gate)

	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		NewResponder(log.Logger).WriteJSON(w, map[string]any{
			"status":  "ok",
			"backend": deps.Database.Kind(),
			"ready":   deps.Gate.Ready(),
			"uptime":  time.Since(router.startupTime).Round(time.Second).String(),
		})
	})
	if disk, ok := deps.Uploader.Store().(*storage.DiskStore); ok {
		chiRouter.Handle(storage.DiskRoute+"/*", disk.Handler())
	}

	setupPublicRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
