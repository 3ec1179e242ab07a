package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-pkce-service/internal/config"
	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/jrsteele09/go-pkce-service/verifierstore"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	generator  *pkce.Generator
	verifiers  verifierstore.Repo
	storageKey string
	limiter    *clientLimiter
	now        func() time.Time
}

// New builds the server. A missing backend endpoint fails here rather than on
// the first request.
func New(config config.Config, generator *pkce.Generator, verifiers verifierstore.Repo) (*Server, error) {
	backendURL, err := config.GetBackendURL()
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	storageKey, err := pkce.DeriveStorageKey(backendURL)
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		generator:  generator,
		verifiers:  verifiers,
		storageKey: storageKey,
		now:        time.Now,
	}
	if config.GetEnableRateLimiting() {
		s.limiter = newClientLimiter(config.GetRateLimitRPS(), config.GetRateLimitBurst())
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// StorageKey is the namespace under which this server stores verifiers.
func (s *Server) StorageKey() string {
	return s.storageKey
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
