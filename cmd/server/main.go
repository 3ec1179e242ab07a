package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-pkce-service/internal/config"
	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/jrsteele09/go-pkce-service/server"
	"github.com/jrsteele09/go-pkce-service/verifierstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const purgeInterval = time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load()
	if err != nil {
		return err
	}
	configureLogging(c)

	// Broken deployments fail here, not on the first sign-in attempt.
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifiers, closeStore, err := newVerifierStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	generator, err := pkce.NewGeneratorFromSource(c.GetRandomSource())
	if err != nil {
		return err
	}
	log.Info().Str("random_source", c.GetRandomSource()).Msg("Verifier random source")

	handler, err := server.New(c, generator, verifiers)
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	log.Info().Str("storage_key", handler.StorageKey()).Msg("Verifier storage namespace")

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func configureLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newVerifierStore picks Redis when REDIS_URL is set, otherwise an in-memory
// store that is purged in the background.
func newVerifierStore(ctx context.Context, c config.Config) (verifierstore.Repo, func(), error) {
	if redisURL := c.GetRedisURL(); redisURL != "" {
		repo, err := verifierstore.NewRedisRepo(ctx, redisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Using Redis verifier store")
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Err(err).Msg("Failed to close Redis verifier store")
			}
		}, nil
	}

	repo := verifierstore.NewInMemoryRepo()
	purgeCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				if n := repo.Purge(); n > 0 {
					log.Debug().Int("purged", n).Msg("Purged expired verifiers")
				}
			}
		}
	}()
	log.Warn().Msg("REDIS_URL not set, verifiers are kept in memory")
	return repo, cancel, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
