package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Africa/Casablanca on minimal images

	"connectrpc.com/connect"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hsabsaboun/backend/internal/assistant"
	"github.com/hsabsaboun/backend/internal/auth"
	"github.com/hsabsaboun/backend/internal/config"
	"github.com/hsabsaboun/backend/internal/logging"
	"github.com/hsabsaboun/backend/internal/service"
	"github.com/hsabsaboun/backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(logging.FromStrings(cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := cfg.StoreBackend()
	storeImpl, closeStore, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("store ready", "backend", backend)

	// Add debug interceptor first (for impersonation support in dev mode)
	interceptors := []connect.Interceptor{auth.DebugAuthInterceptor(cfg.SkipAuth)}
	if backend == store.BackendMemory || cfg.SkipAuth {
		logger.Warn("using mock authentication", "user_id", auth.LocalDevUserID)
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	} else {
		firebaseAuth, err := auth.NewFirebaseAuth(ctx, cfg.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase Auth: %w", err)
		}
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth, logger))
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, chat will reply with the fallback message")
	}
	gemini := assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, logger)

	agentService := service.NewAgentService(storeImpl, gemini,
		service.WithLocation(cfg.Location()),
		service.WithLogger(logger),
	)
	path, handler := service.NewAgentServiceHandler(agentService, connect.WithInterceptors(interceptors...))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			"X-Debug-Impersonate-User",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "timezone", cfg.Timezone)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
