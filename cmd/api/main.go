package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/luvv-ai/backend/internal/config"
	"github.com/luvv-ai/backend/internal/handler"
	"github.com/luvv-ai/backend/internal/model/persona"
	"github.com/luvv-ai/backend/internal/service/dialogue"
	"github.com/luvv-ai/backend/internal/service/provider"
	"github.com/luvv-ai/backend/internal/service/session"
	"github.com/luvv-ai/backend/internal/service/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())

	sessionStore := session.NewStore(cfg.Session.TTL)
	sessionStore.StartSweeper(ctx, cfg.Session.SweepInterval)

	transcriber := transcribe.NewWhisperCLI(cfg.Whisper.Binary, cfg.Whisper.ModelPath, cfg.Whisper.Language)
	log.Printf("transcription engine: %s (model %s)", cfg.Whisper.Binary, cfg.Whisper.ModelPath)

	dialogueService := dialogue.NewService(
		personaStore,
		provider.NewOpenAIGenerator(),
		provider.NewElevenLabsSynthesizer(),
		transcriber,
		dialogue.Config{
			Window:      cfg.Dialogue.HistoryWindow,
			CallTimeout: cfg.Dialogue.CallTimeout,
		},
	)

	router := handler.NewRouter(personaStore, sessionStore, dialogueService, cfg.Dialogue.TempDir)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Luvv backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
