package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pavelanni/quizforge/internal/export"
	"github.com/pavelanni/quizforge/internal/handler"
	appI18n "github.com/pavelanni/quizforge/internal/i18n"
	"github.com/pavelanni/quizforge/internal/session"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web exam server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "Default UI language (en, si)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /quiz)")
	f.Bool("secure-cookies", false, "Set Secure flag on cookies (enable behind HTTPS)")
	f.Int64("max-upload", handler.DefaultMaxUpload, "Maximum upload size in bytes")
	f.Duration("generate-timeout", 3*time.Minute, "Time limit for one exam generation")
	f.Duration("session-ttl", session.DefaultTTL, "Drop exam sessions idle for this long")
	f.String("pdf-font", "", "TrueType font for PDF export (needed for Sinhala)")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := setup(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	opts := llmOptions(v)
	gen, err := newGenerator(ctx, opts)
	if err != nil {
		return err
	}
	defer gen.Close()
	switch {
	case gen.HasCredential():
		slog.Info("generation enabled", "provider", opts.Provider)
	case gen.DemoMode():
		slog.Warn("no API key configured, serving the demo exam")
	default:
		slog.Warn("no API key configured and demo mode is off, generation will fail")
	}

	registry := session.NewRegistry()
	h, err := handler.New(registry, gen, handler.Config{
		BasePath:        v.GetString("base-path"),
		SecureCookies:   v.GetBool("secure-cookies"),
		MaxUploadBytes:  v.GetInt64("max-upload"),
		GenerateTimeout: v.GetDuration("generate-timeout"),
		Export:          export.Options{PDFFont: v.GetString("pdf-font")},
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(v.GetBool("secure-cookies")))
	h.Mount(r)

	go cleanupSessions(ctx, registry, v.GetDuration("session-ttl"))

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"base_path", v.GetString("base-path"),
		"models", opts.Models,
		"demo", gen.DemoMode(),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cleanupSessions(ctx context.Context, reg *session.Registry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(min(ttl, 10*time.Minute))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := reg.Cleanup(ttl); n > 0 {
				slog.Info("dropped idle exam sessions", "count", n, "remaining", reg.Len())
			}
		}
	}
}
