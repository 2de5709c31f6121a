package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/freelancehub/internal/fakeapi"
	"github.com/iudanet/freelancehub/internal/models"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", "localhost:3000", "Listen address")
	secret := flag.String("secret", "fakeapi-secret", "HS256 signing secret")
	accessTTL := flag.Duration("access-ttl", fakeapi.DefaultAccessTTL, "Access token lifetime")
	legacy := flag.Bool("legacy-errors", false, "Send error bodies without kind")
	noRotate := flag.Bool("no-rotate", false, "Return only access_token from /refresh")
	loginLimit := flag.Int("login-limit", 0, "Max /login and /register attempts per IP per minute (0 = unlimited)")
	adminEmail := flag.String("admin-email", "admin@example.com", "Seeded admin email (empty to skip)")
	adminPassword := flag.String("admin-password", "admin-password", "Seeded admin password")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	style := fakeapi.StyleStructured
	if *legacy {
		style = fakeapi.StyleLegacy
	}
	srv := fakeapi.New(
		fakeapi.WithLogger(logger),
		fakeapi.WithSecret(*secret),
		fakeapi.WithAccessTTL(*accessTTL),
		fakeapi.WithErrorStyle(style),
		fakeapi.WithRotateRefresh(!*noRotate),
		fakeapi.WithLoginLimit(*loginLimit, time.Minute),
	)
	if *adminEmail != "" {
		srv.AddUser(*adminEmail, *adminPassword, models.RoleAdmin)
	}
	for _, name := range []string{"Go", "JavaScript", "Design", "Copywriting"} {
		srv.AddSkill(name)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("fake API listening", "addr", *addr, "access_ttl", accessTTL.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("FreelanceHub fake API\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
