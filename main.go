package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/auth-api/modules/api"
	"github.com/example/auth-api/modules/auth"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Auth API ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules: auth provides the services api calls
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())
	app.Register(api.NewModule())

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  GET    /          - API info")
	log.Println("  POST   /register  - Register a new user")
	log.Println("  POST   /login     - Login (access token in body, refresh token in cookie)")
	log.Println("  GET    /user      - Current user (Authorization: Bearer <token>)")
	log.Println("  POST   /refresh   - New access token from the refresh cookie")
	log.Println("  POST   /logout    - Revoke and clear the refresh cookie")
	log.Println("  GET    /health    - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
