package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/podcastr-pages/api"
	"github.com/killallgit/podcastr-pages/api/types"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
	noPrebuild bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the page server",
	Long: `Start the Podcastr Pages server with the configured settings.

The latest episodes are pre-built on start. Other episodes are generated
on first request when the fallback is blocking, and every page is
regenerated in the background once its revalidation window has passed.

Example:
  podcastr-pages serve
  podcastr-pages serve --port 9090
  podcastr-pages serve --host 0.0.0.0 --port 3000 --no-prebuild`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
	serveCmd.Flags().BoolVar(&noPrebuild, "no-prebuild", false, "skip building the latest episodes on start")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	// Use config values if flags not provided
	host, port := serverHost, serverPort
	if host == "" {
		host = cfg.Server.Host
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	app, err := newApplication(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", host, port)
	server := api.NewServer(address, api.Settings{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		MaxHeaderBytes:  cfg.Server.MaxHeaderBytes,
		EnableCORS:      cfg.Security.EnableCORS,
		CORSOrigins:     cfg.Security.CORSOrigins,
		EnableRequestID: cfg.Security.EnableRequestID,
		MaxBodyBytes:    cfg.Security.MaxBodyBytes,
		RateLimit: api.RateLimitSettings{
			Enabled: cfg.RateLimiting.Enabled,
			RPS:     cfg.RateLimiting.RPS,
			Burst:   cfg.RateLimiting.Burst,
		},
		JSONLogs: cfg.Logging.JSON,
	})

	server.SetDependencies(&types.Dependencies{
		DB:              app.db,
		Pages:           app.generator,
		ErrorPages:      app.renderer,
		Assets:          app.assets,
		CacheStats:      app.cacheStats(),
		Revalidate:      cfg.Pages.Revalidate,
		RevalidateToken: cfg.Pages.RevalidateToken,
		Version: types.VersionInfo{
			Version:   Version,
			GitCommit: GitCommit,
			BuildTime: BuildTime,
		},
	})

	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if app.cleanup != nil {
		app.cleanup.Start(ctx)
	}

	if cfg.Pages.PrebuildOnStart && !noPrebuild {
		go prebuild(ctx, app)
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("[INFO] Podcastr Pages listening on %s", address)

	// Wait for interrupt signal or server error
	var runErr error
	select {
	case <-ctx.Done():
		log.Println("[INFO] Shutting down server...")
	case runErr = <-serverErr:
		log.Printf("[ERROR] %v", runErr)
	}

	// Create a context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
		return err
	}

	log.Println("[INFO] Server gracefully stopped")
	return runErr
}

// prebuild generates the enumerated pages; failures leave them to the fallback
func prebuild(ctx context.Context, app *application) {
	report, err := app.generator.Build(ctx)
	if err != nil {
		log.Printf("[WARN] Prebuild skipped: %v", err)
		return
	}
	for slug, reason := range report.Failed {
		log.Printf("[WARN] Prebuild of %s failed: %s", slug, reason)
	}
}
