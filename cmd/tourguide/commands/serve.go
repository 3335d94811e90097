package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/livetemplate/tourguide/internal/server"
)

// shutdownTimeout bounds how long open sessions get to drain on Ctrl+C.
const shutdownTimeout = 5 * time.Second

// ServeCommand implements the serve command.
func ServeCommand(args []string) error {
	var configPath, port, host string
	var watch bool

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--watch", "-w":
			watch = true
		case "--port", "-p":
			if i+1 < len(args) {
				port = args[i+1]
				i++
			}
		case "--host":
			if i+1 < len(args) {
				host = args[i+1]
				i++
			}
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		}
	}
	dir := positionalDir(args, map[string]bool{
		"--port": true, "-p": true, "--host": true, "--config": true, "-c": true,
	})

	proj, err := loadProject(dir, configPath)
	if err != nil {
		return err
	}
	cfg := proj.config
	if configPath != "" {
		fmt.Printf("📝 Using config: %s\n", configPath)
	}

	// CLI flags override config and environment
	if port != "" {
		portInt, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port: %s", port)
		}
		cfg.Server.Port = portInt
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if watch {
		cfg.Features.HotReload = true
	}

	fmt.Printf("🧭 Tourguide Server\n\n")
	fmt.Printf("Serving: %s\n", proj.dir)
	fmt.Printf("Page:    %s (%d steps)\n", proj.page.ID, len(proj.page.Steps))

	srv := server.New(proj.dir, cfg)
	if err := srv.Load(); err != nil {
		return err
	}

	if cfg.Features.HotReload {
		if err := srv.EnableWatch(); err != nil {
			return fmt.Errorf("failed to enable watch mode: %w", err)
		}
		defer srv.StopWatch()
		fmt.Printf("\n👀 Watch mode enabled - the page reloads when files change\n")
	}

	addr := cfg.Addr()
	fmt.Printf("\n🌐 Server running at http://%s\n", addr)
	if proj.page.Tour.AutoStart {
		fmt.Printf("▶️  Tour starts automatically for each visitor\n")
	}
	fmt.Printf("⚡ Gzip compression enabled\n")
	fmt.Printf("Press Ctrl+C to stop\n\n")

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func init() {
	log.SetFlags(0) // Remove timestamp from logs
}
