// ABOUTME: CLI entrypoint for the solitaire API server.
// ABOUTME: Wires together config, SQLite store, game registry, auth, HTTP server, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Craz6yDev/MM-207/server"
	"github.com/Craz6yDev/MM-207/store"
	"github.com/Craz6yDev/MM-207/web"
)

var version = "dev"

type cliConfig struct {
	configFile  string
	bind        string
	showVersion bool
}

func main() {
	server.LoadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("solitaired %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

func parseFlags() cliConfig {
	var cfg cliConfig

	fs := flag.NewFlagSet("solitaired", flag.ContinueOnError)
	fs.StringVar(&cfg.configFile, "config", "", "Path to YAML config file (default: $SOLITAIRE_CONFIG)")
	fs.StringVar(&cfg.bind, "bind", "", "Listen address (overrides config)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	return cfg
}

// run starts the server and blocks until shutdown.
// Returns an exit code: 0 for success, 1 for failure.
func run(cli cliConfig) int {
	if cli.bind != "" {
		os.Setenv("SOLITAIRE_BIND", cli.bind)
	}

	cfg, err := server.ConfigFromEnv(cli.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create data dir: %v\n", err)
		return 1
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open store: %v\n", err)
		return 1
	}
	defer st.Close()

	registry := server.NewRegistry(st, cfg.MaxGames, cfg.GameTTL)
	stopCleanup := registry.StartCleanup(5 * time.Minute)
	defer stopCleanup()

	auth := server.NewAuth(st, cfg.SessionTTL)

	webServer := web.NewServer(web.ServerConfig{
		Addr:     cfg.Bind,
		Registry: registry,
		Auth:     auth,
		Store:    st,
	})

	httpServer := &http.Server{
		Addr:              cfg.Bind,
		Handler:           webServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("component=main action=shutdown error=%v", err)
		}
	}()

	log.Printf("component=main action=listen addr=%s db=%s version=%s", cfg.Bind, cfg.DBPath, version)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Persist every resident game before exiting.
	registry.Shutdown()
	return 0
}
