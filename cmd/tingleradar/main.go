package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/playlistsync"
	"github.com/tingleradar/tingleradar/internal/server"
)

func main() {
	port := getEnv("PORT", "8080")

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		log.Fatal("BACKEND_URL is required")
	}

	timeout := time.Duration(getEnvInt64("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second
	catalogClient := catalog.NewClient(backendURL, timeout)

	var syncBackend playlistsync.Backend
	if getEnv("PLAYLIST_SYNC_ENABLED", "true") == "true" {
		syncBackend = playlistsync.NewClient(backendURL, timeout)
	} else {
		log.Println("playlist sync disabled")
	}

	webFS := loadWebFS(os.Getenv("WEB_DIR"))
	if webFS != nil {
		log.Println("frontend loaded from WEB_DIR")
	} else {
		log.Println("no frontend directory configured, SPA serving disabled")
	}

	srv := server.New(server.Config{
		Catalog:             catalogClient,
		Sync:                syncBackend,
		WebFS:               webFS,
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		PageSize:            int(getEnvInt64("PAGE_SIZE", 50)),
		ChannelLimit:        int(getEnvInt64("CHANNEL_LIMIT", 40)),
		PlaylistTitle:       os.Getenv("PLAYLIST_TITLE"),
		PlaylistDescription: os.Getenv("PLAYLIST_DESCRIPTION"),
		SessionIdle:         time.Duration(getEnvInt64("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		EnableDocs:          getEnv("API_DOCS_ENABLED", "false") == "true",
	})

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()
	srv.StartReaper(reaperCtx, time.Minute)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("tingleradar listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")
	reaperCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

// loadWebFS returns the built frontend directory, or nil when dir is unset or
// has no index.html.
func loadWebFS(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, "index.html"); err != nil {
		log.Printf("WEB_DIR %s has no index.html: %v", dir, err)
		return nil
	}
	return fsys
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
