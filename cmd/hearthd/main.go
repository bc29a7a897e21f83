package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hearthhq/hearth/internal/app"
	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/feed"
	"github.com/hearthhq/hearth/internal/logging"
	"github.com/hearthhq/hearth/internal/remote"
	"github.com/hearthhq/hearth/internal/syncer"
)

const resetCheckInterval = time.Hour

func main() {
	// .env file is optional in production
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("HEARTH_LOG_LEVEL"))

	familyID := os.Getenv("HEARTH_FAMILY_ID")
	if familyID == "" {
		log.Fatal("HEARTH_FAMILY_ID is required")
	}

	dbPath := getEnvOrDefault("HEARTH_DB_PATH", "hearth.db")
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	svc := remote.NewHTTPService(remote.Config{
		BaseURL: getEnvOrDefault("HEARTH_REMOTE_URL", "https://api.hearthhq.app"),
		APIKey:  os.Getenv("HEARTH_API_KEY"),
	}, logger.With("component", "remote"))

	// Alerts from background reconciliation end up in the log; connected UI
	// clients learn about rollbacks through the change feed.
	alerter := syncer.AlerterFunc(func(err error) {
		logger.Error("sync alert", "error", err)
	})

	core := app.New(familyID, svc, config.NewStore(db), alerter, logger)

	hub := feed.NewHub(logger.With("component", "feed"))
	core.State().SubscribeAll(hub.Observe)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", feed.Handler(hub, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := getEnvOrDefault("HEARTH_PORT", "8080")
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// The reset check is opportunistic: cheap when nothing is due, so the
	// daemon just polls alongside whatever the UI triggers itself.
	resetDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(resetCheckInterval)
		defer ticker.Stop()
		core.CheckAndPerformMonthlyReset()
		for {
			select {
			case <-ticker.C:
				core.CheckAndPerformMonthlyReset()
			case <-resetDone:
				return
			}
		}
	}()

	go func() {
		fmt.Printf("hearthd running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(resetDone)
	core.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
