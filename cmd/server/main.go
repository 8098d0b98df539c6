package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adpulse/channel-monitor/internal/analyzer"
	"github.com/adpulse/channel-monitor/internal/api"
	"github.com/adpulse/channel-monitor/internal/cache"
	"github.com/adpulse/channel-monitor/internal/config"
	"github.com/adpulse/channel-monitor/internal/repository/postgres"
	"github.com/adpulse/channel-monitor/internal/storage"
	"github.com/adpulse/channel-monitor/internal/telemetr"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pre-flight check: verify the target port is available
	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", cfg.Server.Port)

	// Initialize local history storage
	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize the analysis engine
	engine := analyzer.New(analyzer.Config{
		BaseCPM:             cfg.Analysis.BaseCPM,
		Currency:            cfg.Analysis.Currency,
		CategoryMultipliers: cfg.Analysis.CategoryMultipliers,
	})

	handlers := api.NewHandlers(engine, store)

	// Wire the channel-stats provider when an API key is configured
	if cfg.Telemetr.APIKey != "" {
		handlers.SetProvider(telemetr.NewClient(cfg.Telemetr), cfg.Telemetr.DefaultPeriod)
		log.Printf("Channel stats provider enabled: %s", cfg.Telemetr.BaseURL)
	} else {
		log.Println("Channel stats provider disabled (TELEMETR_API_KEY not set) — inline snapshots only")
	}

	// Initialize PostgreSQL persistence if configured
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Printf("Warning: failed to open analysis database: %v", err)
		} else {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(3)
			db.SetConnMaxLifetime(5 * time.Minute)

			pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := db.PingContext(pingCtx); err != nil {
				log.Printf("Warning: analysis database ping failed: %v — persistence disabled", err)
				db.Close()
			} else {
				repo := postgres.NewAnalysisRepo(db)
				if err := repo.Migrate(context.Background()); err != nil {
					log.Printf("Warning: analysis database migration failed: %v", err)
				} else {
					handlers.SetRepository(repo)
					log.Println("Analysis database connected")
				}
			}
			pingCancel()
		}
	}

	// Initialize the Redis result cache if configured
	if cfg.Redis.Addr != "" {
		resultCache := cache.New(cfg.Redis)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := resultCache.Ping(pingCtx); err != nil {
			log.Printf("Warning: Redis connection failed (%s): %v — result cache disabled", cfg.Redis.Addr, err)
			resultCache.Close()
		} else {
			handlers.SetResultCache(resultCache)
			log.Printf("Redis connected: %s (result cache TTL %s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
		pingCancel()
	}

	server := api.NewServer(cfg.Server, handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
