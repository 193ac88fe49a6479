package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/config"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
	http_controllers "github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/http"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/scheduler"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the update scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting update server v%s", version)

	if cfg.Updates.ManifestDir == "" {
		log.Fatalf("Manifest directory is not set")
		return
	}
	if info, err := os.Stat(cfg.Updates.ManifestDir); err != nil || !info.IsDir() {
		log.Fatalf("Manifest directory %s does not exist", cfg.Updates.ManifestDir)
		return
	}

	manifestStore := updates.NewStore(cfg.Updates.ManifestDir)

	// Fail fast on a bad manifest rather than at the first client request.
	manifests, err := manifestStore.LoadManifests()
	if err != nil {
		log.Fatalf("Failed to load manifests: %v", err)
	}
	log.Printf("Loaded %d manifests from %s", len(manifests), cfg.Updates.ManifestDir)

	// The local store is optional on the server side. When a path is
	// configured the health check pings it and the periodic self-check
	// keeps it current.
	var db *database.Database
	if cfg.Database.Path != "" {
		if _, statErr := os.Stat(cfg.Database.Path); statErr == nil {
			db, err = database.NewDatabase(cfg.Database.Path)
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Printf("Error closing database: %v", err)
				}
			}()
		} else {
			log.Printf("WARNING: database %s not found, run the build pipeline first", cfg.Database.Path)
		}
	}

	var updateScheduler *scheduler.UpdateCheckScheduler
	var schedulerCancel context.CancelFunc
	if cfg.Updates.CheckEnabled && db != nil {
		var source updates.Source = manifestStore
		if cfg.Updates.ServerURL != "" {
			source = updates.NewHTTPSource(cfg.Updates.ServerURL)
		}

		client := updates.NewClient(db.DB, source)
		updateScheduler = scheduler.NewUpdateCheckScheduler(client, cfg.Updates.CheckSchedule)

		var schedulerCtx context.Context
		schedulerCtx, schedulerCancel = context.WithCancel(context.Background())
		if err := updateScheduler.Start(schedulerCtx); err != nil {
			log.Fatalf("Failed to start update check scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		DB:            db,
		ManifestStore: manifestStore,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if updateScheduler != nil {
			updateScheduler.Stop()
			schedulerCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
