package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "activity-tracker.com/activity-tracker/internal/configs"
	httpapi "activity-tracker.com/activity-tracker/internal/http"
	repository "activity-tracker.com/activity-tracker/internal/repositories"
	"activity-tracker.com/activity-tracker/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the activity tracker HTTP API on the configured key/value store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		kv, closeStore := config.NewStore(ctx, cfg)
		defer closeStore()

		activityService := services.NewActivityService(repository.NewActivityRepository(kv))
		userRepo := repository.NewUserRepository(kv)

		if n, err := activityService.Migrate(ctx); err != nil {
			log.Printf("activities not migrated: %v", err)
		} else {
			log.Printf("%d activities loaded", n)
		}

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, httpapi.NewHandler(activityService, userRepo, cfg.AuditsBaseURL), cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
