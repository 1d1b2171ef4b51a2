package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "github.com/taskhive/taskhive/internal/configs"
	httpapi "github.com/taskhive/taskhive/internal/http"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
)

const retryBackoff = time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task manager HTTP API on the configured persistence mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		log.Printf("persistence mode: %s", cfg.Mode)

		kvStore, closeKV := newKVStore(cfg)
		defer closeKV()

		taskStore := newTaskStore(cfg, kvStore)

		authService := services.NewAuthService(kvStore)
		syncService := services.NewSyncService(taskStore)

		unsubscribe := authService.OnSessionChange(func(u *models.User) {
			if u == nil {
				syncService.Unload()
				return
			}
			if _, err := syncService.Load(context.Background(), *u); err != nil {
				log.Printf("session: failed to load tasks for user %s: %v", u.ID, err)
			}
		})
		defer unsubscribe()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		handler := httpapi.NewHandler(syncService, authService, newEnhancer(cfg))
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
