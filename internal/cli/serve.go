package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/vladimirs1981/employee-info/internal/config"
	"github.com/vladimirs1981/employee-info/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Environment Variables Required:
  DATABASE_URL    - PostgreSQL connection string
  JWT_SECRET      - HMAC secret for access tokens

Optional:
  REDIS_URL       - Redis for OAuth state (in-memory when empty)
  PORT            - Listen port (default 3005)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if err := config.App.Validate(); err != nil {
		return err
	}

	pg, err := openDB()
	if err != nil {
		return err
	}
	defer pg.Close()

	var redisClient *redis.Client
	if config.App.RedisURL != "" {
		opts, err := redis.ParseURL(config.App.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis ping failed, OAuth logins will fail until it recovers: %v", err)
		} else {
			log.Println("Connected to Redis successfully")
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           router.NewGinRouter(pg, redisClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
