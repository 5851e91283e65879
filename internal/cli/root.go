package cli

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/vladimirs1981/employee-info/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "employee-info",
	Short: "Employee directory API",
	Long:  `Employee directory backend: HTTP API, schema migrations and account bootstrap.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadConfig(configPath)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("EMPLOYEE_INFO_CONFIG_PATH"), "Path to a YAML config file")
}

// openDB connects to Postgres and pins the session to UTC
func openDB() (*sql.DB, error) {
	if config.App.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable (or config) is required")
	}

	pg, err := sql.Open("postgres", config.App.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pg.Ping(); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set timezone to UTC for consistent time handling
	if _, err := pg.Exec("SET TIME ZONE 'UTC'"); err != nil {
		log.Printf("Failed to set timezone to UTC: %v", err)
	}

	log.Println("Connected to database successfully")
	return pg, nil
}
