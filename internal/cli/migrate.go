package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/vladimirs1981/employee-info/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded schema. Every statement is idempotent, so running
it against an up to date database is a no-op.

Environment Variables Required:
  DATABASE_URL    - PostgreSQL connection string`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := openDB()
		if err != nil {
			return err
		}
		defer pg.Close()

		log.Println("Running migration...")
		if err := db.Migrate(cmd.Context(), pg); err != nil {
			return err
		}
		log.Println("Migration applied successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
