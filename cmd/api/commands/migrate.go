package commands

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/user/price-tracker/internal/adapter/postgres"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Applies the database schema.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		dbpool, err := pgxpool.New(cmd.Context(), cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer dbpool.Close()

		if err := postgres.Migrate(cmd.Context(), dbpool); err != nil {
			return err
		}
		log.Info("schema applied")
		return nil
	},
}
