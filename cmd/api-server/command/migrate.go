package command

import (
	"context"
	"time"

	"bloghub/database"
	"bloghub/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
)

var pruneTokens bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db, logger); err != nil {
			return err
		}
		if !pruneTokens {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		n, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		logger.Info("Pruned expired refresh tokens", "count", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&pruneTokens, "prune-tokens", true, "delete expired refresh tokens after migrating")
	rootCmd.AddCommand(migrateCmd)
}
