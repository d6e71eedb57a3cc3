package cmd

import (
	"fmt"
	"sort"

	"board-sync/feature/board"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the board tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if !rt.cfg.Database.AutoMigrate {
			if err := board.Migrate(rt.db); err != nil {
				return err
			}
		}

		missing, err := board.CheckSchema(rt.db)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			tables := make([]string, 0, len(missing))
			for table := range missing {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			return fmt.Errorf("schema still incomplete after migration: %v", tables)
		}

		rt.logger.Info("Board schema is up to date", zap.String("database", rt.cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
