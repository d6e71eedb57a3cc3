package cmd

import (
	"context"
	"fmt"
	"time"

	"board-sync/core/storage"
	"board-sync/feature/archive"
	"board-sync/feature/board"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Archive the current board to object storage",
	Long:  `Writes one timestamped snapshot under archive.prefix, whether or not the background archiver is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()
		cfg := rt.cfg

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Storage.TimeoutSeconds+5)*time.Second)
		defer cancel()

		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return err
		}

		snapshots := board.NewSnapshotBuilder(board.NewStore(rt.db))
		entry, err := archive.NewArchiver(client, cfg.Storage.Bucket, cfg.Archive, snapshots, rt.logger).Archive(ctx)
		if err != nil {
			return err
		}

		rt.logger.Info("Export completed", zap.String("bucket", cfg.Storage.Bucket), zap.String("key", entry.Key))
		fmt.Println(entry.Key)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
}
