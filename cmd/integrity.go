package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"board-sync/core/hub"
	"board-sync/feature/board"
	"board-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check board order and schema",
	Long:  `Runs every integrity check against the database. Use the subcommands to run one check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// orderCmd represents the integrity order command
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Check and fix sibling order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the board tables for missing columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(orderCmd, schemaCmd)

	orderCmd.Flags().BoolVar(&fixFlag, "fix", false, "Renumber every scope")
}

func runIntegrityChecks(ctx context.Context, order, schema bool) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger

	// No observers are attached from the CLI; the hub only satisfies the dispatcher.
	snapshots := hub.New[*board.Snapshot](1)
	defer snapshots.Close()
	svc := integrity.NewFeature(board.NewFeature(rt.db, snapshots, logg), rt.db, logg).Service()

	failed := false

	if order {
		report, err := svc.CheckOrder(ctx)
		if err != nil {
			return fmt.Errorf("order check failed: %w", err)
		}
		if !report.Matched && fixFlag {
			logg.Info("Attempting to fix order", zap.Strings("scopes", report.Problems()))
			fixed, out, err := svc.FixOrder(ctx)
			if err != nil {
				return err
			}
			logg.Info("Order fixed", zap.Int64("affected", out.Result.Affected))
			report = fixed
		}
		fmt.Println("\n=== Order Integrity ===")
		fmt.Printf("Scopes: %d\n", len(report.Scopes))
		fmt.Printf("Problems: %v\n", report.Problems())
		fmt.Printf("Dangling: %v\n", report.Dangling)
		if !report.Matched {
			failed = true
			printJSON(report)
		}
	}

	if schema {
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		fmt.Println("\n=== Schema Integrity ===")
		fmt.Printf("Driver: %s\n", report.Driver)
		fmt.Printf("Matched: %t\n", report.Matched)
		if !report.Matched {
			failed = true
			printJSON(report.Tables)
		}
	}

	if failed {
		return fmt.Errorf("integrity problems found")
	}
	logg.Info("Integrity check completed")
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
