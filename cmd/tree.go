package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"board-sync/feature/board"
	"board-sync/feature/watch"

	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the board read straight from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		showOrder, _ := cmd.Flags().GetBool("order")
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		snap, err := board.NewSnapshotBuilder(board.NewStore(rt.db)).Build(cmd.Context())
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		fmt.Print(watch.Render(watch.Rows(snap), showOrder))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("order", false, "Show each entry's order")
	treeCmd.Flags().Bool("json", false, "Print the raw snapshot as JSON")
}
