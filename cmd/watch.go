package cmd

import (
	"board-sync/core/config"
	"board-sync/feature/watch"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the board live in the terminal",
	Long:  `Connects to the realtime gateway and redraws the board on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		origin, _ := cmd.Flags().GetString("origin")
		showOrder, _ := cmd.Flags().GetBool("order")

		if url == "" {
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return err
			}
			url = "ws://localhost:" + cfg.Server.RealtimePort + "/ws"
		}

		return watch.Run(watch.Options{URL: url, Origin: origin, ShowOrder: showOrder})
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("url", "", "Gateway websocket URL (default ws://localhost:<server.realtime_port>/ws)")
	watchCmd.Flags().String("origin", "", "Origin header sent on the handshake")
	watchCmd.Flags().Bool("order", false, "Show each entry's order")
}
