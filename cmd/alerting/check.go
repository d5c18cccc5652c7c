package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alerting/internal/channels"
	"alerting/internal/config"
	"alerting/pkg/alert"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config and construct every channel without sending",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewManager(cfgPath).Load()
		if err != nil {
			return fmt.Errorf("load config %s: %w", cfgPath, err)
		}
		chs, err := channels.Build(cfg.Channels)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config %s ok: %d channel(s)\n", cfgPath, len(chs))
		for i, ch := range chs {
			fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, alert.ChannelName(ch), cfg.Channels[i].Type)
		}
		return nil
	},
}
