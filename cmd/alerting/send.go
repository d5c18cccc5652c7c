package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alerting/internal/app"
	"alerting/internal/channels"
	"alerting/internal/config"
	"alerting/pkg/alert"
	logx "alerting/pkg/logx"
)

var sendTitle string

func init() {
	sendCmd.Flags().StringVarP(&sendTitle, "title", "t", alert.DefaultTitle, "alert title")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:     "send [message...]",
	Short:   "Send one alert to every configured channel, in order",
	Example: `  alerting send -t "db-1" "disk usage above 95%"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewManager(cfgPath).Load()
		if err != nil {
			return fmt.Errorf("load config %s: %w", cfgPath, err)
		}
		logs, log := logx.New(app.LogConfig(cfg))
		defer logs.Close()

		d, err := channels.NewDispatcher(cfg, log)
		if err != nil {
			return err
		}
		message := strings.Join(args, " ")
		if err := d.SendAlert(cmd.Context(), message, alert.WithTitle(sendTitle)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent to %d channel(s)\n", d.Len())
		return nil
	},
}
