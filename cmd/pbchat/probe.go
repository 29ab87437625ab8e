package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/liutizhong/PBChatbot/chat"
)

func newProbeCmd(flags *rootFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the configured backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := flags.settingsManager()
			if err != nil {
				return err
			}
			cfg := manager.Get().ChatConfig()

			client, err := chat.New(
				chat.WithLogger(flags.logger()),
				chat.WithUserAgent(userAgent()),
				chat.WithProbeTimeout(timeout),
			)
			if err != nil {
				return err
			}

			if err := client.Probe(cmd.Context(), cfg); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render("probe failed"))
				fmt.Fprintln(os.Stderr, chat.FailureMessage(err, cfg))
				return err
			}

			fmt.Println("backend reachable")
			fmt.Println(faintStyle.Render(chat.Diagnose(cfg).String()))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", chat.DefaultProbeTimeout, "probe timeout")
	return cmd
}
