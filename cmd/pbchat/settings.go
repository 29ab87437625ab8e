package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective settings with the credential masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := flags.settingsManager()
			if err != nil {
				return err
			}
			s := manager.Get()

			table := uitable.New()
			table.RightAlign(0)
			table.Separator = " "
			table.AddRow("endpoint:", orUnset(s.APIURL))
			table.AddRow("auth:", s.AuthType)
			table.AddRow("credential:", s.MaskedKey())
			fmt.Println(table.String())
			return nil
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
