package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/store"
)

var settingKeys = map[string]bool{
	store.KeyAPIKey:           true,
	store.KeyCustomGuidelines: true,
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := repo.Setting(cmd.Context(), store.KeyAPIKey)
			if err != nil {
				return err
			}
			guidelines, err := repo.Setting(cmd.Context(), store.KeyCustomGuidelines)
			if err != nil {
				return err
			}
			status := "not set"
			if key != "" {
				status = "set"
			}
			fmt.Printf("apiKey:           %s\n", status)
			fmt.Printf("customGuidelines: %q\n", guidelines)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store apiKey or customGuidelines; no value clears it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !settingKeys[args[0]] {
				return fmt.Errorf("unknown setting %q (want apiKey or customGuidelines)", args[0])
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := repo.SetSetting(cmd.Context(), args[0], value); err != nil {
				return err
			}
			if value == "" {
				fmt.Printf("✓ Cleared %s\n", args[0])
			} else {
				fmt.Printf("✓ Saved %s\n", args[0])
			}
			return nil
		},
	}

	cmd.AddCommand(set)
	return cmd
}
