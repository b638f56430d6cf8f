package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runlab/sweeprun/pkg/settings"
)

var (
	settingsFile       string
	settingsJSONOutput bool
)

// NewSettingsCmd builds the settings command.
func NewSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings after file and environment layering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := settings.Load(settingsFile)
			if err != nil {
				return err
			}

			var data []byte
			if settingsJSONOutput {
				data, err = json.MarshalIndent(loaded, "", "  ")
			} else {
				data, err = yaml.Marshal(loaded)
			}
			if err != nil {
				return fmt.Errorf("rendering settings: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			if settingsJSONOutput {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	settingsCmd.Flags().StringVarP(&settingsFile, "settings", "s", "", "Path to a settings file (default ./settings.yaml)")
	settingsCmd.Flags().BoolVar(&settingsJSONOutput, "json", false, "Output settings as JSON")
	return settingsCmd
}
