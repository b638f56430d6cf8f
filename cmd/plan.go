package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runlab/sweeprun/pkg/settings"
	"github.com/runlab/sweeprun/pkg/sweepfile"
)

var (
	planSettingsFile string
	planJSONOutput   bool
	planForceColor   bool
)

// NewPlanCmd builds the plan command.
func NewPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan <sweep-file>",
		Short: "List the run names a sweep would produce, without executing",
		Long: `Enumerate a sweep against a scratch copy of the settings and print every
run name in execution order. Nothing is executed and no output directory is
created, so a plan can be inspected safely before launching it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(cmd, args[0], planSettingsFile, planJSONOutput)
		},
	}
	planCmd.Flags().StringVarP(&planSettingsFile, "settings", "s", "", "Path to a settings file (default ./settings.yaml)")
	planCmd.Flags().BoolVar(&planJSONOutput, "json", false, "Output the run names as JSON")
	planCmd.Flags().BoolVar(&planForceColor, "color", false, "Force colored output even without a TTY")
	return planCmd
}

func printPlan(cmd *cobra.Command, sweepPath, settingsPath string, jsonOutput bool) error {
	loaded, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	configureLogging(loaded)

	// The enumeration mutates settings, so it runs against a throwaway store.
	store, err := settings.NewStore(loaded)
	if err != nil {
		return err
	}
	file, root, err := sweepfile.Load(sweepPath, store)
	if err != nil {
		return err
	}

	names, err := enumerate(root)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if planForceColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
		isTTY = true
	}
	if !isTTY {
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	title := file.Name
	if title == "" {
		title = sweepPath
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	indexStyle := lipgloss.NewStyle().Faint(true).Width(5).Align(lipgloss.Right)
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(fmt.Sprintf("%s: %d run(s)", title, len(names))))
	for i, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", indexStyle.Render(fmt.Sprintf("%d", i+1)), name)
	}
	return nil
}
