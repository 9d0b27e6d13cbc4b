package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resmatch/internal/bootstrap"
	"resmatch/internal/errs"
	"resmatch/internal/usecase/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the terminal match console",
	RunE: withApp(func(cmd *cobra.Command, components bootstrap.Components) error {
		limit, _ := cmd.Flags().GetInt("limit")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := console.NewMatchModel(
			cmd.Context(),
			components.Entities,
			components.Service,
			components.Invalidator,
			console.MatchOptions{
				Limit:           limit,
				RefreshInterval: refreshInterval,
			},
		)

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run match console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().Int("limit", 8, "Recommendations shown per student")
	consoleCmd.Flags().Duration("refresh-interval", 30*time.Second, "Auto refresh interval")
}
