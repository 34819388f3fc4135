package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/lazycopy/lazycopy/internal/tui"
)

func addWatchCommand(rootCmd *cobra.Command) {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactively step through a lazy copy, page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer lazycopy.Reset()
			m, err := tui.NewWatchModel()
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	rootCmd.AddCommand(watchCmd)
}
