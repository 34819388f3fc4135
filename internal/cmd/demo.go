package cmd

import (
	"fmt"
	"sort"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/lazycopy/lazycopy/internal/log"
	"github.com/lazycopy/lazycopy/internal/output"
	"github.com/spf13/cobra"
)

func addDemoCommand(rootCmd *cobra.Command) {
	demoCmd := &cobra.Command{
		Use:   "demo <scenario>",
		Short: "Run one of lazycopy's built-in demonstration scenarios",
		Long:  "Run a single named scenario, or 'all' to run every scenario in sequence.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lazycopy.Init()
			defer lazycopy.Reset()

			if args[0] == "all" {
				names := make([]string, 0, len(scenarios))
				for _, s := range scenarios {
					names = append(names, s.name)
				}
				sort.Strings(names)
				for _, name := range names {
					s, _ := findScenario(name)
					log.L.WithField("scenario", s.name).Info("running demo scenario")
					if err := s.run(cmd.OutOrStdout()); err != nil {
						return fmt.Errorf("scenario %s: %w", s.name, err)
					}
					_ = output.PrintStats(cmd.OutOrStdout(), lazycopy.GetStats())
					lazycopy.Reset()
				}
				return nil
			}

			s, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q (try 'all' or see --help)", args[0])
			}
			log.L.WithField("scenario", s.name).Info("running demo scenario")
			if err := s.run(cmd.OutOrStdout()); err != nil {
				return err
			}
			return output.PrintStats(cmd.OutOrStdout(), lazycopy.GetStats())
		},
	}

	demoListCmd := &cobra.Command{
		Use:   "list",
		Short: "List available demo scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output.IsJSON() {
				type entry struct {
					Name        string `json:"name"`
					Description string `json:"description"`
				}
				entries := make([]entry, 0, len(scenarios))
				for _, s := range scenarios {
					entries = append(entries, entry{Name: s.name, Description: s.description})
				}
				return output.PrintJSON(cmd.OutOrStdout(), entries)
			}
			for _, s := range scenarios {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", s.name, s.description)
			}
			return nil
		},
	}

	demoCmd.AddCommand(demoListCmd)
	rootCmd.AddCommand(demoCmd)
}
