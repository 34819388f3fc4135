package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazycopy/lazycopy/internal/config"
	"github.com/lazycopy/lazycopy/internal/log"
	"github.com/lazycopy/lazycopy/internal/output"
)

var Version = "dev"

var (
	jsonFlag    bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
	ConfigDir   string
)

func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addConfigCommands(cmd)
	addDemoCommand(cmd)
	addWatchCommand(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lazycopy",
		Short:         "Lazy, copy-on-access memory regions driven by page-fault handling",
		Long:          "lazycopy — demonstrate and drive a deferred memory copy that materializes one page at a time, on first touch.",
		Version:       fmt.Sprintf("lazycopy v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag && quietFlag {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if jsonFlag {
				quietFlag = true
			}
			output.SetFlags(jsonFlag, quietFlag, verboseFlag)

			config.SetConfigDir(ConfigDir)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			switch {
			case verboseFlag:
				level = "debug"
			case quietFlag:
				level = "error"
			}
			if level != "" {
				log.SetLevel(level)
			}
			return nil
		},
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "Output as JSON")
	pflags.BoolVarP(&verboseFlag, "verbose", "v", false, "Extra detail to stderr")
	pflags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	pflags.BoolVar(&noColorFlag, "no-color", false, "Disable ANSI colors")
	pflags.StringVar(&ConfigDir, "config-dir", "", "Override config directory (default: ~/.lazycopy)")

	if v := os.Getenv("LAZYCOPY_HOME"); v != "" && ConfigDir == "" {
		ConfigDir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		noColorFlag = true
	}
	if os.Getenv("LAZYCOPY_JSON") == "1" {
		jsonFlag = true
	}

	return rootCmd
}

func Execute() error {
	cmd := NewRootCmd()
	return cmd.Execute()
}
