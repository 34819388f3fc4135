package cmd

import (
	"fmt"

	"github.com/lazycopy/lazycopy/internal/config"
	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/lazycopy/lazycopy/internal/output"
	"github.com/spf13/cobra"
)

// configResolved is what `config` (bare) and `config validate` report: the
// raw file plus the derived quantities a raw pool_capacity/arena_bytes pair
// doesn't show on its own: how many pages that arena actually affords.
type configResolved struct {
	PoolCapacity int    `json:"pool_capacity"`
	ArenaBytes   int    `json:"arena_bytes"`
	LogLevel     string `json:"log_level"`
	PageSize     int    `json:"page_size"`
	ArenaPages   int    `json:"arena_pages"`
}

func resolve(cfg *config.Config) configResolved {
	dflt := lazycopy.DefaultArenaBytes
	return configResolved{
		PoolCapacity: cfg.PoolCapacity,
		ArenaBytes:   cfg.ArenaBytes,
		LogLevel:     cfg.LogLevel,
		PageSize:     lazycopy.PageSize(),
		ArenaPages:   config.PageCapacity(cfg, dflt),
	}
}

func addConfigCommands(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lazycopy configuration",
		Long:  "Show, get, and set values in the lazycopy config file (~/.lazycopy/config.toml).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigDir(ConfigDir)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			r := resolve(cfg)
			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", config.ConfigPath())
			fmt.Fprintf(cmd.OutOrStdout(), "pool_capacity = %d\n", r.PoolCapacity)
			fmt.Fprintf(cmd.OutOrStdout(), "arena_bytes = %d\n", r.ArenaBytes)
			fmt.Fprintf(cmd.OutOrStdout(), "log_level = %s\n", r.LogLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "# %d-byte pages, arena affords %d pages\n", r.PageSize, r.ArenaPages)
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get <KEY>",
		Short: "Get a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigDir(ConfigDir)
			val, err := config.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}

	configSetCmd := &cobra.Command{
		Use:   "set <KEY> <VALUE>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigDir(ConfigDir)
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			if !output.IsQuiet() {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			}
			return nil
		},
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigDir(ConfigDir)
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	}

	configValidateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file against lazycopy's constraints",
		Long: "Checks that pool_capacity and arena_bytes are not negative and " +
			"that a non-zero arena_bytes is a multiple of the host page size, " +
			"the checks 'config set' applies per key (zero counts as unset). " +
			"It does not call Init.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigDir(ConfigDir)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if verr := config.Validate(cfg); verr != nil {
				if output.IsJSON() {
					return output.PrintError(cmd.OutOrStdout(), "invalid_config", verr.Error())
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", verr)
				return verr
			}
			if output.IsJSON() {
				return output.PrintJSON(cmd.OutOrStdout(), resolve(cfg))
			}
			if !output.IsQuiet() {
				fmt.Fprintln(cmd.OutOrStdout(), "config is valid")
			}
			return nil
		},
	}

	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
