package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bip-connector/internal/config"
	"bip-connector/internal/platform/paths"
	"bip-connector/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "bipctl",
	Short:         "Run SQL through a BI Publisher report service from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the daemon config with a fresh bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(); err == nil {
			return errors.New("config already exists; edit it instead")
		} else if !errors.Is(err, config.ErrNotFound) {
			return err
		}

		cfg := config.Default()
		cfg.BearerToken = uuid.NewString()
		if err := config.Save(cfg); err != nil {
			return err
		}

		p, err := paths.ConfigFilePath()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nbearer token: %s\n", p, cfg.BearerToken)
		return nil
	},
}

func openStore() (config.Config, *store.Store, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return config.Config{}, nil, err
	}
	path, err := config.ResolveStorePath(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, st, nil
}

func main() {
	rootCmd.AddCommand(initCmd, queryCmd, capacityCmd, connectionsCmd, savedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
