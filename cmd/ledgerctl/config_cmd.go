package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", flagConfig)
	if _, err := os.Stat(flagConfig); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Database]")
	fmt.Printf("    Path: %s\n", cfg.Database.Path)
	fmt.Println()

	fmt.Println("  [Ledger]")
	fmt.Printf("    Tolerance: %v\n", cfg.Ledger.Tolerance)
	fmt.Printf("    Places:    %d\n", cfg.Ledger.Places)
	fmt.Println()

	fmt.Println("  [Output]")
	fmt.Printf("    Color: %v\n", cfg.Output.Color)
	if cfg.Output.Actor != "" {
		fmt.Printf("    Actor: %s\n", cfg.Output.Actor)
	} else {
		fmt.Println("    Actor: not set")
	}
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(flagConfig); err == nil {
		return fmt.Errorf("%s already exists", flagConfig)
	}
	if err := config.SaveFile(flagConfig, config.DefaultFileConfig()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", flagConfig)
	return nil
}
