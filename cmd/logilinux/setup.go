package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter layout config",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; edit it instead", path)
	}

	starter := &config.Config{
		Keys: []config.KeyConfig{
			{Key: 0, Visual: config.Visual{Color: "#1f6feb"}},
			{Key: 1, Visual: config.Visual{Color: "#2da44e"}},
			{Key: 2, Visual: config.Visual{Color: "#cf222e"}},
		},
	}
	if err := config.WriteConfigFile(starter); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit it to assign images, colors, or GIFs, then run 'logilinux daemon'.")
	return nil
}
