package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/hidraw"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected MX Creative Keypads",
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices := hidraw.Enumerate()
	if len(devices) == 0 {
		fmt.Println("No keypads found.")
		return nil
	}

	for _, d := range devices {
		fmt.Printf("%s  %04x:%04x  %s\n", d.Path, d.Vendor, d.Product, d.Name)
	}
	return nil
}
