package main

import (
	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/imaging"
	"github.com/GarThor/logilinux/internal/protocol"
)

var colorAll bool

var colorCmd = &cobra.Command{
	Use:   "color KEY RRGGBB",
	Short: "Fill a key with a solid color",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runColor,
}

func init() {
	colorCmd.Flags().BoolVar(&colorAll, "all", false, "fill every key (omit KEY)")
}

func runColor(cmd *cobra.Command, args []string) error {
	key, hex, err := parseKeyArgs(args, colorAll)
	if err != nil {
		return err
	}
	c, err := imaging.ParseHexColor(hex)
	if err != nil {
		return err
	}

	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	if colorAll {
		for key := 0; key < protocol.KeyCount; key++ {
			if err := k.SetKeyColor(key, c); err != nil {
				return err
			}
		}
		return nil
	}
	return k.SetKeyColor(key, c)
}
