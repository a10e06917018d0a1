package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/protocol"
)

var (
	gifAll    bool
	gifNoLoop bool
)

var gifCmd = &cobra.Command{
	Use:   "gif KEY FILE",
	Short: "Animate a GIF on a key until interrupted",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGIF,
}

func init() {
	gifCmd.Flags().BoolVar(&gifAll, "all", false, "animate every key (omit KEY)")
	gifCmd.Flags().BoolVar(&gifNoLoop, "no-loop", false, "play the GIF once instead of looping")
}

func runGIF(cmd *cobra.Command, args []string) error {
	key, path, err := parseKeyArgs(args, gifAll)
	if err != nil {
		return err
	}

	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	loop := !gifNoLoop
	if gifAll {
		for key := 0; key < protocol.KeyCount; key++ {
			if err := k.PlayKeyGIFFile(key, path, loop); err != nil {
				return err
			}
		}
	} else if err := k.PlayKeyGIFFile(key, path, loop); err != nil {
		return err
	}

	fmt.Println("Animating. Press Ctrl+C to stop.")
	waitForInterrupt()
	return nil
}
