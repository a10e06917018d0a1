package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/protocol"
)

var imageAll bool

var imageCmd = &cobra.Command{
	Use:   "image KEY FILE",
	Short: "Paint a still image (PNG, JPEG, GIF, SVG) onto a key",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runImage,
}

func init() {
	imageCmd.Flags().BoolVar(&imageAll, "all", false, "paint every key (omit KEY)")
}

// parseKeyArgs resolves the "KEY FILE" vs "--all FILE" argument shapes shared
// by the image, color, and gif commands.
func parseKeyArgs(args []string, all bool) (key int, value string, err error) {
	if all {
		if len(args) != 1 {
			return 0, "", fmt.Errorf("with --all, pass only the file or color argument")
		}
		return 0, args[0], nil
	}
	if len(args) != 2 {
		return 0, "", fmt.Errorf("expected KEY and a file or color argument")
	}
	key, err = strconv.Atoi(args[0])
	if err != nil || !protocol.ValidKey(key) {
		return 0, "", fmt.Errorf("key must be 0-%d", protocol.KeyCount-1)
	}
	return key, args[1], nil
}

func runImage(cmd *cobra.Command, args []string) error {
	key, path, err := parseKeyArgs(args, imageAll)
	if err != nil {
		return err
	}

	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	if imageAll {
		for key := 0; key < protocol.KeyCount; key++ {
			if err := k.SetKeyImageFile(key, path); err != nil {
				return err
			}
		}
		return nil
	}
	return k.SetKeyImageFile(key, path)
}
