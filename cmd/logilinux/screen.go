package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var screenNoLoop bool

var screenCmd = &cobra.Command{
	Use:   "screen FILE",
	Short: "Paint or animate the full 434x434 screen",
	Long: `Paint the whole screen from an image file. GIF files animate until
interrupted; other formats paint once and exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().BoolVar(&screenNoLoop, "no-loop", false, "play a GIF once instead of looping")
}

func runScreen(cmd *cobra.Command, args []string) error {
	path := args[0]

	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	if strings.EqualFold(filepath.Ext(path), ".gif") {
		if err := k.PlayScreenGIFFile(path, !screenNoLoop); err != nil {
			return err
		}
		fmt.Println("Animating. Press Ctrl+C to stop.")
		waitForInterrupt()
		return nil
	}

	return k.SetScreenImageFile(path)
}
