package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/protocol"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print button events until interrupted",
	RunE:  runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	k.SetEventCallback(func(ev protocol.Event) {
		action := "released"
		if ev.Pressed {
			action = "pressed"
		}
		switch {
		case ev.IsNav():
			name := "page-1"
			if ev.Code == protocol.NavP2 {
				name = "page-2"
			}
			fmt.Printf("%s  nav %s %s\n", ev.Time.Format("15:04:05.000"), name, action)
		default:
			fmt.Printf("%s  key %d %s\n", ev.Time.Format("15:04:05.000"), ev.Code, action)
		}
	})
	if err := k.StartMonitoring(); err != nil {
		return err
	}

	fmt.Println("Monitoring input. Press Ctrl+C to exit.")
	waitForInterrupt()
	return nil
}
