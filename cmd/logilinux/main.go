// Command logilinux drives the Logitech MX Creative Keypad from the shell:
// one-shot painting commands, an input monitor, and a config-driven daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/device"
	"github.com/GarThor/logilinux/internal/hidraw"
)

var (
	flagDevice string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:          "logilinux",
	Short:        "Control the Logitech MX Creative Keypad",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if flagDebug {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "", "hidraw node path (default: first matching keypad)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(gifCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(setupCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openKeypad opens the keypad named by --device, or the first one found, and
// runs the vendor handshake. The caller owns the returned device.
func openKeypad() (*device.Keypad, error) {
	var info hidraw.DeviceInfo
	var err error
	if flagDevice != "" {
		info, err = hidraw.Info(flagDevice)
	} else {
		info, err = hidraw.FindFirst()
	}
	if err != nil {
		return nil, err
	}

	k, err := device.Open(info)
	if err != nil {
		return nil, err
	}
	if err := k.Initialize(); err != nil {
		k.Close()
		return nil, fmt.Errorf("initializing %s: %w", info.Path, err)
	}
	return k, nil
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	signal.Stop(sigChan)
}
