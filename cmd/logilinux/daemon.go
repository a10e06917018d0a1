package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GarThor/logilinux/internal/config"
	"github.com/GarThor/logilinux/internal/device"
	"github.com/GarThor/logilinux/internal/imaging"
	"github.com/GarThor/logilinux/internal/protocol"
)

var daemonConfig string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Apply the configured layout and log input until interrupted",
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVarP(&daemonConfig, "config", "c", "", "layout file (default: "+config.DefaultConfigPath()+")")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(daemonConfig)
	if err != nil {
		return err
	}

	k, err := openKeypad()
	if err != nil {
		return err
	}
	defer k.Close()

	log.Info().Str("path", k.Info().Path).Str("name", k.Info().Name).Msg("keypad connected")

	if err := applyLayout(k, cfg); err != nil {
		return err
	}

	k.SetEventCallback(func(ev protocol.Event) {
		log.Info().
			Uint8("code", ev.Code).
			Bool("pressed", ev.Pressed).
			Bool("nav", ev.IsNav()).
			Msg("button event")
	})
	if err := k.StartMonitoring(); err != nil {
		return err
	}

	log.Info().Msg("daemon running, press Ctrl+C to exit")
	waitForInterrupt()
	log.Info().Msg("shutting down")
	return nil
}

func applyLayout(k *device.Keypad, cfg *config.Config) error {
	if cfg.Screen != nil {
		if err := applyScreenVisual(k, cfg.Screen); err != nil {
			return fmt.Errorf("screen: %w", err)
		}
	}
	for _, kc := range cfg.Keys {
		if err := applyKeyVisual(k, kc.Key, &kc.Visual); err != nil {
			return fmt.Errorf("key %d: %w", kc.Key, err)
		}
		log.Debug().Int("key", kc.Key).Msg("layout applied")
	}
	return nil
}

func applyScreenVisual(k *device.Keypad, v *config.Visual) error {
	switch {
	case v.GIF != "":
		return k.PlayScreenGIFFile(v.GIF, v.ShouldLoop())
	case v.Color != "":
		c, err := imaging.ParseHexColor(v.Color)
		if err != nil {
			return err
		}
		return k.SetScreenColor(c)
	default:
		return k.SetScreenImageFile(v.Image)
	}
}

func applyKeyVisual(k *device.Keypad, key int, v *config.Visual) error {
	switch {
	case v.GIF != "":
		return k.PlayKeyGIFFile(key, v.GIF, v.ShouldLoop())
	case v.Color != "":
		c, err := imaging.ParseHexColor(v.Color)
		if err != nil {
			return err
		}
		return k.SetKeyColor(key, c)
	default:
		return k.SetKeyImageFile(key, v.Image)
	}
}
