// Package device drives the MX Creative Keypad: open/initialize lifecycle,
// key and screen painting, GIF playback, and input monitoring.
package device

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/GarThor/logilinux/internal/animation"
	"github.com/GarThor/logilinux/internal/gifdec"
	"github.com/GarThor/logilinux/internal/hidraw"
	"github.com/GarThor/logilinux/internal/imaging"
	"github.com/GarThor/logilinux/internal/protocol"
)

var (
	// ErrNotInitialized is returned by image operations before the vendor
	// handshake has run.
	ErrNotInitialized = errors.New("device: keypad not initialized")

	// ErrInvalidKey is returned for key indices outside the 3x3 grid.
	ErrInvalidKey = errors.New("device: invalid key index")
)

// Capability is a discrete device feature flag.
type Capability int

const (
	CapButtons Capability = iota
	CapLCDDisplay
	CapImageUpload
)

// initReports is the vendor handshake that switches the keypad into report
// mode for the two navigation buttons. Sent once, 10ms apart, on Initialize.
var initReports = [][]byte{
	{0x11, 0xff, 0x0b, 0x3b, 0x01, 0xa1, 0x03, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x11, 0xff, 0x0b, 0x3b, 0x01, 0xa2, 0x03, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// transport is the write side of the device node.
type transport interface {
	Write(report []byte) error
	Send(plan [][]byte) error
	Close() error
	Path() string
}

// inputSource is the read side, opened separately so inbound polling never
// contends with image transfers.
type inputSource interface {
	ReadTimeout(buf []byte, timeout time.Duration) (int, error)
	Close() error
}

// Keypad is one open MX Creative Keypad. The handle is exclusively owned:
// create with Open, release with Close.
type Keypad struct {
	info  hidraw.DeviceInfo
	caps  []Capability
	clock clockwork.Clock

	handle      transport
	initialized bool

	anims *animation.Controller

	monMu     sync.Mutex
	monStop   chan struct{}
	monDone   chan struct{}
	callback  EventCallback
	openInput func() (inputSource, error)
}

// Open binds a Keypad to the hidraw node described by info.
func Open(info hidraw.DeviceInfo) (*Keypad, error) {
	h, err := hidraw.Open(info.Path)
	if err != nil {
		return nil, err
	}
	openInput := func() (inputSource, error) {
		return hidraw.OpenReadOnly(info.Path)
	}
	return newKeypad(info, h, openInput, clockwork.NewRealClock()), nil
}

func newKeypad(info hidraw.DeviceInfo, h transport, openInput func() (inputSource, error), clock clockwork.Clock) *Keypad {
	k := &Keypad{
		info:      info,
		caps:      []Capability{CapButtons, CapLCDDisplay, CapImageUpload},
		clock:     clock,
		handle:    h,
		openInput: openInput,
	}
	k.anims = animation.New(k, clock)
	return k
}

// Info returns the immutable identity of the device node.
func (k *Keypad) Info() hidraw.DeviceInfo {
	return k.info
}

// HasCapability reports whether the device advertises cap.
func (k *Keypad) HasCapability(cap Capability) bool {
	for _, c := range k.caps {
		if c == cap {
			return true
		}
	}
	return false
}

// Initialize performs the vendor handshake. Image operations fail until it
// has run; calling it again is a no-op.
func (k *Keypad) Initialize() error {
	if k.initialized {
		return nil
	}
	for _, report := range initReports {
		if err := k.handle.Write(report); err != nil {
			return fmt.Errorf("init handshake: %w", err)
		}
		k.clock.Sleep(10 * time.Millisecond)
	}
	k.initialized = true
	log.Info().Str("path", k.info.Path).Msg("keypad initialized")
	return nil
}

// Close stops all animations and monitoring, then releases the node.
// Animation and monitor tasks have fully exited when it returns.
func (k *Keypad) Close() error {
	k.StopAllAnimations()
	k.StopMonitoring()
	return k.handle.Close()
}

// SetRawImage paints a JPEG onto an arbitrary screen rectangle.
func (k *Keypad) SetRawImage(rect protocol.Rectangle, jpeg []byte) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	plan, err := protocol.EncodeImage(rect, jpeg)
	if err != nil {
		return err
	}
	return k.handle.Send(plan)
}

// SetKeyImage paints a JPEG onto one grid key.
func (k *Keypad) SetKeyImage(key int, jpeg []byte) error {
	if !protocol.ValidKey(key) {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return k.SetRawImage(protocol.KeyRect(key), jpeg)
}

// SetScreenImage paints a JPEG across the whole 434x434 surface.
func (k *Keypad) SetScreenImage(jpeg []byte) error {
	return k.SetRawImage(protocol.ScreenRect(), jpeg)
}

// SetKeyImageFile loads a still image (PNG/JPEG/GIF/SVG) and paints it onto
// one grid key at key resolution.
func (k *Keypad) SetKeyImageFile(key int, path string) error {
	img, err := imaging.Load(path, protocol.KeySize)
	if err != nil {
		return err
	}
	data, err := imaging.FitJPEG(img, protocol.KeySize, protocol.KeySize)
	if err != nil {
		return err
	}
	return k.SetKeyImage(key, data)
}

// SetScreenImageFile loads a still image and paints it full-screen.
func (k *Keypad) SetScreenImageFile(path string) error {
	img, err := imaging.Load(path, protocol.ScreenWidth)
	if err != nil {
		return err
	}
	data, err := imaging.FitJPEG(img, protocol.ScreenWidth, protocol.ScreenHeight)
	if err != nil {
		return err
	}
	return k.SetScreenImage(data)
}

// SetKeyColor fills one grid key with a solid color.
func (k *Keypad) SetKeyColor(key int, c color.Color) error {
	data, err := imaging.SolidJPEG(c, protocol.KeySize, protocol.KeySize)
	if err != nil {
		return err
	}
	return k.SetKeyImage(key, data)
}

// SetScreenColor fills the whole screen with a solid color.
func (k *Keypad) SetScreenColor(c color.Color) error {
	data, err := imaging.SolidJPEG(c, protocol.ScreenWidth, protocol.ScreenHeight)
	if err != nil {
		return err
	}
	return k.SetScreenImage(data)
}

// PaintKey and PaintScreen make Keypad the animation controller's Painter.
func (k *Keypad) PaintKey(key int, jpeg []byte) error {
	return k.SetKeyImage(key, jpeg)
}

func (k *Keypad) PaintScreen(jpeg []byte) error {
	return k.SetScreenImage(jpeg)
}

// PlayKeyGIF decodes a GIF at key resolution and starts it on key,
// replacing any animation already running there. The previous animation is
// stopped even if decoding fails.
func (k *Keypad) PlayKeyGIF(key int, data []byte, loop bool) error {
	if !protocol.ValidKey(key) {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if !k.initialized {
		return ErrNotInitialized
	}
	k.anims.StopKey(key)
	frames, _, err := gifdec.Decode(data, protocol.KeySize, protocol.KeySize)
	if err != nil {
		return err
	}
	return k.anims.PlayKey(key, frames, loop)
}

// PlayKeyGIFFile is PlayKeyGIF for a GIF on disk.
func (k *Keypad) PlayKeyGIFFile(key int, path string, loop bool) error {
	if !protocol.ValidKey(key) {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if !k.initialized {
		return ErrNotInitialized
	}
	k.anims.StopKey(key)
	frames, _, err := gifdec.DecodeFile(path, protocol.KeySize, protocol.KeySize)
	if err != nil {
		return err
	}
	return k.anims.PlayKey(key, frames, loop)
}

// PlayScreenGIF decodes a GIF at full-screen resolution and starts it on
// the screen slot. Key animations are unaffected.
func (k *Keypad) PlayScreenGIF(data []byte, loop bool) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	k.anims.StopScreen()
	frames, _, err := gifdec.Decode(data, protocol.ScreenWidth, protocol.ScreenHeight)
	if err != nil {
		return err
	}
	return k.anims.PlayScreen(frames, loop)
}

// PlayScreenGIFFile is PlayScreenGIF for a GIF on disk.
func (k *Keypad) PlayScreenGIFFile(path string, loop bool) error {
	if !k.initialized {
		return ErrNotInitialized
	}
	k.anims.StopScreen()
	frames, _, err := gifdec.DecodeFile(path, protocol.ScreenWidth, protocol.ScreenHeight)
	if err != nil {
		return err
	}
	return k.anims.PlayScreen(frames, loop)
}

// StopKeyAnimation stops and joins the animation on key, if any.
func (k *Keypad) StopKeyAnimation(key int) {
	k.anims.StopKey(key)
}

// StopScreenAnimation stops and joins the full-screen animation, if any.
func (k *Keypad) StopScreenAnimation() {
	k.anims.StopScreen()
}

// StopAllAnimations stops the screen animation, then every key animation.
func (k *Keypad) StopAllAnimations() {
	k.anims.StopAll()
}
