// Package gifdec decodes GIF animations into JPEG frame sequences sized for
// an animation target.
package gifdec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"os"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/GarThor/logilinux/internal/animation"
)

const jpegQuality = 85

// defaultDelay substitutes for the zero delay many GIFs carry, which players
// conventionally render at around 10 fps.
const defaultDelay = 100 * time.Millisecond

// Decode renders every frame of a GIF at width x height and encodes it as
// JPEG. Frames are composed onto a shared canvas so GIFs with partial-frame
// updates display correctly. The returned flag reports whether the GIF asks
// to loop forever.
func Decode(data []byte, width, height int) ([]animation.Frame, bool, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decoding gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, false, errors.New("gif has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]animation.Frame, 0, len(g.Image))
	for i, src := range g.Image {
		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), canvas, bounds, xdraw.Src, nil)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, false, fmt.Errorf("encoding frame %d: %w", i, err)
		}

		delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if delay <= 0 {
			delay = defaultDelay
		}
		frames = append(frames, animation.Frame{JPEG: buf.Bytes(), Delay: delay})
	}

	return frames, g.LoopCount == 0, nil
}

// DecodeFile is Decode for a GIF on disk.
func DecodeFile(path string, width, height int) ([]animation.Frame, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data, width, height)
}
