package gifdec

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeGIF builds a two-frame 8x8 GIF with the given loop count and frame
// delays in hundredths of a second.
func makeGIF(t *testing.T, loopCount int, delays ...int) []byte {
	t.Helper()

	palette := color.Palette{color.Black, color.White, color.RGBA{R: 255, A: 255}}
	g := &gif.GIF{LoopCount: loopCount, Config: image.Config{Width: 8, Height: 8}}
	for i, delay := range delays {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for p := range frame.Pix {
			frame.Pix[p] = uint8(1 + i%2)
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

func TestDecodeFrames(t *testing.T) {
	t.Parallel()

	frames, loop, err := Decode(makeGIF(t, 0, 5, 20), 118, 118)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.True(t, loop)

	assert.Equal(t, 50*time.Millisecond, frames[0].Delay)
	assert.Equal(t, 200*time.Millisecond, frames[1].Delay)

	for _, f := range frames {
		img, err := jpeg.Decode(bytes.NewReader(f.JPEG))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 118, 118), img.Bounds())
	}
}

func TestDecodeZeroDelayGetsDefault(t *testing.T) {
	t.Parallel()

	frames, _, err := Decode(makeGIF(t, 0, 0), 32, 32)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, defaultDelay, frames[0].Delay)
}

func TestDecodeNoLoop(t *testing.T) {
	t.Parallel()

	// LoopCount -1 means play once.
	_, loop, err := Decode(makeGIF(t, -1, 10), 32, 32)
	require.NoError(t, err)
	assert.False(t, loop)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := Decode([]byte("not a gif"), 118, 118)
	assert.Error(t, err)
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "anim.gif")
	require.NoError(t, os.WriteFile(path, makeGIF(t, 0, 10, 10), 0o644))

	frames, loop, err := DecodeFile(path, 434, 434)
	require.NoError(t, err)
	assert.Len(t, frames, 2)
	assert.True(t, loop)

	_, _, err = DecodeFile(filepath.Join(t.TempDir(), "missing.gif"), 118, 118)
	assert.Error(t, err)
}
