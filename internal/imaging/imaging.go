// Package imaging prepares still images for the keypad LCD: loading from
// disk, SVG rasterization, solid-color fills, and scale-to-target JPEG
// encoding. The device only ever consumes the JPEG output.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

const jpegQuality = 85

// Load reads a still image from disk. PNG, JPEG, and GIF (first frame)
// decode through their registered formats; SVG files are rasterized at
// size px square.
func Load(path string, size int) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return RenderSVGFile(path, size)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// RenderSVG rasterizes SVG markup at size x size over a transparent
// background.
func RenderSVG(svg string, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	return rasterize(icon, size), nil
}

// RenderSVGFile is RenderSVG for a file on disk.
func RenderSVGFile(path string, size int) (image.Image, error) {
	icon, err := oksvg.ReadIcon(path)
	if err != nil {
		return nil, fmt.Errorf("parsing svg %s: %w", path, err)
	}
	return rasterize(icon, size), nil
}

func rasterize(icon *oksvg.SvgIcon, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img
}

// Solid returns a uniformly colored image.
func Solid(c color.Color, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// ParseHexColor parses an rrggbb color with or without a leading '#'.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q is not rrggbb hex", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not rrggbb hex", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FitJPEG scales img to width x height and encodes it as JPEG, the payload
// format the keypad accepts.
func FitJPEG(img image.Image, width, height int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// SolidJPEG encodes a uniform color fill at width x height.
func SolidJPEG(c color.Color, width, height int) ([]byte, error) {
	return FitJPEG(Solid(c, width, height), width, height)
}
