// Package protocol implements the MX Keypad wire protocol: chunked outbound
// image-transfer reports and decoding of inbound button reports.
package protocol

const (
	// ReportSize is the fixed size of every outbound report. Shorter writes
	// are rejected by the device, so reports are always zero-padded out to
	// this length.
	ReportSize = 4095

	// FirstHeaderSize is the header length of the leading report in a
	// transfer; ContHeaderSize is the header length of every continuation.
	FirstHeaderSize = 20
	ContHeaderSize  = 5

	// MaxInputReport caps inbound report reads. Both inbound report shapes
	// fit well under this.
	MaxInputReport = 256

	// KeyCount is the number of LCD-backed grid keys.
	KeyCount = 9

	// The LCD panel behind the 3x3 grid is addressed as a single 434x434
	// surface. Keys are 118x118 cells separated by 40px gaps, with the
	// top-left key at (23, 6).
	ScreenWidth  = 434
	ScreenHeight = 434
	KeySize      = 118
	GapSize      = 40
	OriginX      = 23
	OriginY      = 6
)

var (
	// reportTag opens every outbound report.
	reportTag = [4]byte{0x14, 0xff, 0x02, 0x2b}

	// geometryMarker sits between the control byte and the rectangle fields
	// of a first report.
	geometryMarker = [6]byte{0x01, 0x00, 0x01, 0x00, 0x00, 0x00}
)

// Rectangle is a target region on the logical screen.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// KeyRect returns the screen rectangle for grid key k (0-8, row-major).
func KeyRect(k int) Rectangle {
	row := k / 3
	col := k % 3
	return Rectangle{
		X:      OriginX + col*(KeySize+GapSize),
		Y:      OriginY + row*(KeySize+GapSize),
		Width:  KeySize,
		Height: KeySize,
	}
}

// ScreenRect returns the full-screen rectangle covering all nine keys and
// the gaps between them.
func ScreenRect() Rectangle {
	return Rectangle{X: OriginX, Y: OriginY, Width: ScreenWidth, Height: ScreenHeight}
}

// ValidKey reports whether k is a grid key index.
func ValidKey(k int) bool {
	return k >= 0 && k < KeyCount
}
