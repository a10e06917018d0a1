package protocol

import (
	"encoding/binary"
	"fmt"
)

// ReportPlan is the ordered, non-empty sequence of fixed-size reports making
// up one image transfer. Every report is exactly ReportSize bytes.
type ReportPlan [][]byte

// TotalSize returns the number of bytes the plan puts on the wire.
func (p ReportPlan) TotalSize() int {
	return len(p) * ReportSize
}

// controlByte packs the 1-based part index into the low five bits together
// with a constant framing bit. Bit 7 marks the first report of a transfer,
// bit 6 the last; a single-report transfer carries both.
func controlByte(part int, first, last bool) byte {
	b := byte(part&0x1f) | 0x20
	if first {
		b |= 0x80
	}
	if last {
		b |= 0x40
	}
	return b
}

// EncodeImage splits an encoded image payload into a ReportPlan targeting
// rect. The first report carries the 20-byte geometry header; remaining
// payload is spread over continuation reports with 5-byte headers. All
// reports are zero-padded to ReportSize, which the device requires.
func EncodeImage(rect Rectangle, payload []byte) (ReportPlan, error) {
	if rect.X < 0 || rect.Y < 0 || rect.Width < 0 || rect.Height < 0 ||
		rect.X > 0xffff || rect.Y > 0xffff || rect.Width > 0xffff || rect.Height > 0xffff {
		return nil, fmt.Errorf("rectangle %dx%d@%d,%d outside 16-bit field range",
			rect.Width, rect.Height, rect.X, rect.Y)
	}
	if len(payload) > 0xffff {
		return nil, fmt.Errorf("payload of %d bytes exceeds 16-bit length field", len(payload))
	}

	first := make([]byte, ReportSize)
	copy(first, reportTag[:])
	copy(first[5:], geometryMarker[:])
	binary.BigEndian.PutUint16(first[9:], uint16(rect.X))
	binary.BigEndian.PutUint16(first[11:], uint16(rect.Y))
	binary.BigEndian.PutUint16(first[13:], uint16(rect.Width))
	binary.BigEndian.PutUint16(first[15:], uint16(rect.Height))
	// first[17] is reserved and stays zero.
	binary.BigEndian.PutUint16(first[18:], uint16(len(payload)))

	n := copy(first[FirstHeaderSize:], payload)
	first[4] = controlByte(1, true, n == len(payload))

	plan := ReportPlan{first}
	remaining := payload[n:]
	for part := 2; len(remaining) > 0; part++ {
		report := make([]byte, ReportSize)
		copy(report, reportTag[:])
		n := copy(report[ContHeaderSize:], remaining)
		remaining = remaining[n:]
		report[4] = controlByte(part, false, len(remaining) == 0)
		plan = append(plan, report)
	}
	return plan, nil
}
