package hidraw

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// ErrNoDevice is returned when enumeration finds no matching keypad.
var ErrNoDevice = errors.New("hidraw: no keypad device found")

// USB identity of the MX Creative Keypad.
const (
	VendorLogitech  = 0x046d
	ProductMXKeypad = 0xc354
)

// DeviceInfo describes one enumerated hidraw node. It is immutable once
// returned.
type DeviceInfo struct {
	Path    string
	Name    string
	Vendor  uint16
	Product uint16
}

// ioctl numbers from linux/hidraw.h: HIDIOCGRAWINFO reads struct
// hidraw_devinfo, HIDIOCGRAWNAME sized for a 128-byte name buffer.
const (
	hidiocgrawinfo = 0x80084803
	hidiocgrawname = 0x80804804

	rawNameLen = 128
	maxNodes   = 64
)

// hidraw_devinfo layout: bustype u32, vendor s16, product s16.
type rawDevInfo struct {
	Bustype uint32
	Vendor  int16
	Product int16
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Info queries the kernel for the identity of the hidraw node at path.
func Info(path string) (DeviceInfo, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer unix.Close(fd)

	var ri rawDevInfo
	if err := ioctl(fd, hidiocgrawinfo, unsafe.Pointer(&ri)); err != nil {
		return DeviceInfo{}, fmt.Errorf("querying %s: %w", path, err)
	}

	info := DeviceInfo{
		Path:    path,
		Vendor:  uint16(ri.Vendor),
		Product: uint16(ri.Product),
	}

	// Name is best-effort; some drivers report none.
	name := make([]byte, rawNameLen)
	if err := ioctl(fd, hidiocgrawname, unsafe.Pointer(&name[0])); err == nil {
		info.Name = nulString(name)
	}
	return info, nil
}

func nulString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Enumerate scans the hidraw nodes for connected keypads.
func Enumerate() []DeviceInfo {
	var found []DeviceInfo
	for i := 0; i < maxNodes; i++ {
		path := fmt.Sprintf("/dev/hidraw%d", i)
		info, err := Info(path)
		if err != nil {
			continue
		}
		if info.Vendor == VendorLogitech && info.Product == ProductMXKeypad {
			log.Debug().Str("path", path).Str("name", info.Name).Msg("found keypad node")
			found = append(found, info)
		}
	}
	return found
}

// FindFirst returns the first connected keypad, or ErrNoDevice.
func FindFirst() (DeviceInfo, error) {
	devices := Enumerate()
	if len(devices) == 0 {
		return DeviceInfo{}, ErrNoDevice
	}
	return devices[0], nil
}
