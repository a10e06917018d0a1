// Package hidraw owns raw hidraw device handles: opening nodes, vectored
// report writes, poll-bounded reads, and enumeration by USB identity.
package hidraw

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// ErrShortWrite is returned when a transfer puts fewer bytes on the wire
// than the plan required. The device discards incomplete transfers, so a
// partial write is indistinguishable from a failed one.
var ErrShortWrite = errors.New("hidraw: short report write")

// Handle is an exclusively owned communication channel to one hidraw node.
// Sends are serialized by an internal mutex; interleaving two image
// transfers on the wire corrupts both.
type Handle struct {
	mu   sync.Mutex
	fd   int
	path string
}

// Open opens the hidraw node at path for read/write.
func Open(path string) (*Handle, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Handle{fd: fd, path: path}, nil
}

// OpenReadOnly opens the node non-blocking for input reports only. The
// monitor loop uses a separate read handle so inbound polling never contends
// with image transfers.
func OpenReadOnly(path string) (*Handle, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Handle{fd: fd, path: path}, nil
}

// Path returns the device node path this handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// Close releases the node. Safe to call twice.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fd < 0 {
		return nil
	}
	err := unix.Close(h.fd)
	h.fd = -1
	return err
}

// Write sends one small report in blocking mode.
func (h *Handle) Write(report []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := unix.Write(h.fd, report)
	if err != nil {
		return fmt.Errorf("writing report to %s: %w", h.path, err)
	}
	if n != len(report) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(report))
	}
	return nil
}

// Send writes every report in plan as one vectored operation. The handle is
// switched to non-blocking mode for the first attempt; if the immediate
// write would block, exactly one blocking retry is made. Success requires
// the total written to equal the plan size exactly; any other outcome,
// including a clean partial write, fails.
func (h *Handle) Send(plan [][]byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	expected := 0
	for _, r := range plan {
		expected += len(r)
	}

	if err := unix.SetNonblock(h.fd, true); err != nil {
		return fmt.Errorf("setting nonblocking mode on %s: %w", h.path, err)
	}
	written, err := unix.Writev(h.fd, plan)
	if serr := unix.SetNonblock(h.fd, false); serr != nil && err == nil {
		err = serr
	}

	if errors.Is(err, unix.EAGAIN) {
		written, err = unix.Writev(h.fd, plan)
	}
	if err != nil {
		return fmt.Errorf("writing %d reports to %s: %w", len(plan), h.path, err)
	}
	if written != expected {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, written, expected)
	}
	return nil
}

// ReadTimeout reads one report into buf, waiting up to timeout for input
// readiness. A timeout or interrupted poll returns (0, nil) so callers can
// re-check their stop condition.
func (h *Handle) ReadTimeout(buf []byte, timeout time.Duration) (int, error) {
	fds := []unix.PollFd{{Fd: int32(h.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("polling %s: %w", h.path, err)
	}
	if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return 0, nil
	}

	nr, err := unix.Read(h.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", h.path, err)
	}
	return nr, nil
}
