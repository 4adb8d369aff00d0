//go:build linux

package uinput

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Backend injects keyboard reports into the host through a uinput virtual
// keyboard.
type Backend struct {
	fd  *os.File
	log *zerolog.Logger

	stateLock sync.Mutex
	modifier  byte
	keys      []byte
	consumer  int
	system    int
}

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "uinput").Logger()

// evdev/uinput constants
const (
	UI_DEV_CREATE  = 0x5501
	UI_DEV_DESTROY = 0x5502
	UI_SET_EVBIT   = 0x40045564
	UI_SET_KEYBIT  = 0x40045565

	EV_SYN = 0x00
	EV_KEY = 0x01

	SYN_REPORT = 0

	BUS_USB = 0x03
)

const uinputPath = "/dev/uinput"

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev is the legacy struct uinput_user_dev written before UI_DEV_CREATE.
type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// NewBackend creates and registers a virtual keyboard named name.
func NewBackend(name string, logger *zerolog.Logger) (*Backend, error) {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	u := &Backend{log: logger}

	f, err := os.OpenFile(uinputPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w. Ensure 'modprobe uinput' and permissions", uinputPath, err)
	}
	u.fd = f

	if err := u.ioctl(UI_SET_EVBIT, EV_KEY); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("ioctl UI_SET_EVBIT EV_KEY failed: %w", err)
	}
	for _, tbl := range []map[byte]int{hidToLinux, hidModifierToLinux} {
		for _, code := range tbl {
			_ = u.ioctl(UI_SET_KEYBIT, uint64(code))
		}
	}
	for _, tbl := range []map[uint16]int{consumerToLinux, systemToLinux} {
		for _, code := range tbl {
			_ = u.ioctl(UI_SET_KEYBIT, uint64(code))
		}
	}

	dev := uinputUserDev{ID: inputID{Bustype: BUS_USB, Vendor: 0x0430, Product: 0x0003, Version: 1}}
	copy(dev.Name[:len(dev.Name)-1], name)
	if err := binary.Write(f, binary.NativeEndian, &dev); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write uinput device setup failed: %w", err)
	}

	if err := u.ioctl(UI_DEV_CREATE, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("ioctl UI_DEV_CREATE failed: %w", err)
	}
	u.log.Info().Str("name", name).Msg("uinput keyboard created")

	return u, nil
}

func (u *Backend) Close() error {
	if u.fd != nil {
		_ = u.ioctl(UI_DEV_DESTROY, 0)
		err := u.fd.Close()
		u.fd = nil
		return err
	}
	return nil
}

func (u *Backend) ioctl(request uintptr, arg uint64) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, u.fd.Fd(), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (u *Backend) writeEvent(typ, code uint16, val int32) error {
	ev := inputEvent{
		Type:  typ,
		Code:  code,
		Value: val,
	}
	return binary.Write(u.fd, binary.NativeEndian, &ev)
}

func (u *Backend) sync() error {
	return u.writeEvent(EV_SYN, SYN_REPORT, 0)
}

func (u *Backend) key(code int, press bool) error {
	val := int32(0)
	if press {
		val = 1
	}
	return u.writeEvent(EV_KEY, uint16(code), val)
}

// KeyboardReport applies a boot keyboard report, emitting only the key
// transitions since the previous report.
func (u *Backend) KeyboardReport(modifier byte, keys []byte) error {
	u.stateLock.Lock()
	defer u.stateLock.Unlock()

	changes := diffReport(u.modifier, u.keys, modifier, keys)
	for _, c := range changes {
		if err := u.key(c.Code, c.Press); err != nil {
			return fmt.Errorf("write key %d: %w", c.Code, err)
		}
	}
	if len(changes) > 0 {
		if err := u.sync(); err != nil {
			return err
		}
	}
	u.log.Trace().Uint8("modifier", modifier).Hex("keys", keys).Int("events", len(changes)).Msg("keyboard report")

	u.modifier = modifier
	u.keys = append(u.keys[:0], keys...)
	return nil
}

// ConsumerReport holds the consumer usage, or releases it when usage is 0.
func (u *Backend) ConsumerReport(usage uint16) error {
	code, ok := LinuxConsumerKey(usage)
	if usage != 0 && !ok {
		u.log.Debug().Uint16("usage", usage).Msg("unmapped consumer usage")
		return nil
	}
	u.stateLock.Lock()
	defer u.stateLock.Unlock()
	return u.swapHeld(&u.consumer, code)
}

// SystemReport is ConsumerReport for system control usages.
func (u *Backend) SystemReport(usage uint16) error {
	code, ok := LinuxSystemKey(usage)
	if usage != 0 && !ok {
		u.log.Debug().Uint16("usage", usage).Msg("unmapped system usage")
		return nil
	}
	u.stateLock.Lock()
	defer u.stateLock.Unlock()
	return u.swapHeld(&u.system, code)
}

func (u *Backend) swapHeld(held *int, code int) error {
	if *held == code {
		return nil
	}
	if *held != 0 {
		if err := u.key(*held, false); err != nil {
			return err
		}
	}
	if code != 0 {
		if err := u.key(code, true); err != nil {
			return err
		}
	}
	*held = code
	return u.sync()
}
