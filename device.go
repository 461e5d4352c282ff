package romemu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
)

// State is the programming state of the emulator.
type State int

const (
	// StateIdle means no image is being served. The DUT may be held in
	// reset if a previous load failed.
	StateIdle State = iota

	// StateProgramming means reset is asserted and the latches are driving
	// the SRAM bus while an image is written.
	StateProgramming

	// StateServing means the latches are Hi-Z, reset is released, and the
	// DUT has exclusive electrical access to the SRAM.
	StateServing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProgramming:
		return "programming"
	case StateServing:
		return "serving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LatchMode is the logical state of the octal latches, applied across all
// address and data latches together.
type LatchMode int

const (
	// ModeHiZ disconnects the latch outputs from the bus.
	ModeHiZ LatchMode = iota

	// ModeDrive puts the latch outputs on the bus for programming.
	ModeDrive
)

func (m LatchMode) String() string {
	switch m {
	case ModeHiZ:
		return "Hi-Z"
	case ModeDrive:
		return "drive"
	default:
		return fmt.Sprintf("LatchMode(%d)", int(m))
	}
}

// Device is the emulator board: SRAM behind octal latches, a write strobe,
// and an active-low reset line to the DUT socket.
type Device struct {
	pins Pins
	pr   *sramParams

	resetHold time.Duration // overrides pr.tResetHold when non-zero
	logger    Logger

	mu            sync.Mutex
	state         State
	mode          LatchMode
	resetAsserted bool
}

var hostInitialized atomic.Bool

// NewDevice opens the GPIO pins of the reference PCB wiring and prepares the
// board with the latches disabled and the DUT running.
func NewDevice(opts ...Option) (*Device, error) {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	pins, err := openPins(cfg.pinNames)
	if err != nil {
		return nil, err
	}
	return newDevice(pins, cfg)
}

// NewDeviceFromPins builds a Device on caller-supplied pins. Intended for
// boards wired differently from the reference PCB and for tests.
func NewDeviceFromPins(pins Pins, opts ...Option) (*Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newDevice(pins, cfg)
}

func newDevice(pins Pins, cfg config) (*Device, error) {
	pr, ok := knownSRAM[cfg.sram]
	if !ok {
		return nil, fmt.Errorf("unknown SRAM part %q", cfg.sram)
	}

	d := &Device{
		pins:      pins,
		pr:        &pr,
		resetHold: cfg.resetHold,
		logger:    cfg.logger,
	}
	if err := d.initPins(); err != nil {
		return nil, fmt.Errorf("pin initialization failed: %w", err)
	}
	return d, nil
}

// initPins puts every line in its quiescent state: SRAM deselected, strobes
// inactive, latch outputs disabled, reset released.
func (d *Device) initPins() error {
	for _, p := range []gpio.PinIO{d.pins.WE, d.pins.OE, d.pins.CS} {
		if err := p.Out(gpio.High); err != nil {
			return err
		}
	}
	for _, p := range []gpio.PinIO{d.pins.AddrLow, d.pins.AddrHigh, d.pins.Data} {
		if err := p.Out(gpio.Low); err != nil {
			return err
		}
	}
	// Start with reset released: whatever the SRAM holds belongs to the DUT.
	if err := d.pins.Reset.Out(gpio.High); err != nil {
		return err
	}
	if err := d.writeBus(0); err != nil {
		return err
	}
	return d.pins.OutEnable.Out(gpio.High)
}

// State returns the current programming state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Mode returns the current latch mode.
func (d *Device) Mode() LatchMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// ResetAsserted reports whether the DUT reset line is held low.
func (d *Device) ResetAsserted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resetAsserted
}

// Capacity returns the SRAM size in bytes.
func (d *Device) Capacity() int {
	return d.pr.size
}

// SRAM returns the name of the configured SRAM part.
func (d *Device) SRAM() string {
	return d.pr.name
}

// AssertReset drives RSTb low and holds it for the part's settle time.
func (d *Device) AssertReset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.assertReset()
}

func (d *Device) assertReset() error {
	if err := d.pins.Reset.Out(gpio.Low); err != nil {
		return err
	}
	d.resetAsserted = true
	d.sleep(d.tResetHold())
	return nil
}

// ReleaseReset drives RSTb high, handing the bus to the DUT. The latches
// must be Hi-Z first.
func (d *Device) ReleaseReset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == ModeDrive {
		return &LatchFaultError{Mode: d.mode, Reason: "reset release requires latches Hi-Z"}
	}
	return d.releaseReset()
}

func (d *Device) releaseReset() error {
	if err := d.pins.Reset.Out(gpio.High); err != nil {
		return err
	}
	d.resetAsserted = false
	d.sleep(d.tResetHold())
	return nil
}

// SetLatchMode switches the latches between Drive and Hi-Z. Either
// transition requires reset to be asserted so the DUT never sees a
// transient bus state.
func (d *Device) SetLatchMode(m LatchMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setLatchMode(m)
}

func (d *Device) setLatchMode(m LatchMode) error {
	if m == d.mode {
		return nil
	}
	if !d.resetAsserted {
		return &LatchFaultError{Mode: d.mode, Reason: "latch transition requires reset asserted"}
	}

	switch m {
	case ModeDrive:
		if err := d.pins.CS.Out(gpio.Low); err != nil {
			return err
		}
		if err := d.pins.OutEnable.Out(gpio.Low); err != nil {
			return err
		}
	case ModeHiZ:
		// Deselect the SRAM before the latch outputs float.
		if err := d.pins.CS.Out(gpio.High); err != nil {
			return err
		}
		if err := d.pins.OutEnable.Out(gpio.High); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown latch mode %d", int(m))
	}
	d.mode = m
	return nil
}

// Load programs image into the SRAM starting at startAddr and hands the
// array to the DUT: assert reset, drive the latches, write every byte,
// Hi-Z the latches, release reset. On any failure the latches are forced
// Hi-Z and reset stays asserted so the DUT never sees a partial image.
//
// A second Load while one is in progress fails with ErrBusy.
func (d *Device) Load(image []byte, startAddr uint16) error {
	if !d.mu.TryLock() {
		return ErrBusy
	}
	defer d.mu.Unlock()

	if len(image) == 0 {
		return &TransferError{Op: "load", Err: errEmptyImage}
	}
	if end := int(startAddr) + len(image); end > d.pr.size {
		return &OversizeImageError{Size: len(image), StartAddr: startAddr, Capacity: d.pr.size}
	}

	d.state = StateProgramming
	start := time.Now()
	if err := d.program(image, startAddr); err != nil {
		d.failSafe()
		return err
	}
	d.state = StateServing

	d.logInfo("image loaded",
		"bytes", len(image),
		"start", fmt.Sprintf("0x%04X", startAddr),
		"elapsed", time.Since(start).String(),
	)
	return nil
}

func (d *Device) program(image []byte, startAddr uint16) error {
	if err := d.assertReset(); err != nil {
		return err
	}
	if err := d.setLatchMode(ModeDrive); err != nil {
		return err
	}
	for i, b := range image {
		if err := d.writeRAM(startAddr+uint16(i), b); err != nil {
			return err
		}
	}
	if err := d.setLatchMode(ModeHiZ); err != nil {
		return err
	}
	return d.releaseReset()
}

// FailSafe asserts reset and forces the latches to Hi-Z, leaving the device
// Idle. Called after a failed transfer so a partially received or partially
// written image is never exposed to the DUT.
func (d *Device) FailSafe() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failSafe()
}

func (d *Device) failSafe() error {
	err := d.pins.CS.Out(gpio.High)
	if e := d.pins.OutEnable.Out(gpio.High); err == nil {
		err = e
	}
	if e := d.pins.Reset.Out(gpio.Low); err == nil {
		err = e
	}
	d.mode = ModeHiZ
	d.resetAsserted = true
	d.state = StateIdle
	return err
}

// writeBus puts a byte on the XDA pins, LSB on Bus[0].
func (d *Device) writeBus(b byte) error {
	for i, p := range d.pins.Bus {
		if err := p.Out(gpio.Level(b>>i&1 == 1)); err != nil {
			return err
		}
	}
	return nil
}

// pulse clocks a latch: the '573 is transparent while the clock is high and
// holds on the falling edge.
func (d *Device) pulse(p gpio.PinIO) error {
	if err := p.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(d.tPulse())
	return p.Out(gpio.Low)
}

// writeRAM latches the address and data onto the bus and pulses WEb.
// [AS6C62256|Write Cycle 1]: the write commits on the rising edge of WEb
// with CSb low.
func (d *Device) writeRAM(addr uint16, data byte) error {
	if d.mode != ModeDrive {
		return &LatchFaultError{Mode: d.mode, Reason: "SRAM write requires drive mode"}
	}

	if err := d.writeBus(byte(addr >> 8)); err != nil {
		return err
	}
	if err := d.pulse(d.pins.AddrHigh); err != nil {
		return err
	}
	if err := d.writeBus(byte(addr)); err != nil {
		return err
	}
	if err := d.pulse(d.pins.AddrLow); err != nil {
		return err
	}
	if err := d.writeBus(data); err != nil {
		return err
	}
	if err := d.pulse(d.pins.Data); err != nil {
		return err
	}

	if err := d.pins.WE.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(d.tPulse())
	return d.pins.WE.Out(gpio.High)
}

func (d *Device) sleep(t time.Duration) {
	if t > 0 {
		time.Sleep(t)
	}
}
