package romemu

import "time"

type config struct {
	pinNames  PinConfig
	sram      string
	resetHold time.Duration
	logger    Logger
}

func defaultConfig() config {
	return config{
		pinNames: DefaultPinConfig(),
		sram:     DefaultSRAM,
	}
}

// Option is a functional option for configuring a Device.
type Option func(*config)

// WithPinConfig selects a pin assignment other than the reference PCB
// wiring. Only meaningful with NewDevice.
func WithPinConfig(pc PinConfig) Option {
	return func(c *config) {
		c.pinNames = pc
	}
}

// WithSRAM selects the SRAM part fitted on the board. See SRAMParts for the
// supported part numbers.
func WithSRAM(name string) Option {
	return func(c *config) {
		c.sram = name
	}
}

// WithResetHold overrides the reset settle time, for DUTs with reset
// pulse-width requirements longer than the SRAM part default.
func WithResetHold(t time.Duration) Option {
	return func(c *config) {
		if t > 0 {
			c.resetHold = t
		}
	}
}

// WithLogger sets a logger for device operations.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
