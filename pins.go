package romemu

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PinConfig names the GPIO pins for every board signal. Names are resolved
// through the periph gpio registry.
type PinConfig struct {
	WE string // SRAM write enable, active low
	OE string // SRAM output enable, active low
	CS string // SRAM chip select, active low

	AddrLow  string // LADL: address low latch clock
	AddrHigh string // LADH: address high latch clock
	Data     string // LADD: data latch clock

	Reset     string // RSTb: DUT reset, active low
	OutEnable string // LOEb: latch output enable, active low

	Bus [8]string // XDA0..XDA7 shared address/data bus, LSB first
}

// DefaultPinConfig is the reference PCB wiring.
//
//	GPIO7  | WEb    GPIO10 | LADL   GPIO14 | RSTb
//	GPIO8  | OEb    GPIO11 | LADH   GPIO26 | LOEb
//	GPIO9  | CSb    GPIO12 | LADD   GPIO15-22 | XDA7..XDA0
func DefaultPinConfig() PinConfig {
	return PinConfig{
		WE: "GPIO7",
		OE: "GPIO8",
		CS: "GPIO9",

		AddrLow:  "GPIO10",
		AddrHigh: "GPIO11",
		Data:     "GPIO12",

		Reset:     "GPIO14",
		OutEnable: "GPIO26",

		Bus: [8]string{"GPIO22", "GPIO21", "GPIO20", "GPIO19", "GPIO18", "GPIO17", "GPIO16", "GPIO15"},
	}
}

// Pins holds the opened GPIO pins of a board.
type Pins struct {
	WE gpio.PinIO
	OE gpio.PinIO
	CS gpio.PinIO

	AddrLow  gpio.PinIO
	AddrHigh gpio.PinIO
	Data     gpio.PinIO

	Reset     gpio.PinIO
	OutEnable gpio.PinIO

	Bus [8]gpio.PinIO
}

func openPins(cfg PinConfig) (ps Pins, err error) {
	named := []struct {
		name string
		dst  *gpio.PinIO
	}{
		{cfg.WE, &ps.WE},
		{cfg.OE, &ps.OE},
		{cfg.CS, &ps.CS},
		{cfg.AddrLow, &ps.AddrLow},
		{cfg.AddrHigh, &ps.AddrHigh},
		{cfg.Data, &ps.Data},
		{cfg.Reset, &ps.Reset},
		{cfg.OutEnable, &ps.OutEnable},
	}
	for _, n := range named {
		if *n.dst, err = byName(n.name); err != nil {
			return ps, err
		}
	}
	for i, name := range cfg.Bus {
		if ps.Bus[i], err = byName(name); err != nil {
			return ps, err
		}
	}
	return ps, nil
}

func byName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not present", name)
	}
	return p, nil
}
