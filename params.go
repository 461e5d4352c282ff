package romemu

import (
	"sort"
	"time"
)

type sramParams struct {
	name string
	size int

	// tPulse is the latch clock and WEb pulse width.
	tPulse time.Duration
	// tResetHold is the settle time after RSTb changes level.
	tResetHold time.Duration
}

// DefaultSRAM is the part fitted on the reference PCB.
const DefaultSRAM = "AS6C62256"

var knownSRAM = map[string]sramParams{
	"AS6C62256": {
		name: "Alliance AS6C62256 32K x 8",
		size: 32 << 10,

		// [AS6C62256|AC Characteristics]: tWC is 55ns. 1us leaves ample
		// margin for the latch propagation delay.
		tPulse:     time.Microsecond,
		tResetHold: 100 * time.Microsecond,
	},

	"CY62256N": {
		name:       "Infineon CY62256N 32K x 8",
		size:       32 << 10,
		tPulse:     time.Microsecond,
		tResetHold: 100 * time.Microsecond,
	},

	"HM6264B": {
		name: "Hitachi HM6264B 8K x 8",
		size: 8 << 10,

		// tWC is 85ns on the -10 speed grade; slower part, wider pulse.
		tPulse:     2 * time.Microsecond,
		tResetHold: 100 * time.Microsecond,
	},
}

// SRAMParts lists the supported SRAM part numbers.
func SRAMParts() []string {
	parts := make([]string, 0, len(knownSRAM))
	for name := range knownSRAM {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

func (d *Device) tPulse() time.Duration {
	return d.pr.tPulse
}

func (d *Device) tResetHold() time.Duration {
	if d.resetHold > 0 {
		return d.resetHold
	}
	return d.pr.tResetHold
}
