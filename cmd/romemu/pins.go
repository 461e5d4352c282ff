package main

import (
	"fmt"

	"github.com/gcoonrod/romemu"
)

func pinsCommand() {
	cfg := romemu.DefaultPinConfig()
	rows := []struct {
		signal, pin, desc string
	}{
		{"WEb", cfg.WE, "SRAM write enable (active low)"},
		{"OEb", cfg.OE, "SRAM output enable (active low)"},
		{"CSb", cfg.CS, "SRAM chip select (active low)"},
		{"LADL", cfg.AddrLow, "address low latch clock"},
		{"LADH", cfg.AddrHigh, "address high latch clock"},
		{"LADD", cfg.Data, "data latch clock"},
		{"RSTb", cfg.Reset, "DUT reset (active low)"},
		{"LOEb", cfg.OutEnable, "latch output enable (active low)"},
	}
	for _, r := range rows {
		fmt.Printf("%-6s %-8s %s\n", r.signal, r.pin, r.desc)
	}
	for i, p := range cfg.Bus {
		fmt.Printf("XDA%-3d %-8s shared address/data bus bit %d\n", i, p, i)
	}

	fmt.Println("\nSupported SRAM parts:")
	for _, p := range romemu.SRAMParts() {
		fmt.Printf("  %s\n", p)
	}
}
