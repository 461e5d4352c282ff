// Package romemu drives the Pico ROM emulator board: an SRAM presented to a
// device under test (DUT) through a 28-pin 28C256 EEPROM socket. While the
// DUT is held in reset, the controller writes a ROM image into the SRAM
// through octal latches; the latches then go Hi-Z and the DUT reads the
// SRAM directly as its ROM.
//
// # References:
//
// SRAM
//   - [AS6C62256]: Alliance Memory AS6C62256 32K x 8 Low Power CMOS SRAM (https://www.alliancememory.com/wp-content/uploads/pdf/AS6C62256.pdf)
//   - [HM6264B]: Hitachi HM6264B Series 8192-word x 8-bit High Speed CMOS Static RAM
//
// Latches
//   - [SN74HC573A]: TI Octal Transparent D-Type Latches With 3-State Outputs (https://www.ti.com/lit/ds/symlink/sn74hc573a.pdf)
//
// EEPROM socket
//   - [AT28C256]: Microchip 256K (32K x 8) Paged Parallel EEPROM (https://ww1.microchip.com/downloads/en/DeviceDoc/doc0006.pdf)
package romemu
