// Package uploader implements the host side of the ROM upload protocol:
// the counterpart of the emulator's serve loop, typically bound to a USB
// CDC serial port.
//
// The transport is any io.ReadWriter; serial port handling, including read
// timeouts, is left to the caller. This allows the package to work with
// real serial ports, network links, or mock devices in tests.
package uploader
