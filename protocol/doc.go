// Package protocol implements the wire format of the ROM emulator's USB
// serial upload protocol.
//
// An upload is a single exchange:
//
//	Host:   ['U']
//	Device: ['A']
//	Host:   [ADDR_L][ADDR_H][LEN_L][LEN_H][DATA...][CHECKSUM]['E']
//	Device: ['K']              on success
//	Device: ['N'][STATUS]      on failure
//
// ADDR is the little-endian SRAM start address and LEN the little-endian
// payload length. CHECKSUM is the two's complement of the byte sum of DATA,
// so summing DATA together with CHECKSUM yields zero.
package protocol
