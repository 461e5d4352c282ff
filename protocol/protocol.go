package protocol

import (
	"encoding/binary"
	"fmt"
)

// Command and response bytes.
const (
	// CmdUpload starts an image upload.
	CmdUpload = 'U'

	// CmdEnd terminates the payload of an upload.
	CmdEnd = 'E'

	// RespAck acknowledges an upload command.
	RespAck = 'A'

	// RespOK confirms a completed upload: the image is being served.
	RespOK = 'K'

	// RespErr rejects an upload; a status byte follows.
	RespErr = 'N'
)

// HeaderSize is the size of the address/length header that follows CmdUpload.
const HeaderSize = 4

// MaxImageSize is the largest payload expressible by the 16-bit length
// field. The device enforces its own, usually smaller, SRAM capacity.
const MaxImageSize = 0xFFFF

// Status codes carried after RespErr.
const (
	// StatusOversize: image exceeds the SRAM capacity.
	StatusOversize = 0x01

	// StatusChecksum: payload checksum mismatch.
	StatusChecksum = 0x02

	// StatusTransfer: serial read failed mid-transfer.
	StatusTransfer = 0x03

	// StatusBusy: a load is already in progress.
	StatusBusy = 0x04

	// StatusLength: zero or malformed length field.
	StatusLength = 0x05
)

// EncodeHeader builds the 4-byte address/length header.
func EncodeHeader(startAddr uint16, n int) ([HeaderSize]byte, error) {
	var hdr [HeaderSize]byte
	if n <= 0 {
		return hdr, fmt.Errorf("image cannot be empty")
	}
	if n > MaxImageSize {
		return hdr, fmt.Errorf("image length %d exceeds maximum %d bytes", n, MaxImageSize)
	}
	binary.LittleEndian.PutUint16(hdr[0:2], startAddr)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(n))
	return hdr, nil
}

// DecodeHeader extracts the start address and payload length.
func DecodeHeader(hdr [HeaderSize]byte) (startAddr uint16, n int) {
	return binary.LittleEndian.Uint16(hdr[0:2]), int(binary.LittleEndian.Uint16(hdr[2:4]))
}

// StatusText returns a human-readable name for a status code.
func StatusText(code byte) string {
	switch code {
	case StatusOversize:
		return "image exceeds SRAM capacity"
	case StatusChecksum:
		return "checksum mismatch"
	case StatusTransfer:
		return "transfer failed"
	case StatusBusy:
		return "device busy"
	case StatusLength:
		return "invalid length"
	default:
		return fmt.Sprintf("unknown status code 0x%02X", code)
	}
}
