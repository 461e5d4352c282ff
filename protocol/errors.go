package protocol

import "fmt"

// ProtocolError represents an upload rejected by the device, carrying the
// status code from the rejection response.
type ProtocolError struct {
	// Op is the operation that failed.
	Op string

	// Status is the status code from the device.
	Status byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Op, StatusText(e.Status), e.Status)
}
