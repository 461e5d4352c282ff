package romemu

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a load is attempted while another one is in
// progress. Uploads are rejected, not queued.
var ErrBusy = errors.New("programming already in progress")

var errEmptyImage = errors.New("empty image")

// OversizeImageError indicates that an image does not fit in the SRAM.
// The image is rejected before any SRAM write occurs.
type OversizeImageError struct {
	Size      int
	StartAddr uint16
	Capacity  int
}

func (e *OversizeImageError) Error() string {
	return fmt.Sprintf("image of %d bytes at 0x%04X exceeds SRAM capacity of %d bytes",
		e.Size, e.StartAddr, e.Capacity)
}

// LatchFaultError reports a latch or reset transition attempted in an
// invalid state.
type LatchFaultError struct {
	Mode   LatchMode
	Reason string
}

func (e *LatchFaultError) Error() string {
	return fmt.Sprintf("latch fault in %s mode: %s", e.Mode, e.Reason)
}

// TransferError reports a failed serial transfer. A failed transfer never
// reaches the SRAM: the image is received in full before programming starts.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
