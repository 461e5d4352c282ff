package romemu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gcoonrod/romemu/protocol"
)

// Server implements the device side of the upload protocol. It reacts to
// upload commands on a serial transport and drives the hardware sequence in
// strict order: receive and validate the full image, then reset, drive,
// write, Hi-Z, release.
type Server struct {
	dev *Device
}

// NewServer creates a Server for the given device.
func NewServer(dev *Device) *Server {
	if dev == nil {
		panic("device cannot be nil")
	}
	return &Server{dev: dev}
}

// Serve reads upload commands from rw until ctx is cancelled or rw is
// closed. Bytes other than the upload command are ignored so line noise
// cannot wedge the loop. Cancellation is observed between commands; a
// blocking read is interrupted by closing rw.
func (s *Server) Serve(ctx context.Context, rw io.ReadWriter) error {
	br := bufio.NewReader(rw)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if b != protocol.CmdUpload {
			continue
		}
		if err := s.handleUpload(rw, br); err != nil {
			s.dev.logError("upload failed", "err", err.Error())
		}
	}
}

func (s *Server) handleUpload(w io.Writer, r io.Reader) error {
	if _, err := w.Write([]byte{protocol.RespAck}); err != nil {
		return &TransferError{Op: "acknowledge", Err: err}
	}

	start := time.Now()
	image, startAddr, err := receive(r)
	if err != nil {
		// A broken transfer must not bring the DUT out of reset.
		s.dev.FailSafe()
		s.respondErr(w, statusFor(err))
		return err
	}

	if err := s.dev.Load(image, startAddr); err != nil {
		// Load fail-safes internally when programming was already under
		// way; rejections before that leave the device untouched.
		s.respondErr(w, statusFor(err))
		return err
	}

	if _, err := w.Write([]byte{protocol.RespOK}); err != nil {
		return &TransferError{Op: "confirm", Err: err}
	}

	elapsed := time.Since(start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(len(image)) / secs
	}
	s.dev.logInfo("upload complete",
		"bytes", len(image),
		"start", fmt.Sprintf("0x%04X", startAddr),
		"elapsed", elapsed.String(),
		"rate", fmt.Sprintf("%.0f B/s", rate),
	)
	return nil
}

// receive reads the header, payload and trailer of an upload and verifies
// the payload checksum. Nothing is written to the SRAM until the image has
// arrived in full.
func receive(r io.Reader) ([]byte, uint16, error) {
	var hdr [protocol.HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, &TransferError{Op: "header", Err: err}
	}
	startAddr, n := protocol.DecodeHeader(hdr)
	if n == 0 {
		return nil, 0, &protocol.ProtocolError{Op: "receive", Status: protocol.StatusLength}
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, 0, &TransferError{Op: "data", Err: err}
	}

	var tail [2]byte // checksum, end marker
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, 0, &TransferError{Op: "trailer", Err: err}
	}
	if tail[1] != protocol.CmdEnd {
		return nil, 0, &TransferError{Op: "trailer", Err: fmt.Errorf("bad end marker 0x%02X", tail[1])}
	}
	if sum := protocol.Checksum(buf); sum != tail[0] {
		return nil, 0, &protocol.ProtocolError{Op: "receive", Status: protocol.StatusChecksum}
	}
	return buf, startAddr, nil
}

// respondErr sends the rejection response. Write errors are dropped: the
// link is already suspect and the fail-safe state has been applied.
func (s *Server) respondErr(w io.Writer, status byte) {
	w.Write([]byte{protocol.RespErr, status})
}

func statusFor(err error) byte {
	var over *OversizeImageError
	var perr *protocol.ProtocolError
	switch {
	case errors.Is(err, ErrBusy):
		return protocol.StatusBusy
	case errors.As(err, &over):
		return protocol.StatusOversize
	case errors.As(err, &perr):
		return perr.Status
	default:
		return protocol.StatusTransfer
	}
}
