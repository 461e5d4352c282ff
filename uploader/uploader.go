package uploader

import (
	"context"
	"fmt"
	"io"

	"github.com/gcoonrod/romemu/protocol"
)

// Uploader sends ROM images to the emulator over a serial transport.
type Uploader struct {
	port   io.ReadWriter
	config Config
}

// New creates an Uploader on the given transport.
func New(port io.ReadWriter, opts ...Option) *Uploader {
	if port == nil {
		panic("port cannot be nil")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Uploader{port: port, config: cfg}
}

// Upload transfers image into the emulator SRAM starting at startAddr and
// waits for the device to confirm that it is serving the new image. A
// rejection by the device is returned as a *protocol.ProtocolError.
func (u *Uploader) Upload(ctx context.Context, image []byte, startAddr uint16) error {
	hdr, err := protocol.EncodeHeader(startAddr, len(image))
	if err != nil {
		return err
	}

	if _, err := u.port.Write([]byte{protocol.CmdUpload}); err != nil {
		return fmt.Errorf("send upload command: %w", err)
	}
	b, err := u.readByte()
	if err != nil {
		return fmt.Errorf("read acknowledge: %w", err)
	}
	if b != protocol.RespAck {
		return fmt.Errorf("expected acknowledge 0x%02X, got 0x%02X", protocol.RespAck, b)
	}

	if _, err := u.port.Write(hdr[:]); err != nil {
		return fmt.Errorf("send header: %w", err)
	}

	sent := 0
	for sent < len(image) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
		chunk := min(len(image)-sent, u.config.ChunkSize)
		if _, err := u.port.Write(image[sent : sent+chunk]); err != nil {
			return fmt.Errorf("send data: %w", err)
		}
		sent += chunk
		u.reportProgress(sent, len(image))
	}

	trailer := [2]byte{protocol.Checksum(image), protocol.CmdEnd}
	if _, err := u.port.Write(trailer[:]); err != nil {
		return fmt.Errorf("send trailer: %w", err)
	}

	switch b, err := u.readByte(); {
	case err != nil:
		return fmt.Errorf("read confirmation: %w", err)
	case b == protocol.RespOK:
		return nil
	case b == protocol.RespErr:
		status, err := u.readByte()
		if err != nil {
			return fmt.Errorf("read error status: %w", err)
		}
		return &protocol.ProtocolError{Op: "upload", Status: status}
	default:
		return fmt.Errorf("expected confirmation 0x%02X, got 0x%02X", protocol.RespOK, b)
	}
}

func (u *Uploader) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(u.port, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (u *Uploader) reportProgress(sent, total int) {
	if u.config.Progress != nil {
		u.config.Progress(Progress{BytesSent: sent, Total: total})
	}
}
