package uploader

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gcoonrod/romemu/protocol"
)

// mockPort simulates the device: reads are served from a scripted response
// stream, writes are captured for inspection.
type mockPort struct {
	wrote     bytes.Buffer
	responses bytes.Buffer
	readErr   error
	writeErr  error
}

func (m *mockPort) Read(p []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.responses.Read(p)
}

func (m *mockPort) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.wrote.Write(p)
}

func TestUploadFrame(t *testing.T) {
	m := &mockPort{}
	m.responses.WriteString("AK")

	image := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}
	u := New(m, WithChunkSize(3))
	if err := u.Upload(context.Background(), image, 0x8000); err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	want := []byte{protocol.CmdUpload, 0x00, 0x80, 0x08, 0x00}
	want = append(want, image...)
	want = append(want, protocol.Checksum(image), protocol.CmdEnd)
	if got := m.wrote.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wire bytes = % X, want % X", got, want)
	}
}

func TestUploadDeviceRejection(t *testing.T) {
	m := &mockPort{}
	m.responses.WriteString("AN")
	m.responses.WriteByte(protocol.StatusOversize)

	err := New(m).Upload(context.Background(), []byte{1, 2, 3}, 0)
	var perr *protocol.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("Upload() = %v, want ProtocolError", err)
	}
	if perr.Status != protocol.StatusOversize {
		t.Errorf("status = 0x%02X, want 0x%02X", perr.Status, protocol.StatusOversize)
	}
}

func TestUploadNoAcknowledge(t *testing.T) {
	m := &mockPort{}
	m.responses.WriteString("X")

	err := New(m).Upload(context.Background(), []byte{1}, 0)
	if err == nil || !strings.Contains(err.Error(), "acknowledge") {
		t.Fatalf("Upload() = %v, want acknowledge error", err)
	}
}

func TestUploadEmptyImage(t *testing.T) {
	m := &mockPort{}
	if err := New(m).Upload(context.Background(), nil, 0); err == nil {
		t.Fatal("Upload(nil) succeeded, want error")
	}
	if m.wrote.Len() != 0 {
		t.Errorf("wrote %d bytes for an empty image, want 0", m.wrote.Len())
	}
}

func TestUploadCancelled(t *testing.T) {
	m := &mockPort{}
	m.responses.WriteString("A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(m).Upload(ctx, []byte{1, 2, 3}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Upload() = %v, want context.Canceled", err)
	}
}

func TestUploadProgress(t *testing.T) {
	m := &mockPort{}
	m.responses.WriteString("AK")

	var sent []int
	u := New(m,
		WithChunkSize(4),
		WithProgress(func(p Progress) {
			if p.Total != 10 {
				t.Errorf("progress total = %d, want 10", p.Total)
			}
			sent = append(sent, p.BytesSent)
		}),
	)
	if err := u.Upload(context.Background(), make([]byte, 10), 0); err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	want := []int{4, 8, 10}
	if len(sent) != len(want) {
		t.Fatalf("progress calls = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, sent[i], want[i])
		}
	}
}

func TestUploadWriteFailure(t *testing.T) {
	m := &mockPort{writeErr: errors.New("port gone")}
	if err := New(m).Upload(context.Background(), []byte{1}, 0); err == nil {
		t.Fatal("Upload() succeeded with a broken port")
	}
}
