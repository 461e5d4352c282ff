package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.bug.st/serial"

	"github.com/gcoonrod/romemu/uploader"
)

func uploadCommand(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	var (
		port     string
		filename string
		addrHex  string
		baud     int
		quiet    bool
	)
	fs.StringVar(&port, "p", "", "serial port (e.g. /dev/ttyACM0)")
	fs.StringVar(&filename, "f", "", "ROM image file")
	fs.StringVar(&addrHex, "a", "0", "start address (hex)")
	fs.IntVar(&baud, "b", 115200, "baud rate (ignored by USB CDC, set anyway)")
	fs.BoolVar(&quiet, "q", false, "suppress progress output")
	fs.Parse(args)

	if port == "" {
		fatalUsage("serial port is required")
	}
	if filename == "" {
		fatalUsage("ROM image file is required")
	}
	addr, err := strconv.ParseUint(addrHex, 16, 16)
	if err != nil {
		fatalUsage("invalid start address %q: %v", addrHex, err)
	}

	image, err := os.ReadFile(filename)
	if err != nil {
		fatalf("failed to read ROM image: %v", err)
	}

	sp, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		fatalf("failed to open serial port: %v", err)
	}
	defer sp.Close()
	if err := sp.SetReadTimeout(2 * time.Second); err != nil {
		fatalf("failed to set read timeout: %v", err)
	}

	// Give the USB CDC endpoint time to settle after opening.
	time.Sleep(time.Second)

	var opts []uploader.Option
	if !quiet {
		opts = append(opts, uploader.WithProgress(func(p uploader.Progress) {
			fmt.Printf("\rSent %d/%d bytes", p.BytesSent, p.Total)
		}))
	}

	u := uploader.New(timeoutPort{sp}, opts...)
	start := time.Now()
	err = u.Upload(context.Background(), image, uint16(addr))
	if !quiet {
		fmt.Println()
	}
	if err != nil {
		fatalf("upload failed: %v", err)
	}
	elapsed := time.Since(start)

	if !quiet {
		rate := 0.0
		if secs := elapsed.Seconds(); secs > 0 {
			rate = float64(len(image)) / secs
		}
		fmt.Printf("Wrote %d bytes at 0x%04X in %.2fs (%.0f B/s)\n",
			len(image), addr, elapsed.Seconds(), rate)
	}
}

var errReadTimeout = errors.New("serial read timed out")

// timeoutPort maps go.bug.st/serial's timeout convention (n == 0 with a nil
// error) to a real error so io.ReadFull cannot spin on a silent device.
type timeoutPort struct {
	serial.Port
}

func (p timeoutPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil {
		return 0, errReadTimeout
	}
	return n, err
}
