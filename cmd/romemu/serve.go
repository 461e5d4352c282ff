package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.bug.st/serial"

	"github.com/gcoonrod/romemu"
)

func serveCommand(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		port string
		baud int
		sram string
	)
	fs.StringVar(&port, "p", "", "serial port (default: stdin/stdout)")
	fs.IntVar(&baud, "b", 115200, "baud rate")
	fs.StringVar(&sram, "sram", romemu.DefaultSRAM, "SRAM part fitted on the board")
	fs.Parse(args)

	dev, err := romemu.NewDevice(
		romemu.WithSRAM(sram),
		romemu.WithLogger(stderrLogger{}),
	)
	if err != nil {
		fatalf("failed to open device: %v", err)
	}

	var rw io.ReadWriter = stdio{}
	if port != "" {
		sp, err := serial.Open(port, &serial.Mode{BaudRate: baud})
		if err != nil {
			fatalf("failed to open serial port: %v", err)
		}
		defer sp.Close()
		rw = sp
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("ROM emulator ready (%s, %d bytes); send 'U' to upload", dev.SRAM(), dev.Capacity())
	if err := romemu.NewServer(dev).Serve(ctx, rw); err != nil && !errors.Is(err, context.Canceled) {
		fatalf("serve failed: %v", err)
	}
}

// stdio serves the console when romemu owns the board's stdin/stdout.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

type stderrLogger struct{}

func (stderrLogger) Debug(msg string, kv ...any) {
	log.Println(append([]any{"DEBUG:", msg}, kv...)...)
}

func (stderrLogger) Info(msg string, kv ...any) {
	log.Println(append([]any{msg}, kv...)...)
}

func (stderrLogger) Error(msg string, kv ...any) {
	log.Println(append([]any{"ERROR:", msg}, kv...)...)
}
