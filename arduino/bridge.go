package arduino

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// Pad is the virtual gamepad state derived from the latest readings.
type Pad struct {
	// LeftX/LeftY follow the gamepad convention, +Y up.
	LeftX        float64
	LeftY        float64
	North        bool
	RightTrigger float64
	Connected    bool
}

// OpenFunc opens the byte stream for cfg.
type OpenFunc func(cfg Config) (io.ReadCloser, error)

// OpenSerial opens cfg.Port with the configured baud and read timeout. A
// read that times out returns no bytes, which the bridge treats as "no new
// data".
func OpenSerial(cfg Config) (io.ReadCloser, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("arduino: open %s: %w", cfg.Port, err)
	}
	return port, nil
}

const readRetryDelay = 250 * time.Millisecond

// Bridge reads the controller on its own goroutine (Run) and publishes a
// Pad on the game goroutine (Update).
type Bridge struct {
	cfg  Config
	open OpenFunc
	// retry is the pause after a failed read before polling again.
	retry time.Duration

	mu        sync.Mutex
	raw       Raw
	connected bool

	smoothX float64
	smoothY float64
	pad     Pad
}

func NewBridge(cfg Config, open OpenFunc) *Bridge {
	if open == nil {
		open = OpenSerial
	}
	return &Bridge{cfg: cfg, open: open, retry: readRetryDelay, raw: cfg.Calibration.Rest()}
}

// Run reads until ctx is cancelled. If the port cannot be opened the
// failure is logged and the bridge stays inert. Read errors mark the pad
// disconnected and polling resumes after a short pause; the first error of
// a streak is logged.
func (b *Bridge) Run(ctx context.Context) error {
	port, err := b.open(b.cfg)
	if err != nil {
		log.Printf("arduino: failed to open serial: %v", err)
		return nil
	}
	log.Printf("arduino: serial opened on %s", b.cfg.Port)
	b.setConnected(true)
	defer b.setConnected(false)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		port.Close()
	}()

	var lines lineBuffer
	buf := make([]byte, 128)
	failing := false
	for {
		n, err := port.Read(buf)
		if ctx.Err() != nil {
			return nil
		}
		if n > 0 {
			b.consume(lines.Feed(buf[:n]))
		}
		if err == nil || errors.Is(err, io.EOF) {
			if failing {
				log.Printf("arduino: serial read recovered")
				failing = false
				b.setConnected(true)
			}
			continue
		}
		if !failing {
			log.Printf("arduino: serial read error: %v", err)
			failing = true
			b.setConnected(false)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(b.retry):
		}
	}
}

func (b *Bridge) consume(lines []string) {
	if len(lines) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range lines {
		if r, ok := ParseLine(line); ok {
			b.raw.Apply(r)
		}
	}
}

func (b *Bridge) setConnected(v bool) {
	b.mu.Lock()
	b.connected = v
	b.mu.Unlock()
}

// Raw returns the latest raw readings.
func (b *Bridge) Raw() Raw {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw
}

// Update normalizes and smooths the latest readings over dt seconds and
// republishes the pad.
func (b *Bridge) Update(dt float64) Pad {
	b.mu.Lock()
	raw, connected := b.raw, b.connected
	b.mu.Unlock()

	cal := b.cfg.Calibration
	nx, ny := cal.Axes(raw)
	a := SmoothFactor(cal.Smoothing, dt)
	b.smoothX += (nx - b.smoothX) * a
	b.smoothY += (ny - b.smoothY) * a

	b.pad = Pad{
		LeftX:     b.smoothX,
		LeftY:     -b.smoothY,
		North:     cal.ZPressed(raw),
		Connected: connected,
	}
	if cal.BPressed(raw) {
		b.pad.RightTrigger = 1
	}
	return b.pad
}

// Pad returns the pad published by the last Update.
func (b *Bridge) Pad() Pad {
	return b.pad
}
