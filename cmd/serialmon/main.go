// Command serialmon prints the normalized state of an Arduino joystick so the
// calibration in prefabs/arduino.yaml can be checked against real hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/keyhold/arduino"
	"github.com/milk9111/keyhold/prefabs"
)

func main() {
	port := flag.String("port", "", "serial port (defaults to prefabs/arduino.yaml)")
	baud := flag.Int("baud", 0, "baud rate (defaults to prefabs/arduino.yaml)")
	rate := flag.Duration("every", 100*time.Millisecond, "print interval")
	flag.Parse()

	cfg, err := prefabs.LoadArduinoConfig()
	if err != nil {
		log.Printf("serialmon: %v, using defaults", err)
		cfg = arduino.DefaultConfig()
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bridge := arduino.NewBridge(cfg, nil)
	go func() {
		if err := bridge.Run(ctx); err != nil {
			log.Printf("serialmon: %v", err)
			stop()
		}
	}()

	ticker := time.NewTicker(*rate)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			pad := bridge.Update(now.Sub(last).Seconds())
			last = now
			raw := bridge.Raw()
			fmt.Printf("raw x=%4d y=%4d z=%d b=%d | stick (%+.2f, %+.2f) north=%v trigger=%.0f connected=%v\n",
				raw.X, raw.Y, raw.Z, raw.B, pad.LeftX, pad.LeftY, pad.North, pad.RightTrigger, pad.Connected)
		}
	}
}
