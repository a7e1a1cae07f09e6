package arduino

import (
	"context"
	"errors"
	"io"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Reading
		ok   bool
	}{
		{"x_axis", "x512", Reading{'x', 512}, true},
		{"y_with_cr", "y487\r", Reading{'y', 487}, true},
		{"padded", "  x10  ", Reading{'x', 10}, true},
		{"z_clamped_high", "z7", Reading{'z', 1}, true},
		{"b_clamped_low", "b-3", Reading{'b', 0}, true},
		{"negative_axis_kept", "x-4", Reading{'x', -4}, true},
		{"empty", "", Reading{}, false},
		{"tag_only", "x", Reading{}, false},
		{"unknown_tag", "q12", Reading{}, false},
		{"not_a_number", "x1a", Reading{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseLine(c.line)
			if ok != c.ok || got != c.want {
				t.Fatalf("ParseLine(%q) = %+v, %v; want %+v, %v", c.line, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestLineBufferHoldsPartialLines(t *testing.T) {
	var lb lineBuffer
	if got := lb.Feed([]byte("x51")); len(got) != 0 {
		t.Fatalf("partial line should be held, got %v", got)
	}
	got := lb.Feed([]byte("2\ny4"))
	if !reflect.DeepEqual(got, []string{"x512"}) {
		t.Fatalf("expected joined line, got %v", got)
	}
	got = lb.Feed([]byte("87\nz1\n"))
	if !reflect.DeepEqual(got, []string{"y487", "z1"}) {
		t.Fatalf("expected two lines, got %v", got)
	}
}

func TestNormalizeAxis(t *testing.T) {
	cal := DefaultCalibration()
	cases := []struct {
		name string
		raw  int
		want float64
	}{
		{"center", 496, 0},
		{"inside_deadzone", 496 + 40, 0},
		{"full_right", 1023, 1},
		{"full_left", 0, -1},
		{"beyond_max_clamped", 2000, 1},
		{"half_right", 496 + (1023-496)/2, (0.5 - 0.09) / (1 - 0.09)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NormalizeAxis(c.raw, cal.CenterX, cal.RawMin, cal.RawMax, cal.Deadzone)
			if math.Abs(got-c.want) > 0.002 {
				t.Fatalf("NormalizeAxis(%d) = %v, want %v", c.raw, got, c.want)
			}
		})
	}

	if got := NormalizeAxis(10, 0, 0, 1023, 0); got != 10.0/1023 {
		t.Fatalf("zero deadzone should be linear, got %v", got)
	}
	if got := NormalizeAxis(-5, 0, 0, 1023, 0.1); got != 0 {
		t.Fatalf("degenerate half range should read 0, got %v", got)
	}
}

func TestSmoothFactor(t *testing.T) {
	if got := SmoothFactor(0, 1.0/60); got != 1 {
		t.Fatalf("smoothing off should pass values through, got %v", got)
	}
	if got := SmoothFactor(0.15, 1.0/60); math.Abs(got-0.15) > 1e-9 {
		t.Fatalf("one 60Hz frame should blend by the smoothing amount, got %v", got)
	}
	if got := SmoothFactor(0.15, 2.0/60); math.Abs(got-(1-0.85*0.85)) > 1e-9 {
		t.Fatalf("two frames should compound, got %v", got)
	}
}

func TestUpdateRestState(t *testing.T) {
	b := NewBridge(DefaultConfig(), func(Config) (io.ReadCloser, error) {
		return nil, errors.New("no port")
	})
	pad := b.Update(1.0 / 60)
	if pad.LeftX != 0 || pad.LeftY != 0 || pad.North || pad.RightTrigger != 0 || pad.Connected {
		t.Fatalf("untouched controller should read neutral, got %+v", pad)
	}
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("open failure should leave the bridge inert, got %v", err)
	}
}

func TestUpdateMapsButtonsAndAxes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration.Smoothing = 0
	b := NewBridge(cfg, nil)
	b.consume([]string{"x1023", "y0", "z1", "b0"})

	pad := b.Update(1.0 / 60)
	if pad.LeftX != 1 || pad.LeftY != 1 {
		t.Fatalf("expected stick (1, 1) with y flipped, got (%v, %v)", pad.LeftX, pad.LeftY)
	}
	if !pad.North {
		t.Fatalf("z=1 should press north")
	}
	if pad.RightTrigger != 1 {
		t.Fatalf("active-low b=0 should pull the trigger")
	}
	if b.Pad() != pad {
		t.Fatalf("Pad should return the last published state")
	}
}

type fakePort struct {
	mu     sync.Mutex
	chunks [][]byte
	closed chan struct{}
	once   sync.Once
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	if len(p.chunks) > 0 {
		n := copy(buf, p.chunks[0])
		p.chunks = p.chunks[1:]
		p.mu.Unlock()
		return n, nil
	}
	p.mu.Unlock()
	<-p.closed
	return 0, io.EOF
}

func (p *fakePort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func TestRunReadsUntilCancelled(t *testing.T) {
	port := &fakePort{
		chunks: [][]byte{[]byte("x10"), []byte("00\ny2"), []byte("0\nnoise\nb0\n")},
		closed: make(chan struct{}),
	}
	b := NewBridge(DefaultConfig(), func(Config) (io.ReadCloser, error) { return port, nil })

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Run(ctx) }()

	want := Raw{X: 1000, Y: 20, Z: 0, B: 0}
	deadline := time.Now().Add(2 * time.Second)
	for b.Raw() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected raw %+v, got %+v", want, b.Raw())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}

type readStep struct {
	data string
	err  error
}

type flakyPort struct {
	mu     sync.Mutex
	steps  []readStep
	closed chan struct{}
	once   sync.Once
}

func (p *flakyPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	if len(p.steps) > 0 {
		st := p.steps[0]
		p.steps = p.steps[1:]
		p.mu.Unlock()
		return copy(buf, st.data), st.err
	}
	p.mu.Unlock()
	<-p.closed
	return 0, io.EOF
}

func (p *flakyPort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func TestRunKeepsPollingAfterReadErrors(t *testing.T) {
	reset := errors.New("device reset")
	port := &flakyPort{
		steps: []readStep{
			{data: "x10"},
			{err: reset},
			{err: reset},
			{data: "00\n"},
		},
		closed: make(chan struct{}),
	}
	b := NewBridge(DefaultConfig(), func(Config) (io.ReadCloser, error) { return port, nil })
	b.retry = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- b.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for b.Raw().X != 1000 || !b.Update(0).Connected {
		select {
		case err := <-errc:
			t.Fatalf("Run stopped after a read error: %v", err)
		default:
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected x=1000 and a connected pad, got %+v connected=%v", b.Raw(), b.Update(0).Connected)
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}
