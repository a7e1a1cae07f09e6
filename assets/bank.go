package assets

import (
	"bytes"
	"fmt"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Bank plays the embedded clips by name. Clips are decoded on first use and
// kept as PCM so each one-shot gets its own cheap player.
type Bank struct {
	ctx *audio.Context

	mu      sync.Mutex
	clips   map[string][]byte
	missing map[string]bool
}

func NewBank(ctx *audio.Context) *Bank {
	return &Bank{
		ctx:     ctx,
		clips:   make(map[string][]byte),
		missing: make(map[string]bool),
	}
}

// Preload decodes every embedded clip.
func (b *Bank) Preload() error {
	for _, name := range ClipNames() {
		if _, err := b.pcm(name); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) pcm(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pcm, ok := b.clips[name]; ok {
		return pcm, nil
	}
	if b.missing[name] {
		return nil, fmt.Errorf("assets: clip %q unavailable", name)
	}
	pcm, err := DecodeClip(name)
	if err != nil {
		b.missing[name] = true
		log.Printf("assets: %v", err)
		return nil, err
	}
	b.clips[name] = pcm
	return pcm, nil
}

// Play fires a one-shot clip. Unknown clips are logged once and ignored.
func (b *Bank) Play(name string, volume float64) {
	if b == nil || b.ctx == nil || name == "" {
		return
	}
	pcm, err := b.pcm(name)
	if err != nil {
		return
	}
	p := b.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()
}

// Player returns a dedicated player for name, looping forever when loop is
// set.
func (b *Bank) Player(name string, loop bool) (*audio.Player, error) {
	if b == nil || b.ctx == nil {
		return nil, fmt.Errorf("assets: no audio context")
	}
	pcm, err := b.pcm(name)
	if err != nil {
		return nil, err
	}
	if !loop {
		return b.ctx.NewPlayerFromBytes(pcm), nil
	}
	return b.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
}
