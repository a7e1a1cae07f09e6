package assets

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const sampleRate = 44100

//go:embed *.wav
var assetsFS embed.FS

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// AudioContext returns the shared audio context, creating it on first use.
func AudioContext() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// Face is the UI and HUD font.
func Face() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// DecodeClip decodes an embedded wav into PCM at the context sample rate.
func DecodeClip(name string) ([]byte, error) {
	b, err := LoadFile(clipPath(name))
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", name, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read wav %q: %w", name, err)
	}
	return pcm, nil
}

// ClipNames lists the embedded clips.
func ClipNames() []string {
	entries, err := assetsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".wav"); ok {
			out = append(out, name)
		}
	}
	return out
}

func clipPath(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".wav") {
		return name
	}
	return name + ".wav"
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
