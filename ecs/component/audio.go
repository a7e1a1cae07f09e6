package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// Audio holds named per-entity clips. The audio system lazily creates the
// players and consumes the Play/Stop requests each tick.
type Audio struct {
	Names   []string
	Players []*audio.Player
	Volume  []float64
	Loop    []bool
	Play    []bool
	Stop    []bool
}

// Index returns the slot for a clip name, or -1.
func (a *Audio) Index(name string) int {
	if a == nil {
		return -1
	}
	for i, n := range a.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Request marks a clip to start (play true) or stop (play false).
func (a *Audio) Request(name string, play bool) {
	i := a.Index(name)
	if i < 0 {
		return
	}
	if play {
		a.Play[i] = true
		a.Stop[i] = false
		return
	}
	a.Stop[i] = true
	a.Play[i] = false
}

var AudioComponent = NewComponent[Audio]()
