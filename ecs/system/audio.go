package system

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// SoundBank resolves clip names to sound.
type SoundBank interface {
	Play(name string, volume float64)
	Player(name string, loop bool) (*audio.Player, error)
}

// AudioSystem drains the world's event queue, playing one-shot sounds and
// handing every other event to OnEvent, then services the per-entity
// Audio Play/Stop requests.
type AudioSystem struct {
	bank SoundBank
	// OnEvent sees the non-sound events in queue order.
	OnEvent func(ecs.Event)
}

func NewAudioSystem(bank SoundBank) *AudioSystem {
	return &AudioSystem{bank: bank}
}

func (a *AudioSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventSound {
			if a.OnEvent != nil {
				a.OnEvent(evt)
			}
			continue
		}
		snd, ok := evt.Data.(ecs.SoundEvent)
		if !ok || a.bank == nil {
			continue
		}
		a.bank.Play(snd.Name, snd.Volume)
	}

	ecs.ForEach(w, component.AudioComponent.Kind(), func(e ecs.Entity, audioComp *component.Audio) {
		count := min(len(audioComp.Names), len(audioComp.Players), len(audioComp.Play), len(audioComp.Stop))
		for i := 0; i < count; i++ {
			if !audioComp.Play[i] {
				continue
			}
			audioComp.Play[i] = false

			player := a.player(e, audioComp, i)
			if player != nil && !player.IsPlaying() {
				player.SetVolume(audioComp.Volume[i])
				player.Rewind()
				player.Play()
			}
		}

		for i := 0; i < count; i++ {
			if !audioComp.Stop[i] {
				continue
			}
			audioComp.Stop[i] = false

			player := audioComp.Players[i]
			if player != nil && player.IsPlaying() {
				player.Pause()
			}
		}
	})
}

// player creates slot i's player on first use.
func (a *AudioSystem) player(e ecs.Entity, audioComp *component.Audio, i int) *audio.Player {
	if audioComp.Players[i] != nil || a.bank == nil {
		return audioComp.Players[i]
	}
	loop := i < len(audioComp.Loop) && audioComp.Loop[i]
	p, err := a.bank.Player(audioComp.Names[i], loop)
	if err != nil {
		log.Printf("audio: entity=%s clip %s: %v", e, audioComp.Names[i], err)
		return nil
	}
	audioComp.Players[i] = p
	return p
}

// StopAll pauses every entity clip, used when the simulation freezes.
func StopAll(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		for _, p := range audioComp.Players {
			if p != nil && p.IsPlaying() {
				p.Pause()
			}
		}
	})
}
