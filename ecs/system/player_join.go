package system

import (
	"errors"
	"log"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/entity"
	"github.com/milk9111/keyhold/session"
)

// PlayerJoinSystem adds a player when an unbound device presses join, and
// respawns roster members that have no entity (after a level reload).
type PlayerJoinSystem struct {
	input   *InputSystem
	session *session.Session
	full    bool
}

func NewPlayerJoinSystem(input *InputSystem, s *session.Session) *PlayerJoinSystem {
	return &PlayerJoinSystem{input: input, session: s}
}

func (pj *PlayerJoinSystem) Update(w *ecs.World) {
	if pj.session.Decided() {
		return
	}

	for _, m := range pj.session.Members() {
		if !m.Entity.Valid() {
			pj.spawn(w, m)
		}
	}

	for _, d := range pj.input.Devices() {
		if !d.JoinPressed {
			continue
		}
		m, err := pj.session.Join(d.Device)
		switch {
		case errors.Is(err, session.ErrDeviceBound):
			continue
		case errors.Is(err, session.ErrRosterFull):
			if !pj.full {
				log.Printf("join: roster full, ignoring %s", d.Device.Kind)
				pj.full = true
			}
			continue
		case err != nil:
			log.Printf("join: %v", err)
			continue
		}
		pj.spawn(w, m)
	}
}

func (pj *PlayerJoinSystem) spawn(w *ecs.World, m session.Member) {
	x, y, ok := entity.SpawnPoint(w, m.Number)
	if !ok {
		log.Printf("join: level has no spawn for player %d", m.Number)
		return
	}
	e, err := entity.NewPlayer(w, m.Number, m.ID, m.Device, x, y)
	if err != nil {
		log.Printf("join: spawn player %d: %v", m.Number, err)
		return
	}
	pj.session.Bind(m.Number, e)
	w.Events().Push(ecs.Event{Type: ecs.EventPlayerJoined, Data: ecs.EntityEvent{Entity: e}})
}
