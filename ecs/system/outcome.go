package system

import (
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/session"
)

const outcomeVolume = 0.4

// OutcomeSystem applies a decided outcome once: every player is removed and
// the win or lose sting plays. The game stops stepping the simulation after
// this tick.
type OutcomeSystem struct {
	session *session.Session
	handled bool
	// Volume of the win/lose sting.
	Volume float64
}

func NewOutcomeSystem(s *session.Session) *OutcomeSystem {
	return &OutcomeSystem{session: s, Volume: outcomeVolume}
}

func (o *OutcomeSystem) Reset() {
	o.handled = false
}

func (o *OutcomeSystem) Update(w *ecs.World) {
	if o.handled || !o.session.Decided() {
		return
	}
	o.handled = true

	ecs.ForEach(w, component.PlayerTagComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag) {
		ecs.DestroyEntity(w, e)
	})

	outcome := o.session.Outcome()
	switch outcome {
	case session.GameWin:
		w.Events().PlaySound("win", o.Volume)
	case session.GameOver:
		w.Events().PlaySound("lose", o.Volume)
	}
	w.Events().Push(ecs.Event{Type: ecs.EventOutcome, Data: outcome})
}
