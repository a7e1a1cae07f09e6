package system

import (
	"log"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/session"
)

const defaultReviveDelay = 10.0

// ApplyDamage drains e's health pool. Dead pools ignore damage. It reports
// whether any damage was applied.
func ApplyDamage(w *ecs.World, e ecs.Entity, amount float64) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Dead || amount <= 0 {
		return false
	}
	h.Current = common.Clamp(h.Current-amount, 0, h.Max)
	if h.Current <= 0 {
		h.Dead = true
	}
	return true
}

// Heal restores health on a living pool.
func Heal(w *ecs.World, e ecs.Entity, amount float64) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Dead || amount <= 0 {
		return false
	}
	h.Current = common.Clamp(h.Current+amount, 0, h.Max)
	return true
}

// HealthSystem reacts to deaths, runs revive timers and mirrors player
// health into the session's health bars.
type HealthSystem struct {
	session     *session.Session
	reviveDelay float64
}

func NewHealthSystem(s *session.Session, reviveDelay float64) *HealthSystem {
	if reviveDelay <= 0 {
		reviveDelay = defaultReviveDelay
	}
	return &HealthSystem{session: s, reviveDelay: reviveDelay}
}

func (hs *HealthSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if !h.Dead || h.DeathHandled {
			return
		}
		h.DeathHandled = true
		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
			hs.playerDied(w, e, p)
			return
		}
		hs.entityDied(w, e, h)
	})

	ecs.ForEach2(w, component.ReviveComponent.Kind(), component.PlayerComponent.Kind(), func(e ecs.Entity, r *component.Revive, p *component.Player) {
		if !hs.session.RevivePending(p.Number) {
			ecs.Remove(w, e, component.ReviveComponent.Kind())
			return
		}
		r.Remaining -= common.DeltaTime
		if r.Remaining > 0 {
			return
		}
		ecs.Remove(w, e, component.ReviveComponent.Kind())
		if !hs.session.CompleteRevive(p.Number, r.Token) {
			return
		}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			h.Current = h.Max
			h.Dead = false
			h.DeathHandled = false
		}
		log.Printf("health: player %d revived", p.Number)
		w.Events().Push(ecs.Event{Type: ecs.EventPlayerRevived, Data: ecs.EntityEvent{Entity: e}})
	})

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, p *component.Player, h *component.Health) {
		hs.session.Bars.Set(p.Number, h.Ratio())
	})
}

func (hs *HealthSystem) playerDied(w *ecs.World, e ecs.Entity, p *component.Player) {
	log.Printf("health: player %d died", p.Number)
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		SetVelocity(body, 0, 0)
	}
	w.Events().Push(ecs.Event{Type: ecs.EventPlayerDied, Data: ecs.EntityEvent{Entity: e}})
	hs.session.PlayerDied(p.Number)

	token, ok := hs.session.ScheduleRevive(p.Number)
	if !ok {
		return
	}
	if r, exists := ecs.Get(w, e, component.ReviveComponent.Kind()); exists && r.Token == token {
		return
	}
	if err := ecs.Add(w, e, component.ReviveComponent.Kind(), &component.Revive{Remaining: hs.reviveDelay, Token: token}); err != nil {
		log.Printf("health: schedule revive: %v", err)
	}
}

func (hs *HealthSystem) entityDied(w *ecs.World, e ecs.Entity, h *component.Health) {
	if ecs.Has(w, e, component.EnemyTagComponent.Kind()) {
		w.Events().PlaySound("enemy_death", 1)
		w.Events().Push(ecs.Event{Type: ecs.EventEnemyKilled, Data: ecs.EntityEvent{Entity: e}})
	}
	if agent, ok := ecs.Get(w, e, component.NavAgentComponent.Kind()); ok {
		agent.Stopped = true
		agent.ClearDestination()
	}
	if !h.DestroyOnDeath {
		return
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.Disabled = true
	}
	if h.DestroyDelay <= 0 {
		ecs.DestroyEntity(w, e)
		return
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: h.DestroyDelay}); err != nil {
		log.Printf("health: schedule destroy: %v", err)
	}
}
