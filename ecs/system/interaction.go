package system

import (
	"log"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/session"
)

// contactMargin widens a player's bounds so resting contact still counts
// after the solver pushed the shapes apart.
const contactMargin = 2.0

const touchMask = component.CategoryKey | component.CategoryLockedDoor | component.CategoryTreasure | component.CategoryEnemy

type contactPair struct {
	player ecs.Entity
	other  ecs.Entity
}

// InteractionSystem resolves player contacts with keys, locked doors,
// treasure and enemies. Each (player, other) pair fires once when contact
// begins.
type InteractionSystem struct {
	physics  *PhysicsSystem
	session  *session.Session
	contacts map[contactPair]struct{}
}

func NewInteractionSystem(physics *PhysicsSystem, s *session.Session) *InteractionSystem {
	return &InteractionSystem{physics: physics, session: s, contacts: make(map[contactPair]struct{})}
}

// Reset forgets the contacts of a previous level.
func (is *InteractionSystem) Reset() {
	is.contacts = make(map[contactPair]struct{})
}

func (is *InteractionSystem) Update(w *ecs.World) {
	if is.session.Decided() {
		return
	}
	current := make(map[contactPair]struct{}, len(is.contacts))
	var began []contactPair

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, _ *component.Player, t *component.Transform, body *component.PhysicsBody) {
		if isDead(w, e) {
			return
		}
		var touching []ecs.Entity
		if body.Radius > 0 {
			touching = OverlapCircle(is.physics.Space(), t.X, t.Y, body.Radius+contactMargin, touchMask)
		} else {
			touching = OverlapBox(is.physics.Space(), t.X, t.Y, body.Width/2+contactMargin, body.Height/2+contactMargin, touchMask, e)
		}
		for _, other := range touching {
			if other == e {
				continue
			}
			pair := contactPair{player: e, other: other}
			current[pair] = struct{}{}
			if _, ok := is.contacts[pair]; !ok {
				began = append(began, pair)
			}
		}
	})
	is.contacts = current

	for _, pair := range began {
		if !ecs.IsAlive(w, pair.player) || !ecs.IsAlive(w, pair.other) {
			continue
		}
		is.touch(w, pair.player, pair.other)
		if is.session.Decided() {
			return
		}
	}
}

func (is *InteractionSystem) touch(w *ecs.World, player, other ecs.Entity) {
	if ecs.Has(w, other, component.EnemyTagComponent.Kind()) {
		if isDead(w, other) || isDead(w, player) {
			return
		}
		p, _ := ecs.Get(w, player, component.PlayerComponent.Kind())
		if ApplyDamage(w, player, p.ContactDamage) {
			w.Events().PlaySound("player_hurt", 0.6)
		}
		return
	}

	it, ok := ecs.Get(w, other, component.InteractableComponent.Kind())
	if !ok || it.Used {
		return
	}
	switch it.Kind {
	case component.InteractionKey:
		it.Used = true
		keys := is.session.AddKey()
		log.Printf("interaction: key picked up (%d held)", keys)
		w.Events().PlaySound("key_pickup", 1)
		w.Events().Push(ecs.Event{Type: ecs.EventKeyCollected, Data: ecs.EntityEvent{Entity: other}})
		ecs.DestroyEntity(w, other)
	case component.InteractionLockedDoor:
		if !is.session.SpendKey() {
			log.Printf("door: locked, no keys")
			w.Events().Push(ecs.Event{Type: ecs.EventDoorLocked, Data: ecs.EntityEvent{Entity: other}})
			return
		}
		it.Used = true
		OpenDoor(w, other)
		w.Events().PlaySound("door_open", 1)
		w.Events().Push(ecs.Event{Type: ecs.EventDoorOpened, Data: ecs.EntityEvent{Entity: other}})
	case component.InteractionTreasure:
		it.Used = true
		is.session.Win()
	}
}

// OpenDoor reopens the door's nav cells and removes it.
func OpenDoor(w *ecs.World, door ecs.Entity) {
	if cells, ok := ecs.Get(w, door, component.DoorCellsComponent.Kind()); ok {
		if grid, ok := navGrid(w); ok {
			for _, c := range cells.Cells {
				grid.SetBlocked(c[0], c[1], false)
			}
		}
	}
	ecs.DestroyEntity(w, door)
}
