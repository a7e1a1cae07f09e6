package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/keyhold/ecs/component"
)

type testPos struct{ X, Y float64 }

type testTag struct{ On bool }

func intPtr(i int) *int {
	return &i
}

func entitySlice(all []Entity, idx ...int) []Entity {
	out := make([]Entity, 0, len(idx))
	for _, i := range idx {
		out = append(out, all[i])
	}
	return out
}

func sameEntities(a, b []Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEntityHandle(t *testing.T) {
	tests := []struct {
		name  string
		e     Entity
		slot  entityID
		gen   generation
		str   string
		valid bool
	}{
		{"none", NoEntity, 0, 0, "none", false},
		{"first_slot", makeEntity(1, 1), 1, 1, "1.1", true},
		{"recycled", makeEntity(7, 3), 7, 3, "7.3", true},
		{"high_generation", makeEntity(2, 1<<31), 2, 1 << 31, "2.2147483648", true},
		{"slot_without_generation", makeEntity(4, 0), 4, 0, "4.0", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.e.id() != tc.slot || tc.e.generation() != tc.gen {
				t.Fatalf("expected slot %d gen %d, got %d gen %d", tc.slot, tc.gen, tc.e.id(), tc.e.generation())
			}
			if got := tc.e.String(); got != tc.str {
				t.Fatalf("expected %q, got %q", tc.str, got)
			}
			if tc.e.Valid() != tc.valid {
				t.Fatalf("expected Valid=%v", tc.valid)
			}
		})
	}
}

func TestEntityRecycling(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	if !DestroyEntity(w, a) {
		t.Fatal("destroy failed")
	}
	if DestroyEntity(w, a) {
		t.Fatal("second destroy should report false")
	}
	b := CreateEntity(w)
	if b.id() != a.id() {
		t.Fatalf("expected slot %d to be reused, got %d", a.id(), b.id())
	}
	if a.String() != "1.1" || b.String() != "1.2" {
		t.Fatalf("expected 1.1 then 1.2, got %s then %s", a, b)
	}
	if IsAlive(w, a) {
		t.Fatalf("stale handle must not be alive")
	}
	if !IsAlive(w, b) {
		t.Fatalf("new handle should be alive")
	}
}

func TestStaleHandleIsInert(t *testing.T) {
	w := NewWorld()
	hp := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, hp.Kind(), intPtr(5)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)
	fresh := CreateEntity(w)

	if Has(w, fresh, hp.Kind()) {
		t.Fatalf("recycled slot must not inherit components")
	}
	if _, ok := Get(w, old, hp.Kind()); ok {
		t.Fatalf("stale Get should miss")
	}
	if err := Add(w, old, hp.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if Remove(w, old, hp.Kind()) {
		t.Fatalf("stale Remove should report false")
	}
	if Has(w, fresh, hp.Kind()) {
		t.Fatalf("stale Add must not land on the recycled slot")
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"nil_value", func() error { return Add[int](w, e, h.Kind(), nil) }, component.ErrNilComponent},
		{"zero_kind", func() error { return Add(w, e, component.ComponentKind[int]{}, intPtr(1)) }, component.ErrInvalidComponentKind},
		{"zero_kind_beats_dead_entity", func() error { return Add(w, NoEntity, component.ComponentKind[int]{}, intPtr(1)) }, component.ErrInvalidComponentKind},
		{"unissued_handle", func() error { return Add(w, makeEntity(40, 1), h.Kind(), intPtr(1)) }, component.ErrEntityNotAlive},
		{"dead_entity", func() error {
			dead := CreateEntity(w)
			DestroyEntity(w, dead)
			return Add(w, dead, h.Kind(), intPtr(1))
		}, component.ErrEntityNotAlive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAddReplacesValue(t *testing.T) {
	w := NewWorld()
	pos := component.NewComponent[testPos]()
	e := CreateEntity(w)

	first := &testPos{X: 1}
	_ = Add(w, e, pos.Kind(), first)
	_ = Add(w, e, pos.Kind(), &testPos{X: 2})

	got, ok := Get(w, e, pos.Kind())
	if !ok || got.X != 2 {
		t.Fatalf("expected replaced value, got %+v ok=%v", got, ok)
	}
	if len(w.Query(pos.Kind().ID())) != 1 {
		t.Fatalf("replacing must not duplicate the entity")
	}
}

// The stores below are filled in different orders with a removal, so the
// joins run over dense arrays that are neither aligned nor sorted.
func TestForEachJoinsShuffledStores(t *testing.T) {
	w := NewWorld()
	pos := component.NewComponent[testPos]()
	hp := component.NewComponent[int]()
	tag := component.NewComponent[testTag]()
	name := component.NewComponent[string]()

	ents := make([]Entity, 6)
	for i := range ents {
		ents[i] = CreateEntity(w)
	}
	for _, i := range []int{5, 4, 3, 2, 1, 0} {
		_ = Add(w, ents[i], pos.Kind(), &testPos{})
	}
	for _, i := range []int{4, 0, 2, 5} {
		_ = Add(w, ents[i], hp.Kind(), intPtr(i*10))
	}
	for _, i := range []int{5, 2, 0} {
		_ = Add(w, ents[i], tag.Kind(), &testTag{On: true})
	}
	for _, i := range []int{2, 5, 0, 3} {
		n := "e"
		_ = Add(w, ents[i], name.Kind(), &n)
	}
	Remove(w, ents[0], hp.Kind())

	var two, three, four []Entity
	ForEach2(w, pos.Kind(), hp.Kind(), func(e Entity, p *testPos, h *int) {
		two = append(two, e)
		p.X = float64(*h)
	})
	ForEach3(w, pos.Kind(), hp.Kind(), tag.Kind(), func(e Entity, _ *testPos, _ *int, tg *testTag) {
		three = append(three, e)
		tg.On = false
	})
	ForEach4(w, pos.Kind(), hp.Kind(), tag.Kind(), name.Kind(), func(e Entity, p *testPos, _ *int, _ *testTag, _ *string) {
		four = append(four, e)
		p.Y = 1
	})

	tests := []struct {
		name string
		got  []Entity
		want []Entity
	}{
		{"pos_hp", two, entitySlice(ents, 2, 4, 5)},
		{"pos_hp_tag", three, entitySlice(ents, 2, 5)},
		{"pos_hp_tag_name", four, entitySlice(ents, 2, 5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !sameEntities(tc.got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, tc.got)
			}
		})
	}

	p, _ := Get(w, ents[4], pos.Kind())
	if p.X != 40 || p.Y != 0 {
		t.Fatalf("expected writes through ForEach2 only, got %+v", p)
	}
	p, _ = Get(w, ents[5], pos.Kind())
	if p.X != 50 || p.Y != 1 {
		t.Fatalf("expected writes through ForEach2 and ForEach4, got %+v", p)
	}
	if tg, _ := Get(w, ents[0], tag.Kind()); !tg.On {
		t.Fatalf("entity without hp must be skipped by ForEach3")
	}
}

func TestFirstAfterRemovals(t *testing.T) {
	w := NewWorld()
	cam := component.NewComponent[testPos]()
	unused := component.NewComponent[testTag]()

	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = CreateEntity(w)
	}
	for _, i := range []int{3, 1, 2} {
		_ = Add(w, ents[i], cam.Kind(), &testPos{})
	}

	steps := []struct {
		name   string
		mutate func()
		want   Entity
		ok     bool
	}{
		{"lowest_slot_wins", func() {}, ents[1], true},
		{"after_remove", func() { Remove(w, ents[1], cam.Kind()) }, ents[2], true},
		{"after_destroy", func() { DestroyEntity(w, ents[2]) }, ents[3], true},
		{"recycled_slot_without_component", func() { CreateEntity(w) }, ents[3], true},
		{"empty", func() { Remove(w, ents[3], cam.Kind()) }, NoEntity, false},
	}
	for _, st := range steps {
		st.mutate()
		got, ok := First(w, cam.Kind())
		if got != st.want || ok != st.ok {
			t.Fatalf("%s: expected %v ok=%v, got %v ok=%v", st.name, st.want, st.ok, got, ok)
		}
	}

	if _, ok := First(w, unused.Kind()); ok {
		t.Fatalf("a kind with no store has no first entity")
	}
}

func TestQueryAscendingOrder(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	ents := make([]Entity, 5)
	for i := range ents {
		ents[i] = CreateEntity(w)
	}
	for _, i := range []int{4, 1, 3, 0, 2} {
		if err := Add(w, ents[i], k, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}
	Remove(w, ents[1], k)

	got := w.Query(k.ID())
	want := entitySlice(ents, 0, 2, 3, 4)
	if !sameEntities(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, e := range want {
		v, _ := Get(w, e, k)
		if *v != []int{0, 2, 3, 4}[i] {
			t.Fatalf("value for %v drifted during sort: %d", e, *v)
		}
	}
}

func TestEntitiesSkipsDestroyed(t *testing.T) {
	w := NewWorld()
	a, b, c := CreateEntity(w), CreateEntity(w), CreateEntity(w)
	DestroyEntity(w, b)
	if got := Entities(w); !sameEntities(got, []Entity{a, c}) {
		t.Fatalf("expected [%v %v], got %v", a, c, got)
	}
}

func TestForEachDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	a := CreateEntity(w)
	b := CreateEntity(w)
	_ = Add(w, a, k, intPtr(1))
	_ = Add(w, b, k, intPtr(2))

	var seen []Entity
	ForEach(w, k, func(e Entity, _ *int) {
		seen = append(seen, e)
		if e == a {
			DestroyEntity(w, b)
		}
	})
	if !sameEntities(seen, []Entity{a}) {
		t.Fatalf("expected only a to be visited, got %v", seen)
	}
}

func TestForEachSpawnDuringIteration(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	_ = Add(w, CreateEntity(w), k, intPtr(1))

	visits := 0
	ForEach(w, k, func(_ Entity, _ *int) {
		visits++
		_ = Add(w, CreateEntity(w), k, intPtr(2))
	})
	if visits != 1 {
		t.Fatalf("entities spawned mid-iteration must wait for the next pass, got %d visits", visits)
	}
	if n := len(w.Query(k.ID())); n != 2 {
		t.Fatalf("expected the spawned entity to be stored, got %d", n)
	}
}

func TestNilWorld(t *testing.T) {
	var w *World
	k := component.NewComponentKind[int]()
	if IsAlive(w, makeEntity(1, 1)) || DestroyEntity(w, makeEntity(1, 1)) {
		t.Fatalf("nil world has no live entities")
	}
	if Entities(w) != nil || w.Query(k.ID()) != nil {
		t.Fatalf("nil world queries should be empty")
	}
	if _, ok := First(w, k); ok {
		t.Fatalf("nil world has no first entity")
	}
	if w.Events() != nil {
		t.Fatalf("nil world has no event queue")
	}
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var order []string
	step := func(name string) System {
		return SystemFunc(func(*World) { order = append(order, name) })
	}
	s := NewScheduler(step("input"), step("physics"))
	s.Add(nil)
	s.Add(step("render"))

	s.Update(NewWorld())
	want := []string{"input", "physics", "render"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}

	systems := s.Systems()
	systems[0] = nil
	if s.Systems()[0] == nil {
		t.Fatalf("Systems must return a copy")
	}
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.PlaySound("attack", 1)
	q.Push(Event{Type: EventKeyCollected})
	if q.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", q.Len())
	}
	events := q.Drain()
	if len(events) != 2 || events[0].Type != EventSound || events[1].Type != EventKeyCollected {
		t.Fatalf("unexpected events %+v", events)
	}
	if snd, ok := events[0].Data.(SoundEvent); !ok || snd.Name != "attack" {
		t.Fatalf("expected sound payload, got %+v", events[0].Data)
	}
	if q.Drain() != nil {
		t.Fatalf("expected empty queue after drain")
	}
}
