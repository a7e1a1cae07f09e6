package system

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/session"
)

type fakeInput struct {
	states []DeviceState
}

func (f *fakeInput) Sample() []DeviceState {
	return f.states
}

var pad0 = component.Device{Kind: component.DeviceGamepad, GamepadID: 0}

func addPlayerControls(t *testing.T, w *ecs.World, e ecs.Entity, device component.Device) {
	t.Helper()
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{Device: device})
	mustAdd(t, w, e, component.AnimatorComponent.Kind(), component.NewAnimator())
	mustAdd(t, w, e, component.AudioComponent.Kind(), &component.Audio{
		Names:   []string{walkClip},
		Players: make([]*audio.Player, 1),
		Volume:  []float64{0.35},
		Loop:    []bool{true},
		Play:    []bool{false},
		Stop:    []bool{false},
	})
	p := get(t, w, e, component.PlayerComponent.Kind())
	p.MoveSpeed = 100
	p.MoveDeadzone = 0.1
	p.LookDeadzone = 0.2
}

func TestInputSystemRoutesByDevice(t *testing.T) {
	w := ecs.NewWorld()
	pad := spawnTestPlayer(t, w, 1, 50, 50)
	kb := spawnTestPlayer(t, w, 2, 80, 50)
	keyboard := component.Device{Kind: component.DeviceKeyboardMouse}
	mustAdd(t, w, pad, component.InputComponent.Kind(), &component.Input{Device: pad0, AttackPressed: true})
	mustAdd(t, w, kb, component.InputComponent.Kind(), &component.Input{Device: keyboard})

	src := &fakeInput{states: []DeviceState{
		{Device: pad0, MoveX: 2, MoveY: 0, LookX: 0.5},
		{Device: component.Device{Kind: component.DeviceGamepad, GamepadID: 1}, MoveX: -1, AttackPressed: true},
		{Device: keyboard, UsesMouse: true, ScreenX: common.BaseWidth/2 + 10, ScreenY: common.BaseHeight / 2, AttackPressed: true},
	}}
	in := NewInputSystem(src)
	in.Update(w)

	padIn := get(t, w, pad, component.InputComponent.Kind())
	if padIn.MoveX != 1 || padIn.MoveY != 0 {
		t.Fatalf("expected move clamped to (1,0), got (%v,%v)", padIn.MoveX, padIn.MoveY)
	}
	if padIn.LookX != 0.5 {
		t.Fatalf("expected look copied, got %v", padIn.LookX)
	}
	if padIn.AttackPressed {
		t.Fatalf("stale attack press should be cleared")
	}
	if padIn.Device != pad0 {
		t.Fatalf("device binding lost")
	}

	kbIn := get(t, w, kb, component.InputComponent.Kind())
	if !kbIn.UsesMouse || !kbIn.AttackPressed {
		t.Fatalf("expected mouse aim and attack press, got %+v", kbIn)
	}
	if kbIn.AimX != common.BaseWidth/2+10 || kbIn.AimY != common.BaseHeight/2 {
		t.Fatalf("expected aim at cursor without camera, got (%v,%v)", kbIn.AimX, kbIn.AimY)
	}
	if len(in.Devices()) != 3 {
		t.Fatalf("expected 3 sampled devices, got %d", len(in.Devices()))
	}
}

func TestRadialDeadzone(t *testing.T) {
	cases := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"inside", 0.1, 0.1, 0, 0},
		{"on_edge", 0.2, 0, 0, 0},
		{"outside", 0.5, -0.5, 0.5, -0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := radialDeadzone(c.x, c.y, stickDeadzone)
			if x != c.wantX || y != c.wantY {
				t.Fatalf("expected (%v,%v), got (%v,%v)", c.wantX, c.wantY, x, y)
			}
		})
	}
}

func TestPlayerControllerMovesAndFaces(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	e := spawnTestPlayer(t, w, 1, 100, 100)
	addPlayerControls(t, w, e, pad0)
	ps.Sync(w)

	in := get(t, w, e, component.InputComponent.Kind())
	in.MoveX, in.MoveY = 0, 1

	pc := NewPlayerControllerSystem()
	pc.Update(w)

	body := get(t, w, e, component.PhysicsBodyComponent.Kind())
	v := body.Body.Velocity()
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-100) > 1e-9 {
		t.Fatalf("expected velocity (0,100), got (%v,%v)", v.X, v.Y)
	}
	tr := get(t, w, e, component.TransformComponent.Kind())
	if math.Abs(tr.Rotation-math.Pi/2) > 1e-9 {
		t.Fatalf("expected facing +Y with instant rotation, got %v", tr.Rotation)
	}
	anim := get(t, w, e, component.AnimatorComponent.Kind())
	if got := anim.Float(AnimMoveY); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected forward locomotion 1, got %v", got)
	}
	sounds := get(t, w, e, component.AudioComponent.Kind())
	if !sounds.Play[0] {
		t.Fatalf("expected walk loop requested")
	}

	in.MoveX, in.MoveY = 0.05, 0
	pc.Update(w)
	if !sounds.Stop[0] {
		t.Fatalf("expected walk loop stopped inside the deadzone")
	}
	if v := body.Body.Velocity(); v.X != 0 || v.Y != 0 {
		t.Fatalf("expected zero velocity, got (%v,%v)", v.X, v.Y)
	}
}

func TestPlayerControllerDeadPlayerHolds(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	e := spawnTestPlayer(t, w, 1, 100, 100)
	addPlayerControls(t, w, e, pad0)
	ps.Sync(w)
	get(t, w, e, component.HealthComponent.Kind()).Dead = true

	in := get(t, w, e, component.InputComponent.Kind())
	in.MoveX, in.LookX = 1, 1
	NewPlayerControllerSystem().Update(w)

	if v := get(t, w, e, component.PhysicsBodyComponent.Kind()).Body.Velocity(); v.X != 0 || v.Y != 0 {
		t.Fatalf("dead player should not move, got (%v,%v)", v.X, v.Y)
	}
	if r := get(t, w, e, component.TransformComponent.Kind()).Rotation; r != 0 {
		t.Fatalf("dead player should not turn, got %v", r)
	}
}

func TestFacingTargetPriority(t *testing.T) {
	p := &component.Player{MoveDeadzone: 0.1, LookDeadzone: 0.2}
	tr := &component.Transform{X: 0, Y: 0}
	cases := []struct {
		name string
		in   component.Input
		mx   float64
		my   float64
		want float64
		ok   bool
	}{
		{"mouse", component.Input{Device: component.Device{Kind: component.DeviceKeyboardMouse}, UsesMouse: true, AimX: 0, AimY: -50}, 1, 0, -math.Pi / 2, true},
		{"look_over_move", component.Input{LookX: -1}, 0, 1, math.Pi, true},
		{"move", component.Input{}, 0, 1, math.Pi / 2, true},
		{"none", component.Input{}, 0, 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := facingTarget(p, &c.in, tr, c.mx, c.my, math.Hypot(c.mx, c.my))
			if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("expected %v/%v, got %v/%v", c.want, c.ok, got, ok)
			}
		})
	}
}

func TestPlayerAttackHitsEnemyOnce(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	player := spawnTestPlayer(t, w, 1, 48, 80)
	addPlayerControls(t, w, player, pad0)
	mustAdd(t, w, player, component.MeleeAttackComponent.Kind(), &component.MeleeAttack{
		Range:    96,
		Damage:   4,
		Cooldown: 0.5,
		FlagHold: 0.2,
		Sound:    "attack",
		HitSound: "enemy_damage",
	})
	enemy := spawnTestEnemy(t, w, 112, 80)
	ps.Update(w)

	pa := NewPlayerAttackSystem(ps)
	in := get(t, w, player, component.InputComponent.Kind())
	in.AttackPressed = true
	pa.Update(w)

	h := get(t, w, enemy, component.HealthComponent.Kind())
	if h.Current != 6 {
		t.Fatalf("expected enemy at 6 hp, got %v", h.Current)
	}
	if !get(t, w, player, component.AnimatorComponent.Kind()).Flag(AnimAttack) {
		t.Fatalf("expected attack flag raised")
	}
	events := w.Events().Drain()
	if len(events) != 2 {
		t.Fatalf("expected swing and hit sounds, got %d events", len(events))
	}
	if snd := events[1].Data.(ecs.SoundEvent); snd.Name != "enemy_damage" || snd.Volume != defaultHitVolume {
		t.Fatalf("unexpected hit sound %+v", snd)
	}

	// still cooling down
	pa.Update(w)
	if h.Current != 6 {
		t.Fatalf("attack during cooldown landed, hp=%v", h.Current)
	}

	in.AttackPressed = false
	for i := 0; i < common.TPS; i++ {
		pa.Update(w)
	}
	in.AttackPressed = true
	pa.Update(w)
	if h.Current != 2 {
		t.Fatalf("expected second hit after cooldown, got %v", h.Current)
	}
}

func TestPlayerAttackMissesBehindWall(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem()
	player := spawnTestPlayer(t, w, 1, 48, 80)
	addPlayerControls(t, w, player, pad0)
	mustAdd(t, w, player, component.MeleeAttackComponent.Kind(), &component.MeleeAttack{Range: 128, Damage: 4, Cooldown: 0.5})
	spawnWall(t, w, 80, 80, 16, 64)
	enemy := spawnTestEnemy(t, w, 112, 80)
	ps.Update(w)

	get(t, w, player, component.InputComponent.Kind()).AttackPressed = true
	NewPlayerAttackSystem(ps).Update(w)

	if h := get(t, w, enemy, component.HealthComponent.Kind()); h.Current != 10 {
		t.Fatalf("wall should block the swing, hp=%v", h.Current)
	}
}

func TestCameraFollowsCentroidWithinBounds(t *testing.T) {
	cases := []struct {
		name         string
		bounds       component.LevelBounds
		players      [][2]float64
		wantX, wantY float64
	}{
		{"centroid", component.LevelBounds{Width: 4000, Height: 4000}, [][2]float64{{1000, 1000}, {1200, 1400}}, 1100, 1200},
		{"clamped_to_corner", component.LevelBounds{Width: 4000, Height: 4000}, [][2]float64{{0, 0}}, common.BaseWidth / 2, common.BaseHeight / 2},
		{"small_level_centered", component.LevelBounds{Width: 320, Height: 320}, [][2]float64{{10, 300}}, 160, 160},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			be := ecs.CreateEntity(w)
			bounds := c.bounds
			mustAdd(t, w, be, component.LevelBoundsComponent.Kind(), &bounds)
			cam := ecs.CreateEntity(w)
			mustAdd(t, w, cam, component.TransformComponent.Kind(), &component.Transform{})
			mustAdd(t, w, cam, component.CameraComponent.Kind(), &component.Camera{Zoom: 1, Smoothness: 1})
			for i, p := range c.players {
				spawnTestPlayer(t, w, i+1, p[0], p[1])
			}

			NewCameraSystem().Update(w)
			tr := get(t, w, cam, component.TransformComponent.Kind())
			if tr.X != c.wantX || tr.Y != c.wantY {
				t.Fatalf("expected camera at (%v,%v), got (%v,%v)", c.wantX, c.wantY, tr.X, tr.Y)
			}
		})
	}
}

func TestPlayerCentroidSkipsDead(t *testing.T) {
	w := ecs.NewWorld()
	spawnTestPlayer(t, w, 1, 100, 100)
	dead := spawnTestPlayer(t, w, 2, 500, 500)
	get(t, w, dead, component.HealthComponent.Kind()).Dead = true

	x, y, ok := PlayerCentroid(w)
	if !ok || x != 100 || y != 100 {
		t.Fatalf("expected (100,100), got (%v,%v,%v)", x, y, ok)
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	w := ecs.NewWorld()
	cam := ecs.CreateEntity(w)
	mustAdd(t, w, cam, component.TransformComponent.Kind(), &component.Transform{X: 900, Y: 700})
	mustAdd(t, w, cam, component.CameraComponent.Kind(), &component.Camera{Zoom: 2})

	wx, wy := ScreenToWorld(w, 100, 50)
	sx, sy := WorldToScreen(w, wx, wy)
	if math.Abs(sx-100) > 1e-9 || math.Abs(sy-50) > 1e-9 {
		t.Fatalf("round trip drifted to (%v,%v)", sx, sy)
	}
}

func newJoinRig(t *testing.T, states ...DeviceState) (*ecs.World, *session.Session, *PlayerJoinSystem) {
	t.Helper()
	w := ecs.NewWorld()
	for i, pos := range [][2]float64{{48, 48}, {112, 48}} {
		e := ecs.CreateEntity(w)
		mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: pos[0], Y: pos[1]})
		mustAdd(t, w, e, component.PlayerSpawnComponent.Kind(), &component.PlayerSpawn{Number: i + 1})
	}
	s := session.New(1)
	in := NewInputSystem(&fakeInput{states: states})
	in.Update(w)
	return w, s, NewPlayerJoinSystem(in, s)
}

func TestPlayerJoinSpawnsOnce(t *testing.T) {
	w, s, pj := newJoinRig(t,
		DeviceState{Device: pad0, JoinPressed: true},
		DeviceState{Device: component.Device{Kind: component.DeviceKeyboardMouse}, JoinPressed: true},
	)
	pj.Update(w)
	pj.Update(w)

	members := s.Members()
	if len(members) != 1 {
		t.Fatalf("expected one member with a one-player roster, got %d", len(members))
	}
	m := members[0]
	if m.Entity == 0 || m.Device != pad0 {
		t.Fatalf("unexpected member %+v", m)
	}
	tr := get(t, w, m.Entity, component.TransformComponent.Kind())
	if tr.X != 48 || tr.Y != 48 {
		t.Fatalf("expected spawn 1 at (48,48), got (%v,%v)", tr.X, tr.Y)
	}
	if in := get(t, w, m.Entity, component.InputComponent.Kind()); in.Device != pad0 {
		t.Fatalf("expected input bound to the joining pad, got %+v", in.Device)
	}
	if n := len(w.Query(component.PlayerTagComponent.Kind().ID())); n != 1 {
		t.Fatalf("expected one player entity, got %d", n)
	}
}

func TestPlayerJoinRespawnsAfterReset(t *testing.T) {
	w, s, pj := newJoinRig(t, DeviceState{Device: pad0, JoinPressed: true})
	pj.Update(w)
	first := s.Members()[0].Entity

	ecs.DestroyEntity(w, first)
	s.Reset()
	pj.Update(w)

	m := s.Members()[0]
	if m.Entity == 0 || m.Entity == first {
		t.Fatalf("expected a fresh player entity, got %v", m.Entity)
	}
}
