package entity

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"enemy_tag":       addEnemyTag,
	"obstacle_tag":    addObstacleTag,
	"camera_tag":      addCameraTag,
	"transform":       addTransform,
	"player":          addPlayer,
	"input":           addInput,
	"melee_attack":    addMeleeAttack,
	"health":          addHealth,
	"physics_body":    addPhysicsBody,
	"collision_layer": addCollisionLayer,
	"interactable":    addInteractable,
	"enemy_awareness": addEnemyAwareness,
	"enemy_ai":        addEnemyAI,
	"nav_agent":       addNavAgent,
	"animator":        addAnimator,
	"audio":           addAudio,
	"sprite":          addSprite,
	"render_layer":    addRenderLayer,
	"camera":          addCamera,
	"ai_script":       addAIScript,
}

var componentBuildOrder = []string{
	"player_tag",
	"enemy_tag",
	"obstacle_tag",
	"camera_tag",
	"transform",
	"player",
	"input",
	"melee_attack",
	"health",
	"interactable",
	"enemy_awareness",
	"enemy_ai",
	"nav_agent",
	"animator",
	"audio",
	"sprite",
	"render_layer",
	"camera",
	"ai_script",
	"collision_layer",
	"physics_body",
}

// BuildEntity creates an entity from a prefab file. On error nothing is left
// in the world.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	for _, name := range orderedComponents(spec.Components) {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	if err := ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Path: prefabPath}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// orderedComponents returns the known components in build order followed
// by any unknown names sorted, so errors are reported deterministically.
func orderedComponents(components map[string]any) []string {
	out := make([]string, 0, len(components))
	seen := make(map[string]bool, len(components))
	for _, name := range componentBuildOrder {
		if _, ok := components[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range components {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

// meters converts a prefab distance or speed into world units.
func meters(v float64) float64 {
	return v * common.TileSize
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addObstacleTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        meters(spec.X),
		Y:        meters(spec.Y),
		Rotation: spec.Rotation,
	})
}

type playerSpec = prefabs.PlayerComponentSpec

func playerFromSpec(spec playerSpec) component.Player {
	return component.Player{
		MoveSpeed:     meters(spec.MoveSpeed),
		RotationSpeed: spec.RotationSpeed,
		AnimDamp:      spec.AnimDamp,
		MoveDeadzone:  spec.MoveDeadzone,
		LookDeadzone:  spec.LookDeadzone,
		ContactDamage: spec.ContactDamage,
	}
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	p := playerFromSpec(spec)
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &p)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type meleeAttackSpec = prefabs.MeleeAttackComponentSpec

func meleeAttackFromSpec(spec meleeAttackSpec) component.MeleeAttack {
	return component.MeleeAttack{
		Range:    meters(spec.Range),
		Damage:   spec.Damage,
		Cooldown: spec.Cooldown,
		FlagHold: spec.FlagHold,
		Sound:    spec.Sound,
		HitSound: spec.HitSound,
		HitVol:   spec.HitVolume,
	}
}

func addMeleeAttack(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[meleeAttackSpec](raw)
	if err != nil {
		return fmt.Errorf("decode melee attack spec: %w", err)
	}
	m := meleeAttackFromSpec(spec)
	return ecs.Add(w, e, component.MeleeAttackComponent.Kind(), &m)
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		spec.Max = 100
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{
		Current:        spec.Max,
		Max:            spec.Max,
		DestroyOnDeath: spec.DestroyOnDeath,
		DestroyDelay:   spec.DestroyDelay,
	})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.Radius <= 0 && (spec.Width <= 0 || spec.Height <= 0) {
		spec.Width, spec.Height = 1, 1
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    meters(spec.Width),
		Height:   meters(spec.Height),
		Radius:   meters(spec.Radius),
		Mass:     spec.Mass,
		Friction: spec.Friction,
		Static:   spec.Static,
		Sensor:   spec.Sensor,
	})
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	category, err := component.ParseCategories(spec.Category)
	if err != nil {
		return err
	}
	mask, err := component.ParseCategories(spec.Mask)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: category,
		Mask:     mask,
	})
}

type interactableSpec = prefabs.InteractableComponentSpec

func addInteractable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[interactableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactable spec: %w", err)
	}
	kind, ok := component.ParseInteractionKind(spec.Kind)
	if !ok {
		return fmt.Errorf("unknown interaction kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.InteractableComponent.Kind(), &component.Interactable{Kind: kind})
}

type enemyAwarenessSpec = prefabs.EnemyAwarenessComponentSpec

func enemyAwarenessFromSpec(spec enemyAwarenessSpec) (component.EnemyAwareness, error) {
	mask := component.CategoryPlayer
	if len(spec.Targets) > 0 {
		var err error
		if mask, err = component.ParseCategories(spec.Targets); err != nil {
			return component.EnemyAwareness{}, err
		}
	}
	return component.EnemyAwareness{
		DetectionRadius: meters(spec.DetectionRadius),
		CheckInterval:   spec.CheckInterval,
		TargetMask:      mask,
	}, nil
}

func addEnemyAwareness(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[enemyAwarenessSpec](raw)
	if err != nil {
		return fmt.Errorf("decode enemy awareness spec: %w", err)
	}
	aw, err := enemyAwarenessFromSpec(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.EnemyAwarenessComponent.Kind(), &aw)
}

type enemyAISpec = prefabs.EnemyAIComponentSpec

func enemyAIFromSpec(spec enemyAISpec) component.EnemyAI {
	return component.EnemyAI{
		RotationSpeed:    spec.RotationSpeed,
		SpeedDeadzone:    meters(spec.SpeedDeadzone),
		SnapDeadzone:     spec.SnapDeadzone,
		ArriveTolerance:  meters(spec.ArriveTolerance),
		AnimDampMoving:   spec.AnimDampMoving,
		AnimDampStopping: spec.AnimDampStopping,
		AttackRange:      meters(spec.AttackRange),
		AttackDamage:     spec.AttackDamage,
		AttackDuration:   spec.AttackDuration,
		AttackCooldown:   spec.AttackCooldown,
		FreezeOnAttack:   spec.FreezeOnAttack,
		AttackSound:      spec.AttackSound,
	}
}

func addEnemyAI(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[enemyAISpec](raw)
	if err != nil {
		return fmt.Errorf("decode enemy ai spec: %w", err)
	}
	ai := enemyAIFromSpec(spec)
	return ecs.Add(w, e, component.EnemyAIComponent.Kind(), &ai)
}

type navAgentSpec = prefabs.NavAgentComponentSpec

// minStoppingDistance keeps agents from orbiting a destination they can
// never reach exactly.
const minStoppingDistance = 0.1

func navAgentFromSpec(spec navAgentSpec) component.NavAgent {
	return component.NavAgent{
		Speed:            meters(spec.Speed),
		Acceleration:     meters(spec.Acceleration),
		StoppingDistance: meters(max(spec.StoppingDistance, minStoppingDistance)),
		RepathInterval:   spec.RepathInterval,
	}
}

func addNavAgent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[navAgentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode nav agent spec: %w", err)
	}
	agent := navAgentFromSpec(spec)
	return ecs.Add(w, e, component.NavAgentComponent.Kind(), &agent)
}

func addAnimator(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AnimatorComponent.Kind(), component.NewAnimator())
}

type audioSpec = prefabs.AudioComponentSpec

func addAudio(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[audioSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	n := len(spec.Clips)
	if n == 0 {
		return nil
	}
	comp := &component.Audio{
		Names:   make([]string, 0, n),
		Players: make([]*audio.Player, n),
		Volume:  make([]float64, 0, n),
		Loop:    make([]bool, 0, n),
		Play:    make([]bool, n),
		Stop:    make([]bool, n),
	}
	for i, clip := range spec.Clips {
		if clip.Name == "" {
			return fmt.Errorf("audio clip %d has no name", i)
		}
		if clip.Volume <= 0 {
			clip.Volume = 1
		}
		comp.Names = append(comp.Names, clip.Name)
		comp.Volume = append(comp.Volume, clip.Volume)
		comp.Loop = append(comp.Loop, clip.Loop)
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), comp)
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}
	var shape component.ShapeKind
	switch spec.Shape {
	case "", "rect":
		shape = component.ShapeRect
	case "circle":
		shape = component.ShapeCircle
	default:
		return fmt.Errorf("unknown sprite shape %q", spec.Shape)
	}
	return ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Shape:  shape,
		Width:  meters(spec.Width),
		Height: meters(spec.Height),
		Radius: meters(spec.Radius),
		Color:  spec.Color.RGBA8(),
		Facing: spec.Facing,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type cameraSpec = prefabs.CameraComponentSpec

func cameraFromSpec(spec cameraSpec) component.Camera {
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	if spec.Smoothness <= 0 {
		spec.Smoothness = 0.125
	}
	return component.Camera{Zoom: spec.Zoom, Smoothness: spec.Smoothness}
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	c := cameraFromSpec(spec)
	return ecs.Add(w, e, component.CameraComponent.Kind(), &c)
}

type aiScriptSpec = prefabs.AIScriptComponentSpec

func addAIScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[aiScriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ai script spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("ai script has no name")
	}
	return ecs.Add(w, e, component.AIScriptComponent.Kind(), &component.AIScript{Name: spec.Script})
}
