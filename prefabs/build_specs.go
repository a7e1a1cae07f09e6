package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab file: a name plus one raw node per component.
// Distances and speeds are in meters; the entity builder scales them.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type PlayerComponentSpec struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	AnimDamp      float64 `yaml:"anim_damp"`
	MoveDeadzone  float64 `yaml:"move_deadzone"`
	LookDeadzone  float64 `yaml:"look_deadzone"`
	ContactDamage float64 `yaml:"contact_damage"`
}

type MeleeAttackComponentSpec struct {
	Range     float64 `yaml:"range"`
	Damage    float64 `yaml:"damage"`
	Cooldown  float64 `yaml:"cooldown"`
	FlagHold  float64 `yaml:"flag_hold"`
	Sound     string  `yaml:"sound"`
	HitSound  string  `yaml:"hit_sound"`
	HitVolume float64 `yaml:"hit_volume"`
}

type HealthComponentSpec struct {
	Max            float64 `yaml:"max"`
	DestroyOnDeath bool    `yaml:"destroy_on_death"`
	DestroyDelay   float64 `yaml:"destroy_delay"`
}

type PhysicsBodyComponentSpec struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
	Static   bool    `yaml:"static"`
	Sensor   bool    `yaml:"sensor"`
}

// CollisionLayerComponentSpec names categories instead of bits, e.g.
// category: [enemy], mask: [obstacle, player, enemy].
type CollisionLayerComponentSpec struct {
	Category []string `yaml:"category"`
	Mask     []string `yaml:"mask"`
}

type InteractableComponentSpec struct {
	Kind string `yaml:"kind"`
}

type EnemyAwarenessComponentSpec struct {
	DetectionRadius float64  `yaml:"detection_radius"`
	CheckInterval   float64  `yaml:"check_interval"`
	Targets         []string `yaml:"targets"`
}

type EnemyAIComponentSpec struct {
	RotationSpeed    float64 `yaml:"rotation_speed"`
	SpeedDeadzone    float64 `yaml:"speed_deadzone"`
	SnapDeadzone     float64 `yaml:"snap_deadzone"`
	ArriveTolerance  float64 `yaml:"arrive_tolerance"`
	AnimDampMoving   float64 `yaml:"anim_damp_moving"`
	AnimDampStopping float64 `yaml:"anim_damp_stopping"`

	AttackRange    float64 `yaml:"attack_range"`
	AttackDamage   float64 `yaml:"attack_damage"`
	AttackDuration float64 `yaml:"attack_duration"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	FreezeOnAttack bool    `yaml:"freeze_on_attack"`
	AttackSound    string  `yaml:"attack_sound"`
}

type NavAgentComponentSpec struct {
	Speed            float64 `yaml:"speed"`
	Acceleration     float64 `yaml:"acceleration"`
	StoppingDistance float64 `yaml:"stopping_distance"`
	RepathInterval   float64 `yaml:"repath_interval"`
}

type SpriteComponentSpec struct {
	Shape  string    `yaml:"shape"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Radius float64   `yaml:"radius"`
	Color  YAMLColor `yaml:"color"`
	Facing bool      `yaml:"facing"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type CameraComponentSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"`
	Loop   bool    `yaml:"loop"`
}

type AudioComponentSpec struct {
	Clips []AudioClipSpec `yaml:"clips"`
}

type AIScriptComponentSpec struct {
	Script string `yaml:"script"`
}
