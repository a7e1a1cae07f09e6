package component

// EnemyAwareness is the enemy's proximity sensor.
type EnemyAwareness struct {
	DetectionRadius float64
	TargetMask      uint32
	// CheckInterval in seconds; zero checks every tick.
	CheckInterval float64
	Timer         float64

	Aware   bool
	Targets []uint64
}

var EnemyAwarenessComponent = NewComponent[EnemyAwareness]()

// CombatState is the enemy's coarse behaviour state.
type CombatState int

const (
	CombatIdle CombatState = iota
	CombatSeeking
	CombatAttacking
)

func (s CombatState) String() string {
	switch s {
	case CombatSeeking:
		return "seeking"
	case CombatAttacking:
		return "attacking"
	}
	return "idle"
}

// EnemyAI holds the locomotion/attack tunables and the per-enemy runtime
// attack state.
type EnemyAI struct {
	RotationSpeed    float64
	SpeedDeadzone    float64
	SnapDeadzone     float64
	ArriveTolerance  float64
	AnimDampMoving   float64
	AnimDampStopping float64

	AttackRange    float64
	AttackDamage   float64
	AttackDuration float64
	AttackCooldown float64
	FreezeOnAttack bool
	AttackSound    string

	HomeX float64
	HomeY float64

	State      CombatState
	Target     uint64
	HadTarget  bool
	Attacking  bool
	AttackLeft float64
	Cooldown   float64
	// Struck marks that this attack's mid-swing ray already fired.
	Struck bool
}

var EnemyAIComponent = NewComponent[EnemyAI]()

// EnemySpawner instantiates Prefab at its transform once.
type EnemySpawner struct {
	Prefab  string
	Spawned bool
}

var EnemySpawnerComponent = NewComponent[EnemySpawner]()

// AIScript binds an enemy to a tengo script.
type AIScript struct {
	Name string
}

var AIScriptComponent = NewComponent[AIScript]()
