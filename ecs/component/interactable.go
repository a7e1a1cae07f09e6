package component

// InteractionKind is the closed set of things a player can touch.
type InteractionKind int

const (
	InteractionNone InteractionKind = iota
	InteractionKey
	InteractionLockedDoor
	InteractionTreasure
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionKey:
		return "key"
	case InteractionLockedDoor:
		return "locked_door"
	case InteractionTreasure:
		return "treasure"
	default:
		return "none"
	}
}

// ParseInteractionKind maps a prefab name to its kind.
func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch s {
	case "key":
		return InteractionKey, true
	case "locked_door", "door":
		return InteractionLockedDoor, true
	case "treasure":
		return InteractionTreasure, true
	}
	return InteractionNone, false
}

// Category returns the collision category used for the kind.
func (k InteractionKind) Category() uint32 {
	switch k {
	case InteractionKey:
		return CategoryKey
	case InteractionLockedDoor:
		return CategoryLockedDoor
	case InteractionTreasure:
		return CategoryTreasure
	}
	return 0
}

type Interactable struct {
	Kind InteractionKind
	// Used is set once the interaction resolved and the entity is going away.
	Used bool
}

var InteractableComponent = NewComponent[Interactable]()
