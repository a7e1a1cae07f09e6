package component

// Device identifies what drives a player's Input.
type Device struct {
	Kind      DeviceKind
	GamepadID int
}

type DeviceKind int

const (
	DeviceNone DeviceKind = iota
	DeviceKeyboardMouse
	DeviceGamepad
	DeviceArduino
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKeyboardMouse:
		return "keyboard_mouse"
	case DeviceGamepad:
		return "gamepad"
	case DeviceArduino:
		return "arduino"
	}
	return "none"
}

// Input stores per-frame input state for an entity.
type Input struct {
	Device Device

	MoveX float64
	MoveY float64
	LookX float64
	LookY float64

	// AimX/AimY is the mouse position in world space; only meaningful when
	// UsesMouse is set.
	AimX      float64
	AimY      float64
	UsesMouse bool

	Attack        bool
	AttackPressed bool
}

var InputComponent = NewComponent[Input]()
