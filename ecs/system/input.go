package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/keyhold/arduino"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const stickDeadzone = 0.2

// DeviceState is one device's controls sampled for the current frame.
type DeviceState struct {
	Device component.Device

	MoveX float64
	MoveY float64
	LookX float64
	LookY float64

	// ScreenX/ScreenY is the mouse cursor, keyboard+mouse only.
	ScreenX   float64
	ScreenY   float64
	UsesMouse bool

	Attack        bool
	AttackPressed bool
	JoinPressed   bool
}

// InputSource samples every device that can drive a player.
type InputSource interface {
	Sample() []DeviceState
}

// InputSystem samples the devices once per tick and copies each device's
// state into the Input of the player bound to it.
type InputSystem struct {
	source  InputSource
	devices []DeviceState
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

// Devices returns this tick's samples.
func (i *InputSystem) Devices() []DeviceState {
	return i.devices
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.source == nil {
		return
	}
	i.devices = i.source.Sample()

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		device := input.Device
		*input = component.Input{Device: device}
		for _, d := range i.devices {
			if d.Device != device {
				continue
			}
			input.MoveX, input.MoveY = clampStick(d.MoveX, d.MoveY)
			input.LookX, input.LookY = d.LookX, d.LookY
			input.Attack = d.Attack
			input.AttackPressed = d.AttackPressed
			if d.UsesMouse {
				input.UsesMouse = true
				input.AimX, input.AimY = ScreenToWorld(w, d.ScreenX, d.ScreenY)
			}
			return
		}
	})
}

// clampStick limits a move vector to unit length.
func clampStick(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l <= 1 {
		return x, y
	}
	return x / l, y / l
}

// radialDeadzone zeroes a stick inside the deadzone.
func radialDeadzone(x, y, deadzone float64) (float64, float64) {
	if math.Hypot(x, y) <= deadzone {
		return 0, 0
	}
	return x, y
}

// EbitenInput reads the keyboard, the mouse, every standard gamepad and
// the optional Arduino bridge.
type EbitenInput struct {
	Bridge *arduino.Bridge

	gamepadIDs     []ebiten.GamepadID
	arduinoTrigger bool
}

func (s *EbitenInput) Sample() []DeviceState {
	out := []DeviceState{s.keyboard()}

	s.gamepadIDs = ebiten.AppendGamepadIDs(s.gamepadIDs[:0])
	for _, id := range s.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		out = append(out, gamepad(id))
	}

	if s.Bridge != nil {
		pad := s.Bridge.Update(common.DeltaTime)
		if pad.Connected {
			out = append(out, s.arduino(pad))
		}
	}
	return out
}

func (s *EbitenInput) keyboard() DeviceState {
	d := DeviceState{Device: component.Device{Kind: component.DeviceKeyboardMouse}, UsesMouse: true}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.MoveX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.MoveY -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.MoveY += 1
	}
	mx, my := ebiten.CursorPosition()
	d.ScreenX, d.ScreenY = float64(mx), float64(my)

	d.Attack = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	d.AttackPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	d.JoinPressed = d.AttackPressed || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	return d
}

func gamepad(id ebiten.GamepadID) DeviceState {
	d := DeviceState{Device: component.Device{Kind: component.DeviceGamepad, GamepadID: int(id)}}
	d.MoveX, d.MoveY = radialDeadzone(
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		stickDeadzone,
	)
	d.LookX, d.LookY = radialDeadzone(
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
		stickDeadzone,
	)

	d.Attack = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight) ||
		ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	d.AttackPressed = inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight) ||
		inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	d.JoinPressed = d.AttackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	return d
}

// arduino maps the virtual pad. The pad's stick is +Y up; the world is +Y
// down.
func (s *EbitenInput) arduino(pad arduino.Pad) DeviceState {
	d := DeviceState{Device: component.Device{Kind: component.DeviceArduino}}
	d.MoveX, d.MoveY = pad.LeftX, -pad.LeftY
	d.Attack = pad.RightTrigger > 0.5
	d.AttackPressed = d.Attack && !s.arduinoTrigger
	d.JoinPressed = d.AttackPressed || pad.North
	s.arduinoTrigger = d.Attack
	return d
}
