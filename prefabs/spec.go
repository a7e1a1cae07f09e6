package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/keyhold/arduino"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec holds the run-wide tunables from game.yaml.
type GameSpec struct {
	Title       string  `yaml:"title"`
	MaxPlayers  int     `yaml:"max_players"`
	ReviveDelay float64 `yaml:"revive_delay"`
	PathWorkers int     `yaml:"path_workers"`
	Level       string  `yaml:"level"`
	// OutcomeVolume is the volume of the win/lose stingers.
	OutcomeVolume float64 `yaml:"outcome_volume"`
}

func DefaultGameSpec() GameSpec {
	return GameSpec{
		Title:         "Keyhold",
		MaxPlayers:    2,
		ReviveDelay:   10,
		PathWorkers:   4,
		Level:         "crypt.json",
		OutcomeVolume: 0.4,
	}
}

// LoadGameSpec overlays game.yaml on the defaults.
func LoadGameSpec() (GameSpec, error) {
	spec := DefaultGameSpec()
	data, err := Load("game.yaml")
	if err != nil {
		return spec, fmt.Errorf("prefabs: load game.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return DefaultGameSpec(), fmt.Errorf("prefabs: unmarshal game.yaml: %w", err)
	}
	if spec.MaxPlayers <= 0 {
		spec.MaxPlayers = 1
	}
	return spec, nil
}

type arduinoFile struct {
	Arduino arduino.Config `yaml:"arduino"`
}

// LoadArduinoConfig overlays arduino.yaml on arduino.DefaultConfig. Keys the
// file leaves out keep their defaults.
func LoadArduinoConfig() (arduino.Config, error) {
	file := arduinoFile{Arduino: arduino.DefaultConfig()}
	data, err := Load("arduino.yaml")
	if err != nil {
		return file.Arduino, fmt.Errorf("prefabs: load arduino.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return arduino.DefaultConfig(), fmt.Errorf("prefabs: unmarshal arduino.yaml: %w", err)
	}
	return file.Arduino, nil
}

type YAMLColor struct {
	color.Color
}

// RGBA8 returns the color as 8-bit RGBA, white when unset.
func (c YAMLColor) RGBA8() color.RGBA {
	if c.Color == nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
