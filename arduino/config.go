// Package arduino turns a joystick sketch streaming "x512\ny487\nz0\nb1\n"
// over USB serial into a virtual gamepad the input system can read like any
// other pad.
package arduino

import "time"

// Config selects the serial port and the stick calibration.
type Config struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	Calibration Calibration `yaml:"calibration"`
}

// Calibration maps raw analogRead values onto [-1, 1].
type Calibration struct {
	CenterX int `yaml:"center_x"`
	CenterY int `yaml:"center_y"`
	RawMin  int `yaml:"raw_min"`
	RawMax  int `yaml:"raw_max"`

	Deadzone float64 `yaml:"deadzone"`
	// Smoothing is the per-60Hz-frame blend toward the new reading; zero
	// turns smoothing off.
	Smoothing float64 `yaml:"smoothing"`

	ZActiveLow bool `yaml:"z_active_low"`
	BActiveLow bool `yaml:"b_active_low"`
}

func DefaultCalibration() Calibration {
	return Calibration{
		CenterX:    496,
		CenterY:    507,
		RawMin:     0,
		RawMax:     1023,
		Deadzone:   0.09,
		Smoothing:  0.15,
		ZActiveLow: false,
		BActiveLow: true,
	}
}

func DefaultConfig() Config {
	return Config{
		Port:        "/dev/ttyACM0",
		Baud:        9600,
		ReadTimeout: 25 * time.Millisecond,
		Calibration: DefaultCalibration(),
	}
}
