package prefabs

import (
	"image/color"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedPrefabsDecode(t *testing.T) {
	for _, name := range []string{"player.yaml", "enemy.yaml", "enemy_brute.yaml", "key.yaml", "locked_door.yaml", "treasure.yaml", "camera.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if spec.Name == "" || len(spec.Components) == 0 {
				t.Fatalf("expected a named prefab with components, got %+v", spec)
			}
			if _, ok := spec.Components["transform"]; !ok {
				t.Fatalf("every prefab carries a transform")
			}
		})
	}
}

func TestEnemyTunables(t *testing.T) {
	spec, err := LoadEntityBuildSpec("enemy.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ai, err := DecodeComponentSpec[EnemyAIComponentSpec](spec.Components["enemy_ai"])
	if err != nil {
		t.Fatal(err)
	}
	if ai.RotationSpeed != 8 || ai.SpeedDeadzone != 0.035 || ai.SnapDeadzone != 0.02 || ai.ArriveTolerance != 0.05 {
		t.Fatalf("unexpected locomotion tunables %+v", ai)
	}
	if !ai.FreezeOnAttack || ai.AttackDuration <= 0 {
		t.Fatalf("unexpected attack tunables %+v", ai)
	}
	nav, err := DecodeComponentSpec[NavAgentComponentSpec](spec.Components["nav_agent"])
	if err != nil {
		t.Fatal(err)
	}
	if nav.StoppingDistance < 0.1 {
		t.Fatalf("stopping distance %v below minimum", nav.StoppingDistance)
	}
}

func TestDecodeComponentSpecNil(t *testing.T) {
	got, err := DecodeComponentSpec[HealthComponentSpec](nil)
	if err != nil || got != (HealthComponentSpec{}) {
		t.Fatalf("nil node should decode to zero value, got %+v, %v", got, err)
	}
}

func TestLoadGameSpec(t *testing.T) {
	spec, err := LoadGameSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.MaxPlayers != 2 || spec.ReviveDelay != 10 || spec.Level == "" {
		t.Fatalf("unexpected game spec %+v", spec)
	}
}

func TestLoadArduinoConfig(t *testing.T) {
	cfg, err := LoadArduinoConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReadTimeout != 25*time.Millisecond {
		t.Fatalf("read timeout = %v", cfg.ReadTimeout)
	}
	if cfg.Baud != 9600 || cfg.Calibration.CenterX != 496 || !cfg.Calibration.BActiveLow {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  color.RGBA
		fails bool
	}{
		{"rgb", `"#4fa3e0"`, color.RGBA{0x4f, 0xa3, 0xe0, 0xff}, false},
		{"rgba_opaque", `"ff000080"`, color.RGBA{0x80, 0, 0, 0x80}, false},
		{"short", `"#fff"`, color.RGBA{}, true},
		{"not_hex", `"#zzzzzz"`, color.RGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.fails {
				if err == nil {
					t.Fatalf("expected an error for %s", c.in)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.RGBA8() != c.want {
				t.Fatalf("got %+v, want %+v", got.RGBA8(), c.want)
			}
		})
	}

	var unset YAMLColor
	if unset.RGBA8() != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("unset color should be white")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"brute", "brute.tengo", "scripts/brute.tengo", "prefabs/scripts/brute.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Change
		ok   bool
	}{
		{"prefabs/enemy.yaml", Change{Name: "enemy.yaml"}, true},
		{"prefabs/scripts/brute.tengo", Change{Name: "scripts/brute.tengo", Script: true}, true},
		{"prefabs/notes.txt", Change{}, false},
	}
	for _, c := range cases {
		got, ok := classify("prefabs", c.path)
		if ok != c.ok || got != c.want {
			t.Fatalf("classify(%q) = %+v, %v", c.path, got, ok)
		}
	}
}
