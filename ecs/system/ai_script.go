package system

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/prefabs"
)

// Scripts define onEnter, update and onExit, each taking
// (engine, state, current). The dispatch below is appended to the script
// and picks the hook from __phase.
const aiScriptDispatch = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
	// state outlives recompiles so hot reloads keep script memory.
	state   *tengo.Map
	current component.CombatState
	entered bool
	failed  bool
}

// AIScriptSystem runs the tengo hooks of enemies carrying an AIScript.
// Hooks fire after the combat state settles for the tick: onExit(old) and
// onEnter(new) on a change, then update.
type AIScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
	load     func(name string) ([]byte, error)
}

func NewAIScriptSystem() *AIScriptSystem {
	return &AIScriptSystem{
		runtimes: map[ecs.Entity]*scriptRuntime{},
		load:     prefabs.LoadScript,
	}
}

// Reset drops every runtime, for level reloads.
func (s *AIScriptSystem) Reset() {
	clear(s.runtimes)
}

// Invalidate forces every runtime using the named script to recompile on
// its next tick. Script state survives.
func (s *AIScriptSystem) Invalidate(name string) int {
	key := scriptKey(name)
	n := 0
	for _, rt := range s.runtimes {
		if scriptKey(rt.name) == key {
			rt.compiled = nil
			rt.failed = false
			n++
		}
	}
	return n
}

func (s *AIScriptSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AIScriptComponent.Kind(), component.EnemyAIComponent.Kind(), func(e ecs.Entity, sc *component.AIScript, ai *component.EnemyAI) {
		if sc.Name == "" || isDead(w, e) {
			return
		}
		rt := s.runtime(e, sc.Name)
		if rt.failed {
			return
		}
		if rt.compiled == nil {
			if err := s.compile(rt); err != nil {
				log.Printf("ai script %s: entity=%s compile: %v", rt.name, e, err)
				rt.failed = true
				return
			}
		}

		engine := scriptEngine(w, e, rt.name)
		if !rt.entered {
			rt.entered = true
			rt.current = ai.State
			s.run(rt, e, "enter", ai.State, engine)
		} else if ai.State != rt.current {
			prev := rt.current
			rt.current = ai.State
			s.run(rt, e, "exit", prev, engine)
			s.run(rt, e, "enter", ai.State, engine)
		}
		s.run(rt, e, "update", ai.State, engine)
	})

	for e := range s.runtimes {
		if !ecs.Has(w, e, component.AIScriptComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}
}

func (s *AIScriptSystem) runtime(e ecs.Entity, name string) *scriptRuntime {
	rt, ok := s.runtimes[e]
	if ok && rt.name == name {
		return rt
	}
	rt = &scriptRuntime{name: name, state: &tengo.Map{Value: map[string]tengo.Object{}}}
	s.runtimes[e] = rt
	return rt
}

func (s *AIScriptSystem) compile(rt *scriptRuntime) error {
	src, err := s.load(rt.name)
	if err != nil {
		return err
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + aiScriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return err
	}
	for _, hook := range []string{"onEnter", "update", "onExit"} {
		if !compiled.IsDefined(hook) {
			return fmt.Errorf("script does not define %s", hook)
		}
	}
	rt.compiled = compiled
	return nil
}

// run executes one hook. A runtime error disables the script until it is
// invalidated.
func (s *AIScriptSystem) run(rt *scriptRuntime, e ecs.Entity, phase string, current component.CombatState, engine *tengo.ImmutableMap) {
	if rt.failed || rt.compiled == nil {
		return
	}
	err := rt.compiled.Set("__phase", phase)
	if err == nil {
		err = rt.compiled.Set("__engine", engine)
	}
	if err == nil {
		err = rt.compiled.Set("__state", rt.state)
	}
	if err == nil {
		err = rt.compiled.Set("__current_state", current.String())
	}
	if err == nil {
		err = rt.compiled.Run()
	}
	if err != nil {
		log.Printf("ai script %s: entity=%s %s: %v", rt.name, e, phase, err)
		rt.failed = true
	}
}

// scriptEngine exposes the enemy to its script. Distances and speeds are
// in meters.
func scriptEngine(w *ecs.World, e ecs.Entity, name string) *tengo.ImmutableMap {
	fn := func(fnName string, f func(args ...tengo.Object) (tengo.Object, error)) tengo.Object {
		return &tengo.UserFunction{Name: fnName, Value: f}
	}
	ai, _ := ecs.Get(w, e, component.EnemyAIComponent.Kind())
	agent, _ := ecs.Get(w, e, component.NavAgentComponent.Kind())

	values := map[string]tengo.Object{
		"log": fn("log", func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, objectString(a))
			}
			log.Printf("ai script %s: entity=%s: %s", name, e, strings.Join(parts, " "))
			return tengo.UndefinedValue, nil
		}),
		"combat_state": fn("combat_state", func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.String{Value: ai.State.String()}, nil
		}),
		"has_target": fn("has_target", func(args ...tengo.Object) (tengo.Object, error) {
			return boolObject(ai.Target != 0), nil
		}),
		"target_distance": fn("target_distance", func(args ...tengo.Object) (tengo.Object, error) {
			t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok || ai.Target == 0 {
				return &tengo.Float{Value: -1}, nil
			}
			tt, ok := ecs.Get(w, ecs.Entity(ai.Target), component.TransformComponent.Kind())
			if !ok {
				return &tengo.Float{Value: -1}, nil
			}
			return &tengo.Float{Value: math.Hypot(tt.X-t.X, tt.Y-t.Y) / common.TileSize}, nil
		}),
		"health_ratio": fn("health_ratio", func(args ...tengo.Object) (tengo.Object, error) {
			h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
			if !ok {
				return &tengo.Float{Value: 1}, nil
			}
			return &tengo.Float{Value: h.Ratio()}, nil
		}),
		"get_speed": fn("get_speed", func(args ...tengo.Object) (tengo.Object, error) {
			if agent == nil {
				return &tengo.Float{Value: 0}, nil
			}
			return &tengo.Float{Value: agent.Speed / common.TileSize}, nil
		}),
		"set_speed": fn("set_speed", func(args ...tengo.Object) (tengo.Object, error) {
			v, ok := floatArg(args)
			if !ok || agent == nil || v < 0 {
				return tengo.FalseValue, nil
			}
			agent.Speed = v * common.TileSize
			return tengo.TrueValue, nil
		}),
		"get_attack_cooldown": fn("get_attack_cooldown", func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.Float{Value: ai.AttackCooldown}, nil
		}),
		"set_attack_cooldown": fn("set_attack_cooldown", func(args ...tengo.Object) (tengo.Object, error) {
			v, ok := floatArg(args)
			if !ok || v < 0 {
				return tengo.FalseValue, nil
			}
			ai.AttackCooldown = v
			return tengo.TrueValue, nil
		}),
		"play_sound": fn("play_sound", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return tengo.FalseValue, nil
			}
			clip := objectString(args[0])
			if clip == "" {
				return tengo.FalseValue, nil
			}
			vol := 1.0
			if v, ok := floatArg(args[1:]); ok {
				vol = v
			}
			w.Events().PlaySound(clip, vol)
			return tengo.TrueValue, nil
		}),
	}
	return &tengo.ImmutableMap{Value: values}
}

func floatArg(args []tengo.Object) (float64, bool) {
	if len(args) < 1 {
		return 0, false
	}
	return tengo.ToFloat64(args[0])
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}

func scriptKey(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".tengo")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
