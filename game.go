package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/keyhold/arduino"
	"github.com/milk9111/keyhold/assets"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/entity"
	"github.com/milk9111/keyhold/ecs/system"
	"github.com/milk9111/keyhold/levels"
	"github.com/milk9111/keyhold/prefabs"
	"github.com/milk9111/keyhold/session"
	"golang.design/x/clipboard"
)

type scene int

const (
	sceneStart scene = iota
	sceneControls
	scenePlay
	sceneGameOver
	sceneWin
)

const toastDuration = 2.5

var (
	menuBackground = color.RGBA{R: 0x12, G: 0x10, B: 0x18, A: 0xff}
	toastColor     = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

// Options are the command-line settings the game starts with.
type Options struct {
	Level     string
	Debug     bool
	Watch     bool
	NoArduino bool
	Port      string
	Baud      int
}

type Game struct {
	spec  prefabs.GameSpec
	opts  Options
	level string

	world     *ecs.World
	session   *session.Session
	scheduler *ecs.Scheduler

	input       *system.InputSystem
	physics     *system.PhysicsSystem
	pathfinding *system.PathfindingSystem
	interaction *system.InteractionSystem
	outcome     *system.OutcomeSystem
	aiScript    *system.AIScriptSystem
	audio       *system.AudioSystem
	render      *system.RenderSystem
	hud         *system.HUDSystem

	scene  scene
	paused bool
	ui     *ebitenui.UI
	quit   bool
	face   text.Face

	toast     string
	toastLeft float64

	showPhysics bool
	watcher     *prefabs.Watcher
	cancel      context.CancelFunc
}

func NewGame(opts Options) (*Game, error) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return nil, err
	}
	level := opts.Level
	if level == "" {
		level = spec.Level
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		spec:    spec,
		opts:    opts,
		level:   level,
		session: session.New(spec.MaxPlayers),
		face:    assets.Face(),
		cancel:  cancel,
	}

	source := &system.EbitenInput{}
	if !opts.NoArduino {
		source.Bridge = startArduino(ctx, opts)
	}

	bank := assets.NewBank(assets.AudioContext())
	if err := bank.Preload(); err != nil {
		log.Printf("game: audio preload: %v", err)
	}

	g.input = system.NewInputSystem(source)
	g.physics = system.NewPhysicsSystem()
	g.pathfinding = system.NewPathfindingSystem(spec.PathWorkers)
	g.interaction = system.NewInteractionSystem(g.physics, g.session)
	g.outcome = system.NewOutcomeSystem(g.session)
	g.outcome.Volume = spec.OutcomeVolume
	g.aiScript = system.NewAIScriptSystem()
	g.audio = system.NewAudioSystem(bank)
	g.audio.OnEvent = g.onEvent
	g.render = system.NewRenderSystem()
	g.hud = system.NewHUDSystem(g.session, g.face)

	g.scheduler = ecs.NewScheduler(
		g.input,
		system.NewPlayerJoinSystem(g.input, g.session),
		system.NewSpawnSystem(),
		system.NewPlayerControllerSystem(),
		system.NewPlayerAttackSystem(g.physics),
		system.NewAwarenessSystem(g.physics),
		system.NewEnemyAISystem(g.physics),
		g.pathfinding,
		system.NewNavAgentSystem(),
		g.physics,
		g.interaction,
		system.NewHealthSystem(g.session, spec.ReviveDelay),
		g.outcome,
		g.aiScript,
		system.NewAnimatorSystem(),
		system.NewTTLSystem(),
		system.NewCameraSystem(),
		g.audio,
	)

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Printf("game: prefab watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.setScene(sceneStart)
	return g, nil
}

func startArduino(ctx context.Context, opts Options) *arduino.Bridge {
	cfg, err := prefabs.LoadArduinoConfig()
	if err != nil {
		log.Printf("game: arduino config: %v, using defaults", err)
		cfg = arduino.DefaultConfig()
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.Baud > 0 {
		cfg.Baud = opts.Baud
	}
	bridge := arduino.NewBridge(cfg, nil)
	go func() {
		if err := bridge.Run(ctx); err != nil {
			log.Printf("game: %v", err)
		}
	}()
	return bridge
}

// Close stops the background workers.
func (g *Game) Close() {
	g.cancel()
	g.pathfinding.Close()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) setScene(s scene) {
	g.scene = s
	g.paused = false
	switch s {
	case sceneStart:
		g.ui = g.startMenu()
	case sceneControls:
		g.ui = g.controlsMenu()
	case sceneGameOver:
		g.ui = g.gameOverMenu()
	case sceneWin:
		g.ui = g.winMenu()
	case scenePlay:
		g.ui = g.pauseMenu()
	}
}

func (g *Game) requestQuit() {
	g.quit = true
}

// play (re)loads the level and starts a round. Joined players stay on the
// roster and respawn at their spawn points.
func (g *Game) play() {
	if err := g.loadLevel(); err != nil {
		log.Printf("game: %v", err)
		g.setScene(sceneStart)
		return
	}
	g.setScene(scenePlay)
}

func (g *Game) loadLevel() error {
	lvl, err := levels.Load(g.level)
	if err != nil {
		return fmt.Errorf("load level %q: %w", g.level, err)
	}
	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return fmt.Errorf("build level %q: %w", g.level, err)
	}
	x, y, ok := entity.SpawnPoint(world, 1)
	if !ok {
		return fmt.Errorf("level %q has no spawn", g.level)
	}
	if _, err := entity.NewCameraAt(world, x, y); err != nil {
		return err
	}

	if g.world != nil {
		system.StopAll(g.world)
	}
	g.session.Reset()
	g.physics.Reset()
	g.interaction.Reset()
	g.outcome.Reset()
	g.aiScript.Reset()
	g.world = world
	g.toast = ""
	log.Printf("game: loaded %s (%s)", g.level, lvl.Name)
	return nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		g.copySnapshot()
	}

	if g.scene != scenePlay {
		g.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		if g.paused {
			system.StopAll(g.world)
		}
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if g.opts.Debug {
		g.debugKeys()
	}
	g.scheduler.Update(g.world)
	if g.toastLeft > 0 {
		g.toastLeft -= common.DeltaTime
	}

	switch g.session.Outcome() {
	case session.GameOver:
		system.StopAll(g.world)
		g.setScene(sceneGameOver)
	case session.GameWin:
		system.StopAll(g.world)
		g.setScene(sceneWin)
	}
	return nil
}

func (g *Game) debugKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showPhysics = !g.showPhysics
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) && g.session.Lose() {
		log.Printf("debug: forced game over")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		log.Printf("debug: keys=%d", g.session.AddKey())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) && g.session.SpendKey() {
		log.Printf("debug: keys=%d", g.session.Keys())
	}
}

// pollReloads applies prefab and script edits picked up by the watcher.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
drain:
	for {
		select {
		case err := <-g.watcher.Errors:
			log.Printf("reload: %v", err)
		default:
			break drain
		}
	}

	for _, ch := range g.watcher.Poll() {
		if ch.Script {
			log.Printf("reload: %s (%d enemies)", ch.Name, g.aiScript.Invalidate(ch.Name))
			continue
		}
		switch ch.Name {
		case "game.yaml", "arduino.yaml":
			log.Printf("reload: %s applies on restart", ch.Name)
			continue
		}
		if g.world == nil {
			continue
		}
		n, err := entity.Retune(g.world, ch.Name)
		if err != nil {
			log.Printf("reload: %v", err)
			continue
		}
		log.Printf("reload: %s (%d entities)", ch.Name, n)
	}
}

func (g *Game) onEvent(evt ecs.Event) {
	var msg string
	switch evt.Type {
	case ecs.EventPlayerJoined:
		msg = "A player joined"
	case ecs.EventKeyCollected:
		msg = fmt.Sprintf("Key found (%d)", g.session.Keys())
	case ecs.EventDoorOpened:
		msg = "The door opens"
	case ecs.EventDoorLocked:
		msg = "Locked. Find a key"
	case ecs.EventPlayerDied:
		msg = "A player is down"
	case ecs.EventPlayerRevived:
		msg = "A player is back up"
	default:
		if g.opts.Debug {
			log.Printf("event: %s %v", evt.Type, evt.Data)
		}
		return
	}
	g.toast = msg
	g.toastLeft = toastDuration
}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

func (g *Game) copySnapshot() {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		log.Printf("debug: clipboard unavailable: %v", clipboardErr)
		return
	}
	snap := fmt.Sprintf("level: %s\n", g.level)
	if g.world != nil {
		snap += fmt.Sprintf("entities: %d\n", len(ecs.Entities(g.world)))
	}
	snap += g.session.Snapshot()
	clipboard.Write(clipboard.FmtText, []byte(snap))
	log.Printf("debug: snapshot copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.world == nil || g.scene == sceneStart || g.scene == sceneControls {
		screen.Fill(menuBackground)
		g.ui.Draw(screen)
		return
	}

	g.render.Draw(g.world, screen)
	if g.showPhysics {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		system.DrawNavDebug(g.world, screen)
	}
	g.hud.Draw(g.world, screen)
	if g.opts.Debug {
		system.DrawStateDebug(g.world, screen, ebiten.ActualTPS())
	}

	switch {
	case len(g.session.Members()) == 0:
		g.drawCentered(screen, "Press Attack or Enter to join", common.BaseHeight-80)
	case g.toastLeft > 0:
		g.drawCentered(screen, g.toast, common.BaseHeight-80)
	}

	if g.paused || g.scene != scenePlay {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawCentered(screen *ebiten.Image, s string, y float64) {
	w, _ := text.Measure(s, g.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate((common.BaseWidth-w)/2, y)
	op.ColorScale.ScaleWithColor(toastColor)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
