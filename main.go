package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/keyhold/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug keys and overlays")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	port := flag.String("port", "", "Arduino serial port (defaults to prefabs/arduino.yaml)")
	baud := flag.Int("baud", 0, "Arduino baud rate (defaults to prefabs/arduino.yaml)")
	noArduino := flag.Bool("no-arduino", false, "do not open the Arduino serial port")
	watch := flag.Bool("watch", false, "reload prefab tunables and enemy scripts when they change on disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(Options{
		Level:     *levelName,
		Debug:     *debug,
		Watch:     *watch,
		NoArduino: *noArduino,
		Port:      *port,
		Baud:      *baud,
	})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle(game.spec.Title)
	ebiten.SetTPS(common.TPS)

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
