package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/keyhold/assets"
	"github.com/milk9111/keyhold/common"
)

type menuButton struct {
	label   string
	onClick func()
}

var (
	menuTextColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	menuTitleColor = color.NRGBA{R: 0xf2, G: 0xc9, B: 0x4c, A: 0xff}
)

// newMenuUI builds a centered panel with a title, optional body lines and a
// column of buttons.
func newMenuUI(title string, lines []string, buttons ...menuButton) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x4a, G: 0x4a, B: 0x4a, A: 255})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255})

	face := assets.Face()
	btnTextColor := &widget.ButtonTextColor{Idle: menuTextColor}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(title, &face, menuTitleColor),
		widget.TextOpts.WidgetOpts(center),
	))
	for _, line := range lines {
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(line, &face, menuTextColor),
			widget.TextOpts.WidgetOpts(center),
		))
	}
	for _, b := range buttons {
		onClick := b.onClick
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnPressed}),
			widget.ButtonOpts.Text(b.label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		))
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func (g *Game) startMenu() *ebitenui.UI {
	return newMenuUI(g.spec.Title, []string{"Find the keys, open the doors, claim the treasure."},
		menuButton{"Play", g.play},
		menuButton{"Controls", func() { g.setScene(sceneControls) }},
		menuButton{"Quit", g.requestQuit},
	)
}

func (g *Game) controlsMenu() *ebitenui.UI {
	return newMenuUI("Controls", []string{
		"Move: WASD / arrows, left stick, Arduino joystick",
		"Aim: mouse, right stick",
		"Attack / join: Space or left click, A / right trigger, Arduino B",
		"Pause: Esc",
	},
		menuButton{"Back", func() { g.setScene(sceneStart) }},
	)
}

func (g *Game) pauseMenu() *ebitenui.UI {
	return newMenuUI("Paused", nil,
		menuButton{"Resume", func() { g.paused = false }},
		menuButton{"Restart", g.play},
		menuButton{"Main menu", func() { g.setScene(sceneStart) }},
	)
}

func (g *Game) gameOverMenu() *ebitenui.UI {
	return newMenuUI("Game Over", []string{"Everyone is down."},
		menuButton{"Try again", g.play},
		menuButton{"Give up", g.requestQuit},
	)
}

func (g *Game) winMenu() *ebitenui.UI {
	return newMenuUI("Treasure claimed!", nil,
		menuButton{"Play again", g.play},
		menuButton{"Quit", g.requestQuit},
	)
}
