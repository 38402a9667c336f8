package pixl

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/cheryl-qian/pixl/imop"
	"github.com/cheryl-qian/pixl/utils"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	maxScreenX = 1366
	maxScreenY = 768

	panelWidth   = 280
	canvasPad    = 8
	checkerBlock = 8
	swatchPx     = 24
	swatchCols   = 8
	minWindowH   = 460
)

var (
	defaultBkgColor   = color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF}
	checkerLightColor = color.NRGBA{R: 0xE6, G: 0xE6, B: 0xE6, A: 0xFF}
	checkerDarkColor  = color.NRGBA{R: 0xCF, G: 0xCF, B: 0xCF, A: 0xFF}
)

// Gui is the basic struct containing all of the information needed for the UI operation.
// It wraps an editing session and translates the Gio pointer, key and
// widget events into session calls.
type Gui struct {
	cfg struct {
		window struct {
			w     float64
			h     float64
			title string
		}
		color struct {
			background color.Color
		}
	}
	ctl struct {
		hue        widget.Float
		brightness widget.Float
		hex        widget.Editor
		undo       widget.Clickable
		redo       widget.Clickable
		clear      widget.Clickable
		save       widget.Clickable
		swatches   []bool
	}

	session *Session
	palette []Color
	scale   int
	quality int

	theme    *material.Theme
	comp     *imop.Composite
	canvasOp paint.ImageOp
	ops      op.Ops

	stale  bool
	last   image.Point
	status string
}

// NewGUI initializes the Gio interface around an editing session.
func NewGUI(s *Session, cfg *Config) *Gui {
	gui := &Gui{
		session: s,
		palette: cfg.Palette,
		scale:   cfg.Scale,
		quality: cfg.Quality,
		theme:   material.NewTheme(gofont.Collection()),
		comp:    imop.InitOp(),
		stale:   true,
	}
	gui.ctl.swatches = make([]bool, len(cfg.Palette))
	gui.ctl.hue.Value = float32(s.Color().Hue())
	gui.ctl.brightness.Value = 50
	gui.ctl.hex.SingleLine = true
	gui.ctl.hex.Submit = true
	gui.ctl.hex.SetText(s.Color().String())
	gui.status = "Ctrl+Z undo, Ctrl+Y redo, Ctrl+S save, Esc quit"
	gui.initWindow()

	return gui
}

// initWindow computes the window geometry from the grid side and the
// cell scale.
func (g *Gui) initWindow() {
	side := g.session.Grid().Side()
	canvas := float64(side*g.scale + 2*canvasPad)

	w := canvas + panelWidth
	h := utils.Max(canvas, minWindowH)
	g.cfg.color.background = defaultBkgColor

	// Shrink the window but retain its aspect ratio in case the canvas
	// is greater than the predefined screen size.
	r := getRatio(w, h)
	g.cfg.window.w, g.cfg.window.h = w*r, h*r
	g.cfg.window.title = fmt.Sprintf("Pixl %dx%d", side, side)
}

// getRatio returns the window downscale ratio.
func getRatio(w, h float64) float64 {
	var r float64 = 1
	if w > maxScreenX && h > maxScreenY {
		wr := maxScreenX / w
		hr := maxScreenY / h

		r = utils.Max(wr, hr)
	}
	return r
}

// Run is the core method of the Gio GUI application.
// It opens the editor window and blocks on the event loop until the
// window is closed, either by the user or by an ESC key event.
func (g *Gui) Run() error {
	w := app.NewWindow(app.Title(g.cfg.window.title), app.Size(
		unit.Dp(float32(g.cfg.window.w)),
		unit.Dp(float32(g.cfg.window.h)),
	))

	for {
		e := <-w.Events()
		switch e := e.(type) {
		case system.FrameEvent:
			g.draw(w, e)
		case key.Event:
			if e.State != key.Press {
				break
			}
			switch e.Name {
			case key.NameEscape:
				w.Perform(system.ActionClose)
			case "Z":
				if e.Modifiers.Contain(key.ModShortcut) && g.session.Undo() {
					g.stale = true
					w.Invalidate()
				}
			case "Y":
				if e.Modifiers.Contain(key.ModShortcut) && g.session.Redo() {
					g.stale = true
					w.Invalidate()
				}
			case "S":
				if e.Modifiers.Contain(key.ModShortcut) {
					g.saveSnapshot()
					w.Invalidate()
				}
			}
		case system.DestroyEvent:
			return e.Err
		}
	}
}

// draw renders one frame: the canvas on the left, the color and history
// controls on the right.
func (g *Gui) draw(win *app.Window, e system.FrameEvent) {
	gtx := layout.NewContext(&g.ops, e)

	if g.stale {
		g.recompose()
	}

	paint.Fill(gtx.Ops, g.setColor(g.cfg.color.background))
	layout.Flex{
		Axis: layout.Horizontal,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(unit.Dp(12)).Layout(gtx, g.canvas)
		}),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(unit.Dp(12)).Layout(gtx, g.controls)
		}),
	)

	// An event handled during the layout may have edited the grid, in
	// which case the cached canvas is a frame behind.
	if g.stale {
		win.Invalidate()
	}
	e.Frame(gtx.Ops)
}

// recompose rebuilds the cached canvas image by composing the rendered
// grid over the checker backdrop, inset by the frame padding.
func (g *Gui) recompose() {
	img, err := Render(g.session.Grid(), g.scale)
	if err != nil {
		Logger().Error("canvas render failed", slog.Any("err", err))
		return
	}

	px := g.session.Grid().Side()*g.scale + 2*canvasPad
	full := image.Rect(0, 0, px, px)

	overlay := image.NewNRGBA(full)
	draw.Draw(overlay, img.Bounds().Add(image.Pt(canvasPad, canvasPad)), img, image.Point{}, draw.Src)

	backdrop := imop.Checker(full, checkerBlock, checkerLightColor, checkerDarkColor)
	composed := imop.NewBitmap(full)
	g.comp.Set(imop.SrcOver)
	g.comp.Draw(composed, overlay, backdrop.Img)

	g.canvasOp = paint.NewImageOp(composed.Img)
	g.stale = false
}

// canvas draws the checker framed grid and translates the pointer
// gestures over it into session paint events.
func (g *Gui) canvas(gtx C) D {
	side := g.session.Grid().Side()
	px := side*g.scale + 2*canvasPad
	size := image.Pt(px, px)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()

	for _, ev := range gtx.Events(g) {
		if e, ok := ev.(pointer.Event); ok {
			g.pointerEvent(e)
		}
	}
	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)

	g.canvasOp.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	return D{Size: size}
}

// pointerEvent maps one pointer event onto the press, hover and release
// protocol of the session.
func (g *Gui) pointerEvent(e pointer.Event) {
	row, col := g.cell(e.Position)

	switch e.Type {
	case pointer.Press:
		if g.session.Press(row, col) == nil {
			g.last = image.Pt(col, row)
			g.stale = true
		}
	case pointer.Drag:
		if !g.session.Drawing() {
			break
		}
		g.dragTo(row, col)
	case pointer.Release:
		g.session.Release()
	case pointer.Leave, pointer.Cancel:
		g.session.PointerLeave()
	}
}

// cell converts a canvas position to grid coordinates. Points on the
// checker frame fall outside the grid and map to -1.
func (g *Gui) cell(p f32.Point) (row, col int) {
	return cellIndex(int(p.Y)-canvasPad, g.scale), cellIndex(int(p.X)-canvasPad, g.scale)
}

func cellIndex(px, scale int) int {
	if px < 0 {
		return -1
	}
	return px / scale
}

// dragTo paints every cell on the segment between the previous and the
// current drag position, so fast strokes still come out connected.
func (g *Gui) dragTo(row, col int) {
	to := image.Pt(col, row)
	if to == g.last {
		return
	}

	grid := g.session.Grid()
	line(g.last, to, func(p image.Point) {
		if grid.contains(p.Y, p.X) && g.session.Hover(p.Y, p.X) == nil {
			g.stale = true
		}
	})
	g.last = to
}

// line visits the cells of the segment from a to b, excluding a, using
// the integer midpoint walk.
func line(a, b image.Point, visit func(image.Point)) {
	dx, dy := utils.Abs(b.X-a.X), -utils.Abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	for a != b {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
		visit(a)
	}
}

// controls lays out the right hand column and drains the widget events
// accumulated since the previous frame.
func (g *Gui) controls(gtx C) D {
	if g.ctl.undo.Clicked() && g.session.Undo() {
		g.stale = true
	}
	if g.ctl.redo.Clicked() && g.session.Redo() {
		g.stale = true
	}
	if g.ctl.clear.Clicked() {
		g.session.Clear()
		g.stale = true
	}
	if g.ctl.save.Clicked() {
		g.saveSnapshot()
	}
	if g.ctl.hue.Changed() {
		g.session.SetHue(int(g.ctl.hue.Value))
	}
	if g.ctl.brightness.Changed() {
		g.session.SetBrightness(int(g.ctl.brightness.Value))
	}
	for _, ev := range g.ctl.hex.Events() {
		if submit, ok := ev.(widget.SubmitEvent); ok {
			g.applyHex(submit.Text)
		}
	}

	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(g.preview),
		layout.Rigid(g.label("Hue")),
		layout.Rigid(g.slider(&g.ctl.hue, 0, 360)),
		layout.Rigid(g.label("Brightness")),
		layout.Rigid(g.slider(&g.ctl.brightness, 0, 100)),
		layout.Rigid(g.hexField),
		layout.Rigid(g.swatchGrid),
		layout.Rigid(g.buttons),
		layout.Rigid(g.statusLine),
	)
}

// preview shows the selected color next to its canonical hex form.
func (g *Gui) preview(gtx C) D {
	return layout.Flex{
		Alignment: layout.Middle,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			size := image.Pt(2*swatchPx, 2*swatchPx)
			paint.FillShape(gtx.Ops, g.session.Color().NRGBA(), clip.Rect{Max: size}.Op())
			return D{Size: size}
		}),
		layout.Rigid(func(gtx C) D {
			return layout.Inset{Left: unit.Dp(10)}.Layout(gtx, func(gtx C) D {
				return material.Label(g.theme, unit.Sp(18), g.session.Color().String()).Layout(gtx)
			})
		}),
	)
}

func (g *Gui) label(text string) layout.Widget {
	return func(gtx C) D {
		return layout.Inset{Top: unit.Dp(10)}.Layout(gtx, func(gtx C) D {
			return material.Label(g.theme, unit.Sp(14), text).Layout(gtx)
		})
	}
}

func (g *Gui) slider(f *widget.Float, min, max float32) layout.Widget {
	return func(gtx C) D {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return material.Slider(g.theme, f, min, max).Layout(gtx)
	}
}

func (g *Gui) hexField(gtx C) D {
	return layout.Inset{Top: unit.Dp(10)}.Layout(gtx, func(gtx C) D {
		return material.Editor(g.theme, &g.ctl.hex, "#RRGGBB").Layout(gtx)
	})
}

// swatchGrid lays the palette out in rows of eight.
func (g *Gui) swatchGrid(gtx C) D {
	rows := make([]layout.FlexChild, 0, (len(g.palette)+swatchCols-1)/swatchCols)
	for start := 0; start < len(g.palette); start += swatchCols {
		start := start
		rows = append(rows, layout.Rigid(func(gtx C) D {
			return g.swatchRow(gtx, start)
		}))
	}

	return layout.Inset{Top: unit.Dp(10)}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, rows...)
	})
}

func (g *Gui) swatchRow(gtx C, start int) D {
	end := utils.Min(start+swatchCols, len(g.palette))
	cells := make([]layout.FlexChild, 0, end-start)
	for i := start; i < end; i++ {
		i := i
		cells = append(cells, layout.Rigid(func(gtx C) D {
			return layout.UniformInset(unit.Dp(2)).Layout(gtx, func(gtx C) D {
				return g.swatch(gtx, i)
			})
		}))
	}
	return layout.Flex{}.Layout(gtx, cells...)
}

// swatch draws one palette square and selects its color on click.
func (g *Gui) swatch(gtx C, i int) D {
	size := image.Pt(swatchPx, swatchPx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	for _, ev := range gtx.Events(&g.ctl.swatches[i]) {
		if e, ok := ev.(pointer.Event); ok && e.Type == pointer.Press {
			g.session.PickPreset(g.palette[i])
			g.syncColor()
		}
	}
	pointer.InputOp{Tag: &g.ctl.swatches[i], Types: pointer.Press}.Add(gtx.Ops)

	paint.FillShape(gtx.Ops, g.palette[i].NRGBA(), clip.Rect{Max: size}.Op())
	return D{Size: size}
}

func (g *Gui) buttons(gtx C) D {
	row := func(left, right layout.Widget) layout.Widget {
		return func(gtx C) D {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, left),
				layout.Flexed(1, right),
			)
		}
	}

	return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(row(
				g.button(&g.ctl.undo, "Undo", g.session.CanUndo),
				g.button(&g.ctl.redo, "Redo", g.session.CanRedo),
			)),
			layout.Rigid(row(
				g.button(&g.ctl.clear, "Clear", nil),
				g.button(&g.ctl.save, "Save", nil),
			)),
		)
	})
}

// button wraps a material button; a nil enabled func means always active.
func (g *Gui) button(clk *widget.Clickable, text string, enabled func() bool) layout.Widget {
	return func(gtx C) D {
		if enabled != nil && !enabled() {
			gtx = gtx.Disabled()
		}
		return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
			return material.Button(g.theme, clk, text).Layout(gtx)
		})
	}
}

func (g *Gui) statusLine(gtx C) D {
	return layout.Inset{Top: unit.Dp(12)}.Layout(gtx, func(gtx C) D {
		return material.Label(g.theme, unit.Sp(12), g.status).Layout(gtx)
	})
}

// applyHex replaces the selected color from the hex field, keeping the
// sliders aligned. A malformed value is reported on the status line.
func (g *Gui) applyHex(text string) {
	if err := g.session.SetHex(text); err != nil {
		g.status = err.Error()
		return
	}
	g.status = "color " + g.session.Color().String()
	g.syncColor()
}

// syncColor realigns the sliders after the color was set directly.
func (g *Gui) syncColor() {
	g.ctl.hue.Value = float32(g.session.Hue())
	g.ctl.brightness.Value = 50
}

// saveSnapshot exports the current grid into the working directory
// under a timestamped name.
func (g *Gui) saveSnapshot() {
	name := fmt.Sprintf("pixl-%s.png", time.Now().Format("20060102-150405"))

	f, err := os.Create(name)
	if err != nil {
		g.status = err.Error()
		return
	}
	defer f.Close()

	opts := ExportOptions{Format: PNG, Scale: g.scale, Quality: g.quality}
	if err := g.session.Export(f, opts); err != nil {
		g.status = err.Error()
		return
	}

	Logger().Info("snapshot saved", slog.String("file", name))
	g.status = "saved " + name
}

// setColor converts a generic color to the NRGBA form Gio paints with.
func (g *Gui) setColor(c color.Color) color.NRGBA {
	rc, gc, bc, ac := c.RGBA()
	return color.NRGBA{
		R: uint8(rc >> 8),
		G: uint8(gc >> 8),
		B: uint8(bc >> 8),
		A: uint8(ac >> 8),
	}
}
