// Package render draws game sprites and the status line onto a tcell canvas
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"

	"github.com/j-rock/fortress-sub001/game"
	"github.com/j-rock/fortress-sub001/player"
)

// Canvas is the part of tcell.Screen the renderer draws on
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Clear()
	Show()
}

// Scene is what a frame is drawn from
type Scene interface {
	Sprites() []game.Sprite
	Players() []*player.Player
	Elapsed() time.Duration
}

var playerColors = [...]tcell.Color{tcell.ColorGreen, tcell.ColorAqua, tcell.ColorYellow, tcell.ColorFuchsia}

var (
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBarrel = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleItem   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleBox    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleDrop   = tcell.StyleDefault.Foreground(tcell.ColorLightBlue).Bold(true)
	styleWraith = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStun   = tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

var itemGlyphs = map[string]rune{"heal": '+', "ammo": '=', "score": '$'}

// Renderer maps world units to terminal cells
type Renderer struct {
	canvas Canvas
	scale  float64
	muted  func() bool
}

// New creates a renderer; scale is world units per cell
// muted may be nil
func New(canvas Canvas, scale float64, muted func() bool) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{canvas: canvas, scale: scale, muted: muted}
}

func (r *Renderer) cell(p cp.Vector) (int, int) {
	return int(math.Floor(p.X / r.scale)), int(math.Floor(p.Y / r.scale))
}

func (r *Renderer) put(p cp.Vector, ch rune, style tcell.Style, rows int) {
	x, y := r.cell(p)
	w, _ := r.canvas.Size()
	if x < 0 || y < 0 || x >= w || y >= rows {
		return
	}
	r.canvas.SetContent(x, y, ch, nil, style)
}

// Draw renders one frame
func (r *Renderer) Draw(s Scene) {
	r.canvas.Clear()
	_, h := r.canvas.Size()
	rows := h - 1 // last row is the status line

	for _, sp := range s.Sprites() {
		switch sp.Kind {
		case game.SpriteWall:
			r.segment(sp.Pos, sp.End, rows)
		case game.SpriteBarrel:
			r.put(sp.Pos, 'O', styleBarrel, rows)
		case game.SpriteItem:
			ch, ok := itemGlyphs[sp.Label]
			if !ok {
				ch = '?'
			}
			r.put(sp.Pos, ch, styleItem, rows)
		case game.SpriteBuffBox:
			r.put(sp.Pos, '#', styleBox, rows)
		case game.SpriteBuffDrop:
			r.put(sp.Pos, '*', styleDrop, rows)
		case game.SpriteBullet:
			r.put(sp.Pos, '.', playerStyle(sp.Owner), rows)
		case game.SpriteWraith:
			style := styleWraith
			if sp.Faded {
				style = styleStun
			}
			r.put(sp.Pos, 'W', style, rows)
		case game.SpritePlayer:
			r.put(sp.Pos, rune('1'+sp.Owner), playerStyle(sp.Owner).Bold(true), rows)
		}
	}

	if h > 0 {
		r.status(s, h-1)
	}
	r.canvas.Show()
}

// segment draws a wall by sampling it at half-cell steps
func (r *Renderer) segment(a, b cp.Vector, rows int) {
	steps := int(math.Ceil(a.Distance(b)/(r.scale/2))) + 1
	for i := 0; i <= steps; i++ {
		r.put(a.Lerp(b, float64(i)/float64(steps)), '█', styleWall, rows)
	}
}

func (r *Renderer) status(s Scene, row int) {
	var b strings.Builder
	for _, p := range s.Players() {
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		if p.State().Alive() {
			fmt.Fprintf(&b, "P%d hp %d ammo %d score %d kills %d", p.ID()+1, p.Health(), p.Ammo(), p.Score(), p.Kills())
		} else {
			fmt.Fprintf(&b, "P%d %s", p.ID()+1, p.State())
		}
	}
	el := s.Elapsed().Truncate(time.Second)
	fmt.Fprintf(&b, " | %02d:%02d", int(el.Minutes()), int(el.Seconds())%60)
	if r.muted != nil && r.muted() {
		b.WriteString(" | muted")
	}

	w, _ := r.canvas.Size()
	line := []rune(b.String())
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(line) {
			ch = line[x]
		}
		r.canvas.SetContent(x, row, ch, nil, styleStatus)
	}
}

func playerStyle(id int) tcell.Style {
	return tcell.StyleDefault.Foreground(playerColors[id%len(playerColors)])
}
