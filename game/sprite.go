package game

import (
	"github.com/jakecoffman/cp"

	"github.com/j-rock/fortress-sub001/item"
	"github.com/j-rock/fortress-sub001/wraith"
)

// SpriteKind selects how the renderer draws a sprite
type SpriteKind uint8

const (
	SpriteWall SpriteKind = iota
	SpriteBarrel
	SpriteItem
	SpriteBuffBox
	SpriteBuffDrop
	SpriteBullet
	SpriteWraith
	SpritePlayer
)

// Sprite is a renderable snapshot of one object
// Walls span Pos to End; everything else sits at Pos
type Sprite struct {
	Kind  SpriteKind
	Pos   cp.Vector
	End   cp.Vector
	Size  float64
	Owner int // player id for players and bullets
	Label string
	Faded bool // stunned wraith
}

// Sprites snapshots every drawable object, back to front
func (g *Game) Sprites() []Sprite {
	var out []Sprite
	for _, w := range g.arena.Walls() {
		out = append(out, Sprite{Kind: SpriteWall, Pos: w.A.CP(), End: w.B.CP(), Size: w.Radius})
	}
	g.arena.EachBarrel(func(pos cp.Vector, size float64) {
		out = append(out, Sprite{Kind: SpriteBarrel, Pos: pos, Size: size})
	})

	for _, s := range g.items.Sprites() {
		sp := Sprite{Pos: s.Pos, Label: s.Label}
		switch s.Kind {
		case item.KindItem:
			sp.Kind = SpriteItem
		case item.KindBox:
			sp.Kind = SpriteBuffBox
		case item.KindDrop:
			sp.Kind = SpriteBuffDrop
		}
		out = append(out, sp)
	}

	for _, p := range g.players.Players() {
		owner := int(p.ID())
		p.EachBullet(func(pos cp.Vector) {
			out = append(out, Sprite{Kind: SpriteBullet, Pos: pos, Owner: owner})
		})
	}
	for _, w := range g.wraiths.Wraiths() {
		if pos, ok := w.Position(); ok {
			out = append(out, Sprite{Kind: SpriteWraith, Pos: pos, Faded: w.State() == wraith.Stunned})
		}
	}
	for _, p := range g.players.Players() {
		if pos, ok := p.Position(); ok {
			out = append(out, Sprite{Kind: SpritePlayer, Pos: pos, Owner: int(p.ID())})
		}
	}
	return out
}
