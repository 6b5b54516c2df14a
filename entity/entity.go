// Package entity defines the domain identity attached to physics objects
package entity

import "fmt"

// Kind tags the active variant of an Entity
type Kind uint8

const (
	KindNone Kind = iota
	KindBuffBox
	KindBuffDrop
	KindMapWall
	KindBullet
	KindPlayer
	KindWraith
	KindItem
	KindBarrel
	KindCount
)

var kindNames = [KindCount]string{
	KindNone:     "none",
	KindBuffBox:  "buff_box",
	KindBuffDrop: "buff_drop",
	KindMapWall:  "map_wall",
	KindBullet:   "bullet",
	KindPlayer:   "player",
	KindWraith:   "wraith",
	KindItem:     "item",
	KindBarrel:   "barrel",
}

func (k Kind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type (
	PlayerID   uint8
	BulletID   uint32
	WraithID   uint32
	ItemID     uint32
	BarrelID   uint32
	BuffBoxID  uint32
	BuffDropID uint32
)

// Entity is a tagged union over the game objects that own physics handles
// Only the id fields belonging to Kind are meaningful; the rest stay zero so
// that equal variants compare equal and hash identically
type Entity struct {
	Kind     Kind
	Player   PlayerID
	Bullet   BulletID
	Wraith   WraithID
	Item     ItemID
	Barrel   BarrelID
	BuffBox  BuffBoxID
	BuffDrop BuffDropID
}

func BuffBox(id BuffBoxID) Entity   { return Entity{Kind: KindBuffBox, BuffBox: id} }
func BuffDrop(id BuffDropID) Entity { return Entity{Kind: KindBuffDrop, BuffDrop: id} }
func MapWall() Entity               { return Entity{Kind: KindMapWall} }
func Player(p PlayerID) Entity      { return Entity{Kind: KindPlayer, Player: p} }
func Wraith(w WraithID) Entity      { return Entity{Kind: KindWraith, Wraith: w} }
func Item(i ItemID) Entity          { return Entity{Kind: KindItem, Item: i} }
func Barrel(b BarrelID) Entity      { return Entity{Kind: KindBarrel, Barrel: b} }

// Bullet is owned by the player that fired it
func Bullet(owner PlayerID, b BulletID) Entity {
	return Entity{Kind: KindBullet, Player: owner, Bullet: b}
}

// IsZero reports the unset entity
func (e Entity) IsZero() bool { return e.Kind == KindNone }

func (e Entity) AsPlayer() (PlayerID, bool) { return e.Player, e.Kind == KindPlayer }

func (e Entity) AsBullet() (PlayerID, BulletID, bool) {
	return e.Player, e.Bullet, e.Kind == KindBullet
}

func (e Entity) AsWraith() (WraithID, bool)     { return e.Wraith, e.Kind == KindWraith }
func (e Entity) AsItem() (ItemID, bool)         { return e.Item, e.Kind == KindItem }
func (e Entity) AsBarrel() (BarrelID, bool)     { return e.Barrel, e.Kind == KindBarrel }
func (e Entity) AsBuffBox() (BuffBoxID, bool)   { return e.BuffBox, e.Kind == KindBuffBox }
func (e Entity) AsBuffDrop() (BuffDropID, bool) { return e.BuffDrop, e.Kind == KindBuffDrop }

func (e Entity) String() string {
	switch e.Kind {
	case KindBullet:
		return fmt.Sprintf("bullet(%d,%d)", e.Player, e.Bullet)
	case KindPlayer:
		return fmt.Sprintf("player(%d)", e.Player)
	case KindWraith:
		return fmt.Sprintf("wraith(%d)", e.Wraith)
	case KindItem:
		return fmt.Sprintf("item(%d)", e.Item)
	case KindBarrel:
		return fmt.Sprintf("barrel(%d)", e.Barrel)
	case KindBuffBox:
		return fmt.Sprintf("buff_box(%d)", e.BuffBox)
	case KindBuffDrop:
		return fmt.Sprintf("buff_drop(%d)", e.BuffDrop)
	default:
		return e.Kind.String()
	}
}

// Order returns the pair arranged so the first has kind a and the second kind b
// Physics engines report pairs in arbitrary order; handlers use this to match
// (Player, Bullet) and (Bullet, Player) identically
func Order(e1, e2 Entity, a, b Kind) (Entity, Entity, bool) {
	if e1.Kind == a && e2.Kind == b {
		return e1, e2, true
	}
	if e1.Kind == b && e2.Kind == a {
		return e2, e1, true
	}
	return Entity{}, Entity{}, false
}

// Other returns the member of the pair that is not of kind k
// ok is false when neither or both members have kind k
func Other(e1, e2 Entity, k Kind) (self, other Entity, ok bool) {
	switch {
	case e1.Kind == k && e2.Kind != k:
		return e1, e2, true
	case e2.Kind == k && e1.Kind != k:
		return e2, e1, true
	}
	return Entity{}, Entity{}, false
}
