package physics

import "github.com/jakecoffman/cp"

// Category is a collision membership bit set
// A collider belongs to the categories in Filter.Categories and only
// interacts with colliders whose categories intersect its Filter.Mask
type Category uint32

const (
	CategoryNone         Category = 0
	CategoryBarrier      Category = 1 << 1
	CategoryInteract     Category = 1 << 2
	CategoryPickup       Category = 1 << 3
	CategoryPlayerBody   Category = 1 << 4
	CategoryPlayerWeapon Category = 1 << 5
	CategoryWraith       Category = 1 << 6
	CategoryBarrel       Category = 1 << 7
	CategoryBuffBox      Category = 1 << 8

	// MaskAllowAll whitelists every one of the 16 category bits
	MaskAllowAll Category = 0xFFFF
)

// Filter is the broad-phase filter of a collider
// Colliders with the same non-zero Group never interact (a player and its
// own bullets share a group)
type Filter struct {
	Group      uint32
	Categories Category
	Mask       Category
}

// Accepts reports whether two colliders pass each other's filters
// Membership of one must be whitelisted by the other's mask, both ways
func (f Filter) Accepts(other Filter) bool {
	if f.Group != 0 && f.Group == other.Group {
		return false
	}
	return f.Categories&other.Mask != 0 && other.Categories&f.Mask != 0
}

func (f Filter) shapeFilter() cp.ShapeFilter {
	return cp.NewShapeFilter(uint(f.Group), uint(f.Categories), uint(f.Mask))
}

// Common filters used by the gameplay systems
// A collider created with the zero Filter gets FilterAll
var (
	FilterAll     = Filter{Categories: MaskAllowAll, Mask: MaskAllowAll}
	FilterBarrier = Filter{Categories: CategoryBarrier, Mask: MaskAllowAll}
	FilterPickup  = Filter{Categories: CategoryPickup, Mask: CategoryPlayerBody}
	FilterWraith  = Filter{
		Categories: CategoryWraith,
		Mask:       CategoryBarrier | CategoryInteract | CategoryPlayerBody | CategoryPlayerWeapon | CategoryWraith | CategoryBarrel,
	}
	FilterBarrel  = Filter{Categories: CategoryBarrel, Mask: MaskAllowAll &^ CategoryPickup}
	FilterBuffBox = Filter{Categories: CategoryBuffBox, Mask: CategoryPlayerWeapon | CategoryPlayerBody | CategoryWraith}
)

// PlayerBodyFilter is the filter of player bodies; group keeps own bullets out
func PlayerBodyFilter(group uint32) Filter {
	return Filter{Group: group, Categories: CategoryPlayerBody, Mask: MaskAllowAll}
}

// PlayerWeaponFilter is the filter of bullets fired by the player in group
func PlayerWeaponFilter(group uint32) Filter {
	return Filter{
		Group:      group,
		Categories: CategoryPlayerWeapon,
		Mask:       CategoryBarrier | CategoryPlayerBody | CategoryWraith | CategoryBarrel | CategoryBuffBox,
	}
}

// PlayerReachFilter is the filter of a player's presence sensor, felt by wraiths
func PlayerReachFilter(group uint32) Filter {
	return Filter{Group: group, Categories: CategoryInteract, Mask: CategoryWraith}
}
