package item

import (
	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
)

// ProximityMatchers pick up items and buff drops a player walks into
func (s *System) ProximityMatchers() []physics.ProximityMatcher {
	return []physics.ProximityMatcher{
		physics.ProximityPair("item pickup", entity.KindPlayer, entity.KindItem, s.touch(core.SoundPickup)),
		physics.ProximityPair("buff pickup", entity.KindPlayer, entity.KindBuffDrop, s.touch(core.SoundBuff)),
	}
}

// touch hands a collectible to the first player reaching it this frame
func (s *System) touch(sound core.SoundType) func(pe, what entity.Entity, p physics.Proximity, view *physics.WorldView) {
	return func(pe, what entity.Entity, p physics.Proximity, view *physics.WorldView) {
		if !p.Entered() {
			return
		}
		if _, taken := s.claimed[what]; taken {
			return
		}
		pid, _ := pe.AsPlayer()
		if view.Players().Pickup(pid, what) {
			s.claimed[what] = struct{}{}
			view.Audio().Play(sound)
		}
	}
}
