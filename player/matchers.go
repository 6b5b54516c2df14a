package player

import (
	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
)

// ContactMatchers are the handlers the player system contributes
func ContactMatchers() []physics.ContactMatcher {
	return []physics.ContactMatcher{
		physics.NewContactMatcher("bullet strike", bulletStrike),
	}
}

// bulletStrike retires a bullet on its first contact with anything solid
func bulletStrike(c physics.Contact, view *physics.WorldView) {
	if c.Kind != physics.ContactStarted {
		return
	}
	self, target, ok := entity.Other(c.Entity1, c.Entity2, entity.KindBullet)
	if !ok {
		return
	}
	owner, id, _ := self.AsBullet()
	if pid, isPlayer := target.AsPlayer(); isPlayer && pid == owner {
		return
	}
	if !view.Players().Strike(owner, id, target) {
		return
	}

	switch target.Kind {
	case entity.KindPlayer, entity.KindWraith:
		view.Audio().Play(core.SoundBulletHit)
	default:
		view.Audio().Play(core.SoundBulletWall)
	}
}
