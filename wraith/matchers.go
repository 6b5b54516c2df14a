package wraith

import (
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/core"
	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/physics"
	"github.com/j-rock/fortress-sub001/script"
)

// ContactMatchers are the wraith's contact handlers
func (s *System) ContactMatchers() []physics.ContactMatcher {
	return []physics.ContactMatcher{
		physics.ContactPair("wraith touch", entity.KindPlayer, entity.KindWraith, s.touch),
	}
}

// ProximityMatchers are the wraith's proximity handlers
func (s *System) ProximityMatchers() []physics.ProximityMatcher {
	return []physics.ProximityMatcher{
		physics.ProximityPair("wraith sight", entity.KindPlayer, entity.KindWraith, s.sight),
	}
}

func (s *System) touch(pe, we entity.Entity, kind physics.ContactKind, view *physics.WorldView) {
	if kind != physics.ContactStarted {
		return
	}
	pid, _ := pe.AsPlayer()
	wid, _ := we.AsWraith()
	w := s.wraith(wid)
	if w == nil || w.state == Stunned || !w.state.Alive() {
		return
	}

	dmg := s.table.ContactDamage
	if s.scripts != nil {
		dmg = s.scripts.WraithContactDamage(script.ContactDamageContext{
			Base:         s.table.ContactDamage,
			Health:       s.targets.Health(pid),
			WraithHealth: w.health,
		})
	}
	if !view.Players().Damage(pid, dmg) {
		return
	}
	view.Audio().Play(core.SoundPlayerHurt)
	s.touches.Add(1)
	s.touched = append(s.touched, wid)
	s.log.Debug("wraith touched player", zap.Uint32("wraith", uint32(wid)), zap.Uint8("player", uint8(pid)), zap.Int("damage", dmg))
}

// sight tracks which players' reach holds a wraith; the margin ring counts
func (s *System) sight(pe, we entity.Entity, p physics.Proximity, _ *physics.WorldView) {
	pid, _ := pe.AsPlayer()
	wid, _ := we.AsWraith()
	s.sightings = append(s.sightings, sighting{wraith: wid, player: pid, seen: p.Curr != physics.Disjoint})
}
