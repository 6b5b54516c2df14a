package core

// SoundType identifies a one-shot sound effect triggered by gameplay
type SoundType int

const (
	SoundShot       SoundType = iota // Weapon fire
	SoundBulletWall                  // Bullet absorbed by wall or barrel
	SoundBulletHit                   // Bullet struck a player or wraith
	SoundPlayerHurt                  // Wraith touched a player
	SoundPickup                      // Item collected
	SoundBuff                        // Buff drop collected
	SoundBoxBreak                    // Buff box destroyed
	SoundExplosion                   // Barrel destroyed
	SoundWraithDeath                 // Wraith destroyed
	SoundTypeCount
)

var soundNames = [SoundTypeCount]string{
	"shot", "bullet_wall", "bullet_hit", "player_hurt", "pickup",
	"buff", "box_break", "explosion", "wraith_death",
}

func (s SoundType) String() string {
	if s >= 0 && s < SoundTypeCount {
		return soundNames[s]
	}
	return "unknown"
}
