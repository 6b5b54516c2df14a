package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAccepts(t *testing.T) {
	tests := []struct {
		name string
		a, b Filter
		want bool
	}{
		{"bullet hits wall", PlayerWeaponFilter(1), FilterBarrier, true},
		{"bullet hits other player", PlayerWeaponFilter(1), PlayerBodyFilter(2), true},
		{"bullet skips own player", PlayerWeaponFilter(1), PlayerBodyFilter(1), false},
		{"bullet skips pickups", PlayerWeaponFilter(1), FilterPickup, false},
		{"player touches pickup", PlayerBodyFilter(1), FilterPickup, true},
		{"wraith ignores pickups", FilterWraith, FilterPickup, false},
		{"wraith hits barrel", FilterWraith, FilterBarrel, true},
		{"bullets pass each other", PlayerWeaponFilter(1), PlayerWeaponFilter(2), false},
		{"bullet breaks buff box", PlayerWeaponFilter(3), FilterBuffBox, true},
		{"wraith feels player reach", FilterWraith, PlayerReachFilter(1), true},
		{"reach ignores walls", PlayerReachFilter(1), FilterBarrier, false},
		{"zero filter accepts nothing", Filter{}, FilterAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Accepts(tt.b))
			assert.Equal(t, tt.want, tt.b.Accepts(tt.a), "symmetric")
		})
	}
}
