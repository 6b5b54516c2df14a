package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityComparableAndHashable(t *testing.T) {
	set := map[Entity]int{}
	set[Bullet(1, 7)]++
	set[Bullet(1, 7)]++
	set[Bullet(0, 7)]++
	set[Player(1)]++

	assert.Equal(t, 2, set[Bullet(1, 7)])
	assert.Equal(t, 1, set[Bullet(0, 7)])
	assert.Len(t, set, 3)
	assert.NotEqual(t, Player(1), Wraith(1))
}

func TestAccessors(t *testing.T) {
	owner, bullet, ok := Bullet(3, 42).AsBullet()
	require.True(t, ok)
	assert.Equal(t, PlayerID(3), owner)
	assert.Equal(t, BulletID(42), bullet)

	_, ok = Player(3).AsWraith()
	assert.False(t, ok)

	id, ok := BuffDrop(9).AsBuffDrop()
	require.True(t, ok)
	assert.Equal(t, BuffDropID(9), id)

	assert.True(t, Entity{}.IsZero())
	assert.False(t, MapWall().IsZero())
}

func TestOrder(t *testing.T) {
	p, b := Player(0), Bullet(1, 7)

	tests := []struct {
		name   string
		e1, e2 Entity
	}{
		{"player first", p, b},
		{"bullet first", b, p},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := Order(tt.e1, tt.e2, KindPlayer, KindBullet)
			require.True(t, ok)
			assert.Equal(t, p, x)
			assert.Equal(t, b, y)
		})
	}

	_, _, ok := Order(p, Wraith(1), KindPlayer, KindBullet)
	assert.False(t, ok)
}

func TestOther(t *testing.T) {
	self, other, ok := Other(MapWall(), Bullet(2, 1), KindBullet)
	require.True(t, ok)
	assert.Equal(t, Bullet(2, 1), self)
	assert.Equal(t, MapWall(), other)

	_, _, ok = Other(Bullet(2, 1), Bullet(1, 1), KindBullet)
	assert.False(t, ok, "bullet on bullet has no distinguished side")
}

func TestString(t *testing.T) {
	assert.Equal(t, "bullet(1,7)", Bullet(1, 7).String())
	assert.Equal(t, "map_wall", MapWall().String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
