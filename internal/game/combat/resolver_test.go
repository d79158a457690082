package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
)

func newResolver(t *testing.T, src dice.Source) *combat.Resolver {
	t.Helper()
	return combat.NewResolver(dice.NewLoggedRoller(src, zaptest.NewLogger(t)))
}

func TestDamageTables_Ranges(t *testing.T) {
	cases := []struct {
		name   string
		expr   dice.Expression
		lo, hi int
	}{
		{"player attack", combat.PlayerAttackDamage, 5, 14},
		{"player element", combat.PlayerElementDamage, 8, 19},
		{"ally attack", combat.AllyAttackDamage, 4, 11},
		{"enemy attack", combat.EnemyAttackDamage, 3, 12},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.lo, tc.expr.Min(), tc.name)
		assert.Equal(t, tc.hi, tc.expr.Max(), tc.name)
	}
}

func TestResolver_PlayerAttack_FirstAliveEnemy(t *testing.T) {
	dead := enemy("rat", 0)
	target := enemy("ghoul", 20)
	other := enemy("shade", 20)
	s := newSession(30, 20, dead, target, other)

	res := newResolver(t, script(6)).Player(s, combat.ActionAttack)

	assert.Same(t, target, res.Target)
	assert.Equal(t, 11, res.Damage) // 1d10 rolls 7, +4
	assert.Equal(t, 9, target.HP)
	assert.Equal(t, 20, other.HP)
	assert.Equal(t, 50, s.Player.Sanity)
	assert.Equal(t, "You attack the ghoul for 11 damage.", res.Message)
}

func TestResolver_PlayerAttack_KillClampsAndFlags(t *testing.T) {
	target := enemy("ghoul", 6)
	s := newSession(30, 20, target)

	res := newResolver(t, script(9)).Player(s, combat.ActionAttack)

	assert.True(t, res.Killed)
	assert.Equal(t, 0, target.HP)
	assert.False(t, target.Alive)
	assert.Contains(t, res.Message, "The ghoul falls.")
}

func TestResolver_PlayerElement_DamageAndSanityCost(t *testing.T) {
	target := enemy("ghoul", 30)
	s := newSession(30, 20, target)

	res := newResolver(t, script(0)).Player(s, combat.ActionElement)

	assert.Equal(t, 8, res.Damage)
	assert.Equal(t, 22, target.HP)
	assert.Equal(t, 45, s.Player.Sanity)
	assert.Equal(t, -5, res.SanityDelta)
}

func TestResolver_PlayerDefend(t *testing.T) {
	target := enemy("ghoul", 30)
	s := newSession(30, 20, target)

	res := newResolver(t, script()).Player(s, combat.ActionDefend)

	assert.Equal(t, 55, s.Player.Sanity)
	assert.Equal(t, 30, target.HP)
	assert.Nil(t, res.Target)
	assert.Equal(t, 5, res.SanityDelta)
}

func TestResolver_PlayerItem_NoInventoryCheck(t *testing.T) {
	s := newSession(30, 20, enemy("ghoul", 0))

	r := newResolver(t, script())
	r.Player(s, combat.ActionItem)
	r.Player(s, combat.ActionItem)

	assert.Equal(t, 50, s.Player.HP)
	assert.Equal(t, 70, s.Player.Sanity)
}

func TestResolver_PlayerAttack_NoTarget(t *testing.T) {
	s := newSession(30, 20, enemy("ghoul", 0))

	res := newResolver(t, script()).Player(s, combat.ActionElement)

	assert.True(t, res.NoTarget)
	assert.Nil(t, res.Target)
	assert.Equal(t, 50, s.Player.Sanity, "no-target element costs no sanity")
}

func TestResolver_Ally_AttacksFirstAliveEnemy(t *testing.T) {
	first := enemy("ghoul", 10)
	second := enemy("shade", 10)
	s := newSession(30, 20, first, second)

	res := newResolver(t, script(7)).Ally(s)

	assert.Same(t, first, res.Target)
	assert.Equal(t, 11, res.Damage)
	assert.Equal(t, 0, first.HP)
	assert.False(t, first.Alive)
	assert.Equal(t, 10, second.HP)
	assert.Equal(t, "Hound attacks the ghoul for 11 damage. The ghoul falls.", res.Message)
}

func TestResolver_Ally_NoTarget(t *testing.T) {
	s := newSession(30, 20, enemy("ghoul", 0))
	res := newResolver(t, script()).Ally(s)
	assert.True(t, res.NoTarget)
}

func TestResolver_Enemy_TargetsAllyOnLowDraw(t *testing.T) {
	s := newSession(30, 20, enemy("ghoul", 10))

	// chance draw 2 (< 3) picks the ally; damage die 4 → 5+2 = 7
	res := newResolver(t, script(2, 4)).Enemy(s, 0)

	assert.Same(t, s.Ally, res.Target)
	assert.Equal(t, 13, s.Ally.HP)
	assert.Equal(t, 40, s.Ally.Sanity, "ally sanity is never reduced")
	assert.Equal(t, 30, s.Player.HP)
	assert.Equal(t, 50, s.Player.Sanity)
}

func TestResolver_Enemy_TargetsPlayerOnHighDraw(t *testing.T) {
	s := newSession(30, 20, enemy("ghoul", 10))

	res := newResolver(t, script(3, 4)).Enemy(s, 0)

	assert.Same(t, s.Player, res.Target)
	assert.Equal(t, 23, s.Player.HP)
	assert.Equal(t, 47, s.Player.Sanity)
	assert.Equal(t, -3, res.TargetSanityDelta)
	assert.Equal(t, "The ghoul strikes you for 7 damage. (-3 sanity)", res.Message)
}

func TestResolver_Enemy_DeadAllyForcesPlayer(t *testing.T) {
	s := newSession(30, 0, enemy("ghoul", 10))

	// No chance draw is consumed: the first value is the damage die.
	res := newResolver(t, script(0)).Enemy(s, 0)

	assert.Same(t, s.Player, res.Target)
	assert.Equal(t, 3, res.Damage)
}

// TestResolver_EnemyTargetingProperty checks that the ally is only ever
// hit while alive and that only player hits cost sanity.
func TestResolver_EnemyTargetingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		allyHP := rapid.IntRange(0, 30).Draw(rt, "ally_hp")
		s := newSession(rapid.IntRange(1, 40).Draw(rt, "player_hp"), allyHP, enemy("ghoul", 10))
		src := dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))
		r := combat.NewResolver(dice.NewLoggedRoller(src, zaptest.NewLogger(t)))

		sanity := s.Player.Sanity
		allyAlive := s.Ally.Alive
		res := r.Enemy(s, 0)

		if !allyAlive {
			require.Same(rt, s.Player, res.Target)
		}
		assert.GreaterOrEqual(rt, res.Damage, 3)
		assert.LessOrEqual(rt, res.Damage, 12)
		if res.Target == s.Player {
			assert.Equal(rt, sanity-3, s.Player.Sanity)
		} else {
			assert.Equal(rt, sanity, s.Player.Sanity)
		}
		assertInvariant(rt, allCombatants(s)...)
	})
}
