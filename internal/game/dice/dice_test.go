package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/encounter/internal/game/dice"
)

// fixedSrc returns val for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// TestRollResult_Total verifies the postcondition: Total() == sum(Dice) + Modifier.
func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, 12, r.Total(), "Total() must equal sum(Dice)+Modifier")
}

// TestRollResult_String verifies the audit string contains expression, dice, and total.
func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{
		Expression: "1d10+4",
		Dice:       []int{7},
		Modifier:   4,
	}
	assert.Equal(t, "1d10+4 → [7] +4 = 11", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}, Modifier: 0}
	assert.Panics(t, func() { _ = r.String() })
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                     string
		count, sides, modifier int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"1d10+4", 1, 10, 4},
		{"1D12+7", 1, 12, 7},
		{"4d8-2", 4, 8, -2},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifier, e.Modifier)
			assert.Equal(t, tc.in, e.Raw)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "xd6", "1d1", "1d", "1d6+x", "1d+6"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestExpression_MinMax(t *testing.T) {
	cases := map[string][2]int{
		"1d10+4": {5, 14},
		"1d12+7": {8, 19},
		"1d8+3":  {4, 11},
		"1d10+2": {3, 12},
	}
	for in, want := range cases {
		e := dice.MustParse(in)
		assert.Equal(t, want[0], e.Min(), in)
		assert.Equal(t, want[1], e.Max(), in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestRoll_UsesSource(t *testing.T) {
	r := dice.Roll(dice.MustParse("2d6+1"), fixedSrc{val: 5})
	assert.Equal(t, []int{6, 6}, r.Dice)
	assert.Equal(t, 13, r.Total())
}

func TestRollExpr_ParseError(t *testing.T) {
	_, err := dice.RollExpr("bogus", fixedSrc{})
	assert.Error(t, err)
}

// TestRoll_Property verifies every roll lands within [Min, Max].
func TestRoll_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 5).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-10, 10).Draw(rt, "mod")
		seed := rapid.Int64().Draw(rt, "seed")

		e := dice.MustParse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		total := dice.Roll(e, dice.NewSeededSource(seed)).Total()
		assert.GreaterOrEqual(rt, total, e.Min())
		assert.LessOrEqual(rt, total, e.Max())
	})
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[0-9]+d[0-9]+[+-][0-9]+`).Draw(rt, "expression")
		rolled := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")

		r := dice.RollResult{Expression: expr, Dice: rolled, Modifier: modifier}
		s := r.String()
		assert.True(rt, strings.HasPrefix(s, expr))
		assert.True(rt, strings.HasSuffix(s, fmt.Sprintf("= %d", r.Total())))
	})
}

func TestBetween_Inclusive(t *testing.T) {
	assert.Equal(t, 5, dice.Between(fixedSrc{val: 0}, 5, 14))
	assert.Equal(t, 14, dice.Between(fixedSrc{val: 9}, 5, 14))
	assert.Panics(t, func() { dice.Between(fixedSrc{}, 3, 2) })
}

func TestBetween_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+50).Draw(rt, "hi")
		v := dice.Between(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")), lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a, b := dice.NewSeededSource(7), dice.NewSeededSource(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestSourceForSeed(t *testing.T) {
	assert.NotNil(t, dice.SourceForSeed(0))
	a, b := dice.SourceForSeed(99), dice.SourceForSeed(99)
	assert.Equal(t, a.Intn(1_000_000), b.Intn(1_000_000))
}

func TestLoggedRoller_LogsRollAndChance(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(fixedSrc{val: 2}, zap.New(core))

	res := r.Roll("attack", dice.MustParse("1d10+4"))
	assert.Equal(t, 7, res.Total())
	assert.True(t, r.Chance("target", 3, 10))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "dice roll", entries[0].Message)
	assert.Equal(t, "attack", entries[0].ContextMap()["purpose"])
	assert.Equal(t, int64(7), entries[0].ContextMap()["total"])
	assert.Equal(t, "dice chance", entries[1].Message)
	assert.Equal(t, true, entries[1].ContextMap()["hit"])
}
