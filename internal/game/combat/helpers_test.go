package combat_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
)

// scriptSrc replays vals in order (each reduced modulo n) and returns 0 once exhausted.
type scriptSrc struct {
	vals []int
	pos  int
}

func (s *scriptSrc) Intn(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos] % n
	s.pos++
	return v
}

func script(vals ...int) *scriptSrc { return &scriptSrc{vals: vals} }

// recorder is a Presenter that keeps every call for assertions.
type recorder struct {
	logs       []string
	backdrops  []string
	buttons    []bool
	statsCalls int
	enemyCalls int
}

func (r *recorder) RenderStats(_, _ *combat.Combatant)  { r.statsCalls++ }
func (r *recorder) RenderBackdrop(id string)            { r.backdrops = append(r.backdrops, id) }
func (r *recorder) RenderEnemies(_ []*combat.Combatant) { r.enemyCalls++ }
func (r *recorder) AppendLog(text string)               { r.logs = append(r.logs, text) }
func (r *recorder) SetActionButtonsEnabled(on bool)     { r.buttons = append(r.buttons, on) }

func (r *recorder) lastButtons() bool {
	if len(r.buttons) == 0 {
		return false
	}
	return r.buttons[len(r.buttons)-1]
}

func enemy(typ string, hp int) *combat.Combatant {
	return &combat.Combatant{Type: typ, HP: hp}
}

func newSession(playerHP, allyHP int, enemies ...*combat.Combatant) *combat.Session {
	return combat.NewSession(
		&combat.Combatant{Name: "Investigator", HP: playerHP, Sanity: 50},
		&combat.Combatant{Name: "Hound", HP: allyHP, Sanity: 40},
		combat.Encounter{Backdrop: "crypt", Enemies: enemies},
	)
}

type harness struct {
	sched   *combat.Scheduler
	sess    *combat.Session
	pres    *recorder
	pacer   *combat.ManualPacer
	endings []combat.Outcome
}

// newHarness wires a Scheduler to a ManualPacer so tests step between turns.
func newHarness(t *testing.T, sess *combat.Session, src dice.Source) *harness {
	t.Helper()
	h := &harness{sess: sess, pres: &recorder{}, pacer: &combat.ManualPacer{}}
	logger := zaptest.NewLogger(t)
	h.sched = combat.NewScheduler(sess, dice.NewLoggedRoller(src, logger), h.pres, logger, combat.Options{
		Pacer:     h.pacer,
		PaceDelay: combat.DefaultPaceDelay,
		OnEnd:     func(o combat.Outcome) { h.endings = append(h.endings, o) },
	})
	return h
}

func assertInvariant(t interface {
	Helper()
	Fatalf(string, ...any)
}, cs ...*combat.Combatant) {
	t.Helper()
	for _, c := range cs {
		if c.HP < 0 {
			t.Fatalf("%s: HP %d below zero", c.DisplayName(), c.HP)
		}
		if c.Alive != (c.HP > 0) {
			t.Fatalf("%s: Alive=%v with HP %d", c.DisplayName(), c.Alive, c.HP)
		}
	}
}

func allCombatants(s *combat.Session) []*combat.Combatant {
	return append([]*combat.Combatant{s.Player, s.Ally}, s.Encounter.Enemies...)
}
