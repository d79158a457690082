package encounter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
)

// Loader is the sole constructor of live combat data. Each Begin builds
// fresh combatants from the snapshot, so the snapshot itself is never
// mutated by play.
type Loader struct {
	roller    *dice.Roller
	presenter combat.Presenter
	logger    *zap.Logger
	opts      combat.Options
}

// NewLoader creates a Loader whose schedulers use roller, presenter and opts.
//
// Precondition: roller, presenter and logger must be non-nil.
func NewLoader(roller *dice.Roller, presenter combat.Presenter, logger *zap.Logger, opts combat.Options) *Loader {
	return &Loader{roller: roller, presenter: presenter, logger: logger, opts: opts}
}

// Begin starts the encounter at index: it builds the session, renders the
// opening view and starts the first round.
//
// Precondition: state must be non-nil.
// Postcondition: Returns a started Scheduler, or ErrEncounterIndex /
// ErrNoEnemies with nothing rendered.
func (l *Loader) Begin(state *GameState, index int) (*combat.Scheduler, error) {
	def, err := state.Encounter(index)
	if err != nil {
		return nil, err
	}
	if len(def.Enemies) == 0 {
		return nil, fmt.Errorf("%w: encounter %d", ErrNoEnemies, index)
	}

	roster := def.Enemies
	if len(roster) > combat.MaxEnemies {
		l.logger.Warn("enemy roster truncated",
			zap.Int("encounter", index),
			zap.Int("defined", len(roster)),
			zap.Int("max", combat.MaxEnemies),
		)
		roster = roster[:combat.MaxEnemies]
	}

	enemies := make([]*combat.Combatant, len(roster))
	for i, e := range roster {
		enemies[i] = &combat.Combatant{Name: e.Name, Type: e.Type, HP: e.HP}
	}
	sess := combat.NewSession(
		newCombatant(state.Player),
		newCombatant(state.Ally),
		combat.Encounter{Backdrop: def.Backdrop, Enemies: enemies},
	)
	sched := combat.NewScheduler(sess, l.roller, l.presenter, l.logger, l.opts)

	l.logger.Info("encounter loaded",
		zap.Int("encounter", index),
		zap.String("backdrop", def.Backdrop),
		zap.Int("enemies", len(enemies)),
	)
	l.presenter.RenderBackdrop(def.Backdrop)
	l.presenter.RenderEnemies(enemies)
	l.presenter.RenderStats(sess.Player, sess.Ally)
	l.presenter.AppendLog(introLine(def.Backdrop, enemies))

	sched.StartRound()
	return sched, nil
}

// BeginCurrent starts the snapshot's current encounter.
func (l *Loader) BeginCurrent(state *GameState) (*combat.Scheduler, error) {
	return l.Begin(state, state.CurrentEncounter)
}

func newCombatant(def CombatantDef) *combat.Combatant {
	return &combat.Combatant{Name: def.Name, Type: def.Type, HP: def.HP, Sanity: def.Sanity}
}

func introLine(backdrop string, enemies []*combat.Combatant) string {
	names := make([]string, len(enemies))
	for i, e := range enemies {
		names[i] = e.DisplayName()
	}
	place := backdrop
	if place == "" {
		place = "the dark"
	}
	return fmt.Sprintf("In %s you face: %s.", place, strings.Join(names, ", "))
}
