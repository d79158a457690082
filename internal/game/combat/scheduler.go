package combat

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/game/dice"
)

// DefaultPaceDelay separates an automated action from the next turn.
const DefaultPaceDelay = 800 * time.Millisecond

// Options tunes a Scheduler.
type Options struct {
	// Pacer runs deferred continuations. Defaults to ImmediatePacer.
	Pacer Pacer
	// PaceDelay is handed to Pacer after every automated action.
	PaceDelay time.Duration
	// OnEnd is called exactly once when the encounter is decided.
	OnEnd func(Outcome)
}

// Scheduler drives one Session: it builds each round's turn order, dispatches
// turns to the Resolver, and runs the termination check after every action.
//
// A Scheduler is not safe for concurrent use. Callers serialize access by
// running every call on one goroutine, typically a Loop.
type Scheduler struct {
	session   *Session
	resolver  *Resolver
	src       dice.Source
	presenter Presenter
	pacer     Pacer
	delay     time.Duration
	onEnd     func(Outcome)
	ended     bool
	logger    *zap.Logger
}

// NewScheduler creates a Scheduler for s.
//
// Precondition: s, roller, presenter and logger must be non-nil.
// Postcondition: Returns a Scheduler that has not started a round.
func NewScheduler(s *Session, roller *dice.Roller, presenter Presenter, logger *zap.Logger, opts Options) *Scheduler {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = ImmediatePacer{}
	}
	return &Scheduler{
		session:   s,
		resolver:  NewResolver(roller),
		src:       roller.Source(),
		presenter: presenter,
		pacer:     pacer,
		delay:     opts.PaceDelay,
		onEnd:     opts.OnEnd,
		logger:    logger,
	}
}

// Session returns the Session this Scheduler drives.
func (s *Scheduler) Session() *Session { return s.session }

// StartRound builds a fresh turn order from the combatants alive right now
// and begins executing it. A dead player, or nobody alive at all, ends the
// encounter in defeat before any shuffling.
//
// Postcondition: either the encounter is over, or Round was incremented and
// the first turn of the new order has been dispatched.
func (s *Scheduler) StartRound() {
	sess := s.session
	if sess.Over() {
		return
	}

	order := sess.livingEntries()
	if len(order) == 0 || !sess.Player.Alive {
		sess.outcome = Defeat
		s.end()
		return
	}

	Shuffle(order, s.src)
	sess.order = order
	sess.turn = 0
	sess.Round++

	s.logger.Debug("round started",
		zap.Int("round", sess.Round),
		zap.Strings("order", entryNames(order)),
	)
	s.presenter.AppendLog(fmt.Sprintf("Round %d begins.", sess.Round))
	s.Advance()
}

// Advance dispatches the entry at the turn pointer. Exhausting the order
// starts a new round. Entries whose combatant died earlier in the round are
// skipped.
//
// The player's turn suspends the scheduler until Submit; ally and enemy
// turns resolve immediately and continue after the pace delay.
func (s *Scheduler) Advance() {
	sess := s.session
	if sess.Over() || sess.awaiting {
		return
	}

	for sess.turn < len(sess.order) && !sess.order[sess.turn].Combatant.Alive {
		sess.turn++
	}
	if sess.turn >= len(sess.order) {
		s.StartRound()
		return
	}

	entry := sess.order[sess.turn]
	switch entry.Role {
	case RolePlayer:
		sess.awaiting = true
		s.presenter.SetActionButtonsEnabled(true)
	case RoleAlly:
		s.automated(s.resolver.Ally(sess))
	case RoleEnemy:
		s.automated(s.resolver.Enemy(sess, entry.EnemyIndex))
	}
}

// Submit delivers the player's action. Input that arrives while it is not
// the player's turn, or after the encounter ended, is dropped.
//
// Postcondition: Returns true iff the action was resolved.
func (s *Scheduler) Submit(a Action) bool {
	sess := s.session
	if !sess.awaiting || sess.Over() || a == ActionUnknown {
		s.logger.Debug("player input ignored",
			zap.Stringer("action", a),
			zap.Bool("awaiting", sess.awaiting),
			zap.Stringer("outcome", sess.outcome),
		)
		return false
	}

	sess.awaiting = false
	s.presenter.SetActionButtonsEnabled(false)

	res := s.resolver.Player(sess, a)
	if res.NoTarget {
		sess.outcome = Victory
	} else {
		sess.outcome = sess.evaluate()
	}
	s.logResult(res)
	s.present(res)

	if sess.Over() {
		s.end()
		return true
	}
	sess.turn++
	s.Advance()
	return true
}

// automated records an ally or enemy result, decides the encounter at once,
// and defers presentation and the next turn by the pace delay.
func (s *Scheduler) automated(res Result) {
	sess := s.session
	sess.outcome = sess.evaluate()
	s.logResult(res)

	s.pacer.Defer(s.delay, func() {
		if s.ended {
			return
		}
		s.present(res)
		if sess.Over() {
			s.end()
			return
		}
		sess.turn++
		s.Advance()
	})
}

func (s *Scheduler) present(res Result) {
	s.presenter.AppendLog(res.Message)
	s.presenter.RenderStats(s.session.Player, s.session.Ally)
	s.presenter.RenderEnemies(s.session.Encounter.Enemies)
}

// end tears the encounter down once: input disabled, outcome announced,
// OnEnd fired.
func (s *Scheduler) end() {
	if s.ended {
		return
	}
	s.ended = true
	sess := s.session
	sess.awaiting = false
	sess.order = nil
	sess.turn = 0

	s.presenter.SetActionButtonsEnabled(false)
	switch sess.outcome {
	case Victory:
		s.presenter.AppendLog("Victory! The last of them falls still.")
	case Defeat:
		s.presenter.AppendLog("Defeat. The darkness takes you.")
	}
	s.logger.Info("encounter ended",
		zap.Stringer("outcome", sess.outcome),
		zap.Int("rounds", sess.Round),
		zap.Int("player_hp", sess.Player.HP),
		zap.Int("player_sanity", sess.Player.Sanity),
	)
	if s.onEnd != nil {
		s.onEnd(sess.outcome)
	}
}

func (s *Scheduler) logResult(res Result) {
	fields := []zap.Field{
		zap.Int("round", s.session.Round),
		zap.String("actor", res.Actor.DisplayName()),
		zap.Stringer("action", res.Action),
		zap.Int("damage", res.Damage),
		zap.Stringer("outcome", s.session.outcome),
	}
	if res.Target != nil {
		fields = append(fields, zap.String("target", res.Target.DisplayName()), zap.Int("target_hp", res.Target.HP))
	}
	s.logger.Debug("action resolved", fields...)
}

// Shuffle permutes items uniformly in place (Fisher–Yates, swap index drawn
// from the inclusive range [0, i]).
//
// Precondition: src must be non-nil.
func Shuffle[T any](items []T, src dice.Source) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func entryNames(order []TurnEntry) []string {
	names := make([]string, len(order))
	for i, e := range order {
		names[i] = e.Combatant.DisplayName()
	}
	return names
}
