package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/frontend/telnet"
	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/observability"
)

// errFled ends a session at the player's request.
var errFled = errors.New("player fled")

// EncounterHandler plays the snapshot's current encounter once per client.
// Each session gets its own combat.Loop; input lines are read on a separate
// goroutine and handed to the loop through Call.
type EncounterHandler struct {
	source encounter.StateSource
	cfg    config.EncounterConfig
	logger *zap.Logger
}

// NewEncounterHandler creates an EncounterHandler.
//
// Precondition: source and logger must be non-nil.
func NewEncounterHandler(source encounter.StateSource, cfg config.EncounterConfig, logger *zap.Logger) *EncounterHandler {
	return &EncounterHandler{source: source, cfg: cfg, logger: logger}
}

// HandleSession implements telnet.SessionHandler.
func (h *EncounterHandler) HandleSession(ctx context.Context, sessionID string, conn *telnet.Conn) error {
	_ = conn.WriteLine(telnet.Colorize(telnet.Bold+telnet.BrightMagenta, "Something stirs in the dark..."))
	return h.Play(ctx, sessionID, "telnet", conn)
}

// Play runs one encounter on term until it is decided, the player quits,
// input fails, or ctx ends.
//
// Postcondition: Returns nil when the encounter was decided or the player
// quit; otherwise the load, input, or context error.
func (h *EncounterHandler) Play(ctx context.Context, sessionID, surface string, term Terminal) error {
	state, err := h.source.Load(ctx)
	if err != nil {
		h.logger.Error("loading game state",
			zap.String("session", sessionID),
			zap.String("surface", surface),
			zap.Error(err),
		)
		_ = term.WriteLine(telnet.Colorize(telnet.Red, "The encounter could not be loaded."))
		return fmt.Errorf("loading game state: %w", err)
	}
	logger := observability.SessionLogger(h.logger, sessionID, surface, state.CurrentEncounter)

	loop := combat.NewLoop()
	go func() { _ = loop.Run(ctx) }()
	defer loop.Stop()

	pres := NewTextPresenter(term)
	ended := make(chan combat.Outcome, 1)
	roller := dice.NewLoggedRoller(dice.SourceForSeed(h.cfg.Seed), logger)
	loader := encounter.NewLoader(roller, pres, logger, combat.Options{
		Pacer:     loop,
		PaceDelay: h.cfg.PaceDelay,
		OnEnd:     func(o combat.Outcome) { ended <- o },
	})

	var sched *combat.Scheduler
	var beginErr error
	if err := loop.Call(ctx, func() { sched, beginErr = loader.BeginCurrent(state) }); err != nil {
		return err
	}
	if beginErr != nil {
		logger.Error("starting encounter", zap.Error(beginErr))
		_ = term.WriteLine(telnet.Colorize(telnet.Red, "The encounter could not be started."))
		return beginErr
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		for {
			line, err := term.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-loop.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-ended:
			logger.Info("session finished", zap.Stringer("outcome", o))
			return nil
		case err := <-readErr:
			return fmt.Errorf("reading input: %w", err)
		case line := <-lines:
			err := h.handleLine(ctx, loop, sched, pres, term, line)
			if errors.Is(err, errFled) {
				logger.Info("player fled", zap.Int("round", sched.Session().Round))
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

func (h *EncounterHandler) handleLine(ctx context.Context, loop *combat.Loop, sched *combat.Scheduler, pres *TextPresenter, term Terminal, line string) error {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		return nil
	case "quit", "flee":
		_ = term.WriteLine(telnet.Colorize(telnet.Yellow, "You flee into the dark."))
		return errFled
	case "help", "?":
		writeHelp(term)
		return nil
	case "status", "look":
		return loop.Call(ctx, func() {
			sess := sched.Session()
			pres.RenderBackdrop(sess.Encounter.Backdrop)
			pres.RenderEnemies(sess.Encounter.Enemies)
			pres.RenderStats(sess.Player, sess.Ally)
			if sess.AwaitingInput() {
				pres.SetActionButtonsEnabled(true)
			}
		})
	}

	action, ok := combat.ParseAction(cmd)
	if !ok {
		_ = term.WriteLine(telnet.Colorf(telnet.Yellow, "Unknown action %q. Type help for options.", cmd))
		return nil
	}
	var accepted bool
	if err := loop.Call(ctx, func() { accepted = sched.Submit(action) }); err != nil {
		return err
	}
	if !accepted {
		_ = term.WriteLine(telnet.Colorize(telnet.Dim, "Wait for your turn."))
	}
	return nil
}

func writeHelp(term Terminal) {
	_ = term.WriteLine(telnet.Colorize(telnet.BrightWhite, "Actions (on your turn):"))
	for i, a := range combat.Actions {
		_ = term.WriteLine(fmt.Sprintf("  %d. %-8s (%s)", i+1, a, a.String()[:1]))
	}
	_ = term.WriteLine(telnet.Colorize(telnet.BrightWhite, "Other: status, help, quit"))
}
