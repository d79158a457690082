package handlers

import (
	"strings"
	"sync"

	"github.com/cory-johannsen/encounter/internal/game/combat"
)

// TextPresenter renders encounter updates as ANSI text on a Terminal.
// Gauges are scaled against the highest HP seen for each combatant, since
// the snapshot carries no maximum.
type TextPresenter struct {
	term Terminal

	mu        sync.Mutex
	playerMax int
	allyMax   int
	err       error
}

// NewTextPresenter creates a TextPresenter writing to term.
//
// Precondition: term must be non-nil.
func NewTextPresenter(term Terminal) *TextPresenter {
	return &TextPresenter{term: term}
}

// RenderStats implements combat.Presenter.
func (p *TextPresenter) RenderStats(player, ally *combat.Combatant) {
	p.mu.Lock()
	p.playerMax = max(p.playerMax, player.HP)
	p.allyMax = max(p.allyMax, ally.HP)
	text := RenderStats(player, ally, p.playerMax, p.allyMax)
	p.mu.Unlock()
	p.lines(text)
}

// RenderBackdrop implements combat.Presenter.
func (p *TextPresenter) RenderBackdrop(id string) {
	p.lines("", RenderBackdrop(id))
}

// RenderEnemies implements combat.Presenter.
func (p *TextPresenter) RenderEnemies(enemies []*combat.Combatant) {
	p.lines(RenderEnemies(enemies))
}

// AppendLog implements combat.Presenter.
func (p *TextPresenter) AppendLog(text string) {
	p.lines(RenderLog(text))
}

// SetActionButtonsEnabled implements combat.Presenter. Enabling input
// shows the action prompt.
func (p *TextPresenter) SetActionButtonsEnabled(on bool) {
	if on {
		p.record(p.term.WritePrompt(ActionPrompt))
	}
}

// Err returns the first write error, if any.
func (p *TextPresenter) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *TextPresenter) lines(texts ...string) {
	for _, text := range texts {
		for _, line := range strings.Split(text, "\r\n") {
			p.record(p.term.WriteLine(line))
		}
	}
}

func (p *TextPresenter) record(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}
