package web

import "github.com/cory-johannsen/encounter/internal/game/combat"

// DefaultLogLimit caps the combat log kept per HTTP session.
const DefaultLogLimit = 200

// LogBuffer is the Presenter behind an HTTP session. Clients poll the
// session view for combatant state, so only the backdrop, the log, and the
// input flag are recorded. It must only be touched from the session's Loop.
type LogBuffer struct {
	Backdrop     string
	Lines        []string
	InputEnabled bool
	limit        int
}

// NewLogBuffer creates a LogBuffer keeping at most limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return &LogBuffer{limit: limit}
}

func (b *LogBuffer) RenderStats(_, _ *combat.Combatant)  {}
func (b *LogBuffer) RenderEnemies(_ []*combat.Combatant) {}
func (b *LogBuffer) RenderBackdrop(id string)            { b.Backdrop = id }
func (b *LogBuffer) SetActionButtonsEnabled(on bool)     { b.InputEnabled = on }

// AppendLog records text, dropping the oldest line once the limit is reached.
func (b *LogBuffer) AppendLog(text string) {
	if len(b.Lines) == b.limit {
		copy(b.Lines, b.Lines[1:])
		b.Lines = b.Lines[:len(b.Lines)-1]
	}
	b.Lines = append(b.Lines, text)
}

// Snapshot copies the log.
func (b *LogBuffer) Snapshot() []string {
	return append([]string(nil), b.Lines...)
}
