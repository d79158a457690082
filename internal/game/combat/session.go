package combat

// MaxEnemies is the largest enemy roster an encounter fields.
const MaxEnemies = 3

// Outcome is the state of an encounter.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Encounter is the loaded combat definition: a backdrop and its enemy roster.
type Encounter struct {
	Backdrop string
	Enemies  []*Combatant
}

// TurnEntry references one combatant in a round's turn order.
type TurnEntry struct {
	Role      Role
	Combatant *Combatant
	// EnemyIndex is the position in Encounter.Enemies, or -1 for player and ally.
	EnemyIndex int
}

// Session holds the live state of one encounter. It is created by the
// encounter loader and owned by exactly one Scheduler.
type Session struct {
	Player    *Combatant
	Ally      *Combatant
	Encounter Encounter
	// Round is the number of rounds started so far.
	Round int

	order    []TurnEntry
	turn     int
	awaiting bool
	outcome  Outcome
}

// NewSession builds a Session, refreshing every combatant's alive flag from HP.
//
// Precondition: player and ally must be non-nil; len(enc.Enemies) <= MaxEnemies.
// Postcondition: every combatant satisfies Alive == (HP > 0).
func NewSession(player, ally *Combatant, enc Encounter) *Session {
	player.Role = RolePlayer
	ally.Role = RoleAlly
	player.RefreshAlive()
	ally.RefreshAlive()
	for _, e := range enc.Enemies {
		e.Role = RoleEnemy
		e.RefreshAlive()
	}
	return &Session{Player: player, Ally: ally, Encounter: enc}
}

// Outcome returns the current encounter outcome.
func (s *Session) Outcome() Outcome { return s.outcome }

// Over reports whether the encounter has been decided.
func (s *Session) Over() bool { return s.outcome != Ongoing }

// AwaitingInput reports whether the scheduler is suspended on the player's turn.
func (s *Session) AwaitingInput() bool { return s.awaiting }

// TurnOrder returns a copy of the current round's turn order.
func (s *Session) TurnOrder() []TurnEntry {
	cp := make([]TurnEntry, len(s.order))
	copy(cp, s.order)
	return cp
}

// TurnIndex returns the position of the active entry in TurnOrder.
func (s *Session) TurnIndex() int { return s.turn }

// FirstAliveEnemy returns the first living enemy in roster order, or nil.
func (s *Session) FirstAliveEnemy() *Combatant {
	for _, e := range s.Encounter.Enemies {
		if e.Alive {
			return e
		}
	}
	return nil
}

// AllEnemiesDead reports whether no enemy remains alive.
func (s *Session) AllEnemiesDead() bool {
	return s.FirstAliveEnemy() == nil
}

// livingEntries collects the combatants alive right now: player, ally, then
// enemies in roster order.
func (s *Session) livingEntries() []TurnEntry {
	entries := make([]TurnEntry, 0, 2+len(s.Encounter.Enemies))
	if s.Player.Alive {
		entries = append(entries, TurnEntry{Role: RolePlayer, Combatant: s.Player, EnemyIndex: -1})
	}
	if s.Ally.Alive {
		entries = append(entries, TurnEntry{Role: RoleAlly, Combatant: s.Ally, EnemyIndex: -1})
	}
	for i, e := range s.Encounter.Enemies {
		if e.Alive {
			entries = append(entries, TurnEntry{Role: RoleEnemy, Combatant: e, EnemyIndex: i})
		}
	}
	return entries
}

// evaluate runs the termination check: all enemies dead is a victory,
// a dead player is a defeat.
func (s *Session) evaluate() Outcome {
	switch {
	case s.AllEnemiesDead():
		return Victory
	case !s.Player.Alive:
		return Defeat
	default:
		return Ongoing
	}
}

// CombatantView is a serializable snapshot of one combatant.
type CombatantView struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	HP     int    `json:"hp"`
	Sanity int    `json:"sanity,omitempty"`
	Alive  bool   `json:"alive"`
}

// View is a serializable snapshot of a Session.
type View struct {
	Backdrop      string          `json:"backdrop"`
	Round         int             `json:"round"`
	Player        CombatantView   `json:"player"`
	Ally          CombatantView   `json:"ally"`
	Enemies       []CombatantView `json:"enemies"`
	TurnOrder     []string        `json:"turnOrder"`
	AwaitingInput bool            `json:"awaitingInput"`
	Outcome       string          `json:"outcome"`
}

func viewOf(c *Combatant) CombatantView {
	return CombatantView{
		Role:   c.Role.String(),
		Name:   c.DisplayName(),
		Type:   c.Type,
		HP:     c.HP,
		Sanity: c.Sanity,
		Alive:  c.Alive,
	}
}

// View snapshots the session for presentation surfaces that poll state.
func (s *Session) View() View {
	v := View{
		Backdrop:      s.Encounter.Backdrop,
		Round:         s.Round,
		Player:        viewOf(s.Player),
		Ally:          viewOf(s.Ally),
		Enemies:       make([]CombatantView, 0, len(s.Encounter.Enemies)),
		TurnOrder:     make([]string, 0, len(s.order)),
		AwaitingInput: s.awaiting,
		Outcome:       s.outcome.String(),
	}
	for _, e := range s.Encounter.Enemies {
		v.Enemies = append(v.Enemies, viewOf(e))
	}
	for _, entry := range s.order {
		v.TurnOrder = append(v.TurnOrder, entry.Combatant.DisplayName())
	}
	return v
}
