// Package combat implements the turn-based encounter engine: the combatant
// model, the per-round turn scheduler, and action resolution.
package combat

// Role distinguishes the three kinds of combatant in an encounter.
type Role int

const (
	RolePlayer Role = iota
	RoleAlly
	RoleEnemy
)

// String returns the lower-case role label.
func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleAlly:
		return "ally"
	case RoleEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Combatant is one participant in an encounter.
//
// Invariant: Alive == (HP > 0) and HP >= 0 after every mutation made
// through the methods below.
type Combatant struct {
	Role Role
	// Name is the display name; enemies fall back to Type when empty.
	Name string
	// Type is the enemy identifier, e.g. "ghoul". Empty for player and ally.
	Type string
	HP   int
	// Sanity is tracked for the player and the ally only.
	Sanity int
	Alive  bool
}

// DisplayName returns Name, falling back to Type and then the role label.
func (c *Combatant) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Type != "":
		return c.Type
	default:
		return c.Role.String()
	}
}

// RefreshAlive clamps HP to zero and recomputes Alive from HP.
// Used at encounter load; afterwards Alive only ever transitions to false.
//
// Postcondition: HP >= 0 and Alive == (HP > 0).
func (c *Combatant) RefreshAlive() {
	if c.HP < 0 {
		c.HP = 0
	}
	c.Alive = c.HP > 0
}

// ApplyDamage reduces HP by amount, flooring at zero, and marks the
// combatant dead when HP reaches zero.
//
// Precondition: amount >= 0.
// Postcondition: HP >= 0; Alive == (HP > 0). Returns true when this call killed the combatant.
func (c *Combatant) ApplyDamage(amount int) bool {
	wasAlive := c.Alive
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
	c.Alive = c.HP > 0
	return wasAlive && !c.Alive
}

// Heal raises HP by amount. Dead combatants never revive.
//
// Precondition: amount >= 0.
// Postcondition: HP unchanged when !Alive; otherwise HP increased by amount.
func (c *Combatant) Heal(amount int) {
	if !c.Alive {
		return
	}
	c.HP += amount
}

// AdjustSanity adds delta (which may be negative) to Sanity. Sanity is unbounded.
func (c *Combatant) AdjustSanity(delta int) {
	c.Sanity += delta
}
