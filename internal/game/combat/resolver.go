package combat

import (
	"fmt"

	"github.com/cory-johannsen/encounter/internal/game/dice"
)

// Damage tables. Each is a single die plus a flat bonus, so the total is
// uniform over [Min, Max].
var (
	// PlayerAttackDamage is uniform over [5, 14].
	PlayerAttackDamage = dice.MustParse("1d10+4")
	// PlayerElementDamage is uniform over [8, 19].
	PlayerElementDamage = dice.MustParse("1d12+7")
	// AllyAttackDamage is uniform over [4, 11].
	AllyAttackDamage = dice.MustParse("1d8+3")
	// EnemyAttackDamage is uniform over [3, 12].
	EnemyAttackDamage = dice.MustParse("1d10+2")
)

// Fixed effect magnitudes.
const (
	DefendSanity      = 5
	ElementSanityCost = 5
	ItemHeal          = 10
	ItemSanity        = 10
	EnemyHorror       = 3

	// An enemy picks the living ally with probability AllyTargetChance/AllyTargetOutOf.
	AllyTargetChance = 3
	AllyTargetOutOf  = 10
)

// Result describes one resolved action.
type Result struct {
	Actor  *Combatant
	Action Action
	// Target is nil for self-only actions and for attacks with no living enemy.
	Target *Combatant
	Damage int
	// HPDelta and SanityDelta are applied to the actor.
	HPDelta     int
	SanityDelta int
	// TargetSanityDelta is applied to the target.
	TargetSanityDelta int
	// NoTarget is set when a targeted action found no living enemy.
	NoTarget bool
	// Killed is set when this action brought the target to zero HP.
	Killed  bool
	Message string
}

// Resolver applies the numeric effect of one action and produces its log line.
type Resolver struct {
	roller *dice.Roller
}

// NewResolver creates a Resolver that draws all randomness from roller.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller) *Resolver {
	return &Resolver{roller: roller}
}

// Player resolves the player's chosen action against s.
//
// Precondition: a is one of Actions; s.Player is alive.
// Postcondition: every touched combatant satisfies Alive == (HP > 0).
func (r *Resolver) Player(s *Session, a Action) Result {
	p := s.Player
	res := Result{Actor: p, Action: a}

	switch a {
	case ActionDefend:
		p.AdjustSanity(DefendSanity)
		res.SanityDelta = DefendSanity
		res.Message = fmt.Sprintf("You steel your nerves. (+%d sanity)", DefendSanity)
		return res

	case ActionItem:
		p.Heal(ItemHeal)
		p.AdjustSanity(ItemSanity)
		res.HPDelta = ItemHeal
		res.SanityDelta = ItemSanity
		res.Message = fmt.Sprintf("You use a restorative. (+%d HP, +%d sanity)", ItemHeal, ItemSanity)
		return res
	}

	target := s.FirstAliveEnemy()
	if target == nil {
		res.NoTarget = true
		res.Message = "There is nothing left to strike."
		return res
	}
	res.Target = target

	switch a {
	case ActionAttack:
		res.Damage = r.roller.Roll("player attack", PlayerAttackDamage).Total()
		res.Killed = target.ApplyDamage(res.Damage)
		res.Message = fmt.Sprintf("You attack the %s for %d damage.", target.DisplayName(), res.Damage)
	case ActionElement:
		res.Damage = r.roller.Roll("player element", PlayerElementDamage).Total()
		res.Killed = target.ApplyDamage(res.Damage)
		p.AdjustSanity(-ElementSanityCost)
		res.SanityDelta = -ElementSanityCost
		res.Message = fmt.Sprintf("You unleash an elemental surge on the %s for %d damage. (-%d sanity)",
			target.DisplayName(), res.Damage, ElementSanityCost)
	}
	if res.Killed {
		res.Message += fmt.Sprintf(" The %s falls.", target.DisplayName())
	}
	return res
}

// Ally resolves the ally's automated turn: an attack on the first living enemy.
//
// Postcondition: the target satisfies Alive == (HP > 0).
func (r *Resolver) Ally(s *Session) Result {
	a := s.Ally
	res := Result{Actor: a, Action: ActionAttack}
	target := s.FirstAliveEnemy()
	if target == nil {
		res.NoTarget = true
		res.Message = fmt.Sprintf("%s finds no one left to fight.", allyName(a))
		return res
	}
	res.Target = target
	res.Damage = r.roller.Roll("ally attack", AllyAttackDamage).Total()
	res.Killed = target.ApplyDamage(res.Damage)
	res.Message = fmt.Sprintf("%s attacks the %s for %d damage.", allyName(a), target.DisplayName(), res.Damage)
	if res.Killed {
		res.Message += fmt.Sprintf(" The %s falls.", target.DisplayName())
	}
	return res
}

// Enemy resolves the automated turn of the enemy at index. The ally is
// targeted with probability 0.3 while alive, otherwise the player; only a
// hit on the player costs sanity.
//
// Precondition: 0 <= index < len(s.Encounter.Enemies).
// Postcondition: the target satisfies Alive == (HP > 0).
func (r *Resolver) Enemy(s *Session, index int) Result {
	e := s.Encounter.Enemies[index]
	res := Result{Actor: e, Action: ActionAttack}

	target := s.Player
	if s.Ally.Alive && r.roller.Chance("enemy targets ally", AllyTargetChance, AllyTargetOutOf) {
		target = s.Ally
	}
	res.Target = target
	res.Damage = r.roller.Roll("enemy attack", EnemyAttackDamage).Total()
	res.Killed = target.ApplyDamage(res.Damage)

	if target == s.Player {
		target.AdjustSanity(-EnemyHorror)
		res.TargetSanityDelta = -EnemyHorror
		res.Message = fmt.Sprintf("The %s strikes you for %d damage. (-%d sanity)", e.DisplayName(), res.Damage, EnemyHorror)
		if res.Killed {
			res.Message += " You collapse."
		}
		return res
	}
	res.Message = fmt.Sprintf("The %s strikes %s for %d damage.", e.DisplayName(), allyName(target), res.Damage)
	if res.Killed {
		res.Message += fmt.Sprintf(" %s goes down.", allyName(target))
	}
	return res
}

func allyName(a *Combatant) string {
	if a.Name == "" {
		return "Your ally"
	}
	return a.Name
}
