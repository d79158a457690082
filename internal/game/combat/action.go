package combat

import "strings"

// Action is a player's choice for one turn.
// The zero value (ActionUnknown) is intentionally invalid.
type Action int

const (
	ActionUnknown Action = iota
	ActionAttack
	ActionDefend
	ActionElement
	ActionItem
)

// Actions lists the player's fixed action set in menu order.
var Actions = []Action{ActionAttack, ActionDefend, ActionElement, ActionItem}

// String returns the action's input keyword.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionElement:
		return "element"
	case ActionItem:
		return "item"
	default:
		return "unknown"
	}
}

// Targeted reports whether the action needs an enemy target.
func (a Action) Targeted() bool {
	return a == ActionAttack || a == ActionElement
}

// ParseAction maps player input to an Action. It accepts the keyword, its
// first letter, or the 1-based menu position, case-insensitively.
//
// Postcondition: Returns ActionUnknown and false for unrecognized input.
func ParseAction(input string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "attack", "a", "1":
		return ActionAttack, true
	case "defend", "d", "2":
		return ActionDefend, true
	case "element", "e", "3":
		return ActionElement, true
	case "item", "i", "4":
		return ActionItem, true
	default:
		return ActionUnknown, false
	}
}
