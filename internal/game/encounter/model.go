// Package encounter loads game-state snapshots and turns one encounter
// definition into a live combat session.
package encounter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncounterIndex is returned when an encounter index is outside the snapshot's list.
	ErrEncounterIndex = errors.New("encounter: index out of range")
	// ErrNoEnemies is returned when the selected encounter fields no enemies.
	ErrNoEnemies = errors.New("encounter: no enemies")
)

// CombatantDef is the static description of one combatant in a snapshot.
// Any alive flag in the source document is ignored; liveness follows HP.
type CombatantDef struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Type   string `yaml:"type,omitempty" json:"type,omitempty"`
	HP     int    `yaml:"hp" json:"hp"`
	Sanity int    `yaml:"sanity,omitempty" json:"sanity,omitempty"`
}

// EncounterDef is one backdrop and its enemy roster.
type EncounterDef struct {
	Backdrop string         `yaml:"backdrop" json:"backdrop"`
	Enemies  []CombatantDef `yaml:"enemies" json:"enemies"`
}

// GameState is the read-only snapshot every encounter is built from.
type GameState struct {
	Player           CombatantDef   `yaml:"player" json:"player"`
	Ally             CombatantDef   `yaml:"ally" json:"ally"`
	Encounters       []EncounterDef `yaml:"encounters" json:"encounters"`
	CurrentEncounter int            `yaml:"currentEncounter" json:"currentEncounter"`
}

// Validate checks the snapshot's structural invariants.
//
// Postcondition: Returns nil if the snapshot is usable, or an error naming every violation.
func (g *GameState) Validate() error {
	var errs []string
	if g.Player.HP < 0 {
		errs = append(errs, fmt.Sprintf("player.hp must be >= 0, got %d", g.Player.HP))
	}
	if g.Ally.HP < 0 {
		errs = append(errs, fmt.Sprintf("ally.hp must be >= 0, got %d", g.Ally.HP))
	}
	if len(g.Encounters) == 0 {
		errs = append(errs, "encounters must not be empty")
	}
	for i, enc := range g.Encounters {
		for j, e := range enc.Enemies {
			if e.HP < 0 {
				errs = append(errs, fmt.Sprintf("encounters[%d].enemies[%d].hp must be >= 0, got %d", i, j, e.HP))
			}
		}
	}
	if len(g.Encounters) > 0 && (g.CurrentEncounter < 0 || g.CurrentEncounter >= len(g.Encounters)) {
		errs = append(errs, fmt.Sprintf("currentEncounter %d out of range [0, %d)", g.CurrentEncounter, len(g.Encounters)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid game state: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Encounter returns the definition at index.
//
// Postcondition: Returns ErrEncounterIndex when index is out of range.
func (g *GameState) Encounter(index int) (EncounterDef, error) {
	if index < 0 || index >= len(g.Encounters) {
		return EncounterDef{}, fmt.Errorf("%w: %d (have %d)", ErrEncounterIndex, index, len(g.Encounters))
	}
	return g.Encounters[index], nil
}
