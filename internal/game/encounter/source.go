package encounter

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StateSource supplies the game-state snapshot before any scheduling begins.
type StateSource interface {
	Load(ctx context.Context) (*GameState, error)
}

// ParseState decodes and validates a snapshot. JSON documents are accepted
// as a subset of YAML.
//
// Precondition: data must be a JSON or YAML document.
// Postcondition: Returns a validated GameState or a non-nil error.
func ParseState(data []byte) (*GameState, error) {
	var state GameState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing game state: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// LoadStateFromFile reads and parses a snapshot file.
//
// Precondition: path must point to a readable snapshot file.
// Postcondition: Returns a validated GameState or a non-nil error.
func LoadStateFromFile(path string) (*GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading game state %s: %w", path, err)
	}
	state, err := ParseState(data)
	if err != nil {
		return nil, fmt.Errorf("loading game state %s: %w", path, err)
	}
	return state, nil
}

// FileSource reads the snapshot from disk on every Load.
type FileSource struct {
	Path string
}

// Load implements StateSource.
func (f FileSource) Load(ctx context.Context) (*GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadStateFromFile(f.Path)
}

// StaticSource serves a snapshot already held in memory.
type StaticSource struct {
	State *GameState
}

// Load implements StateSource.
func (s StaticSource) Load(context.Context) (*GameState, error) {
	if s.State == nil {
		return nil, fmt.Errorf("static source: no game state")
	}
	return s.State, nil
}
