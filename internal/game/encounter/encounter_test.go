package encounter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
)

const stateJSON = `{
  "player": {"name": "Investigator", "hp": 30, "sanity": 50, "alive": false},
  "ally":   {"name": "Hound", "hp": 0, "sanity": 40},
  "encounters": [
    {"backdrop": "crypt", "enemies": [{"type": "ghoul", "hp": 15}]},
    {"backdrop": "chapel", "enemies": [
      {"type": "cultist", "hp": 8}, {"type": "cultist", "hp": 8},
      {"type": "shade", "hp": 12}, {"type": "shade", "hp": 12}
    ]},
    {"backdrop": "void", "enemies": []}
  ],
  "currentEncounter": 1
}`

const stateYAML = `
player: {name: Investigator, hp: 30, sanity: 50}
ally: {name: Hound, hp: 20, sanity: 40}
encounters:
  - backdrop: crypt
    enemies:
      - {type: ghoul, hp: 15}
currentEncounter: 0
`

type recorder struct {
	combat.NopPresenter
	backdrops []string
	enemies   [][]*combat.Combatant
	logs      []string
	buttons   []bool
}

func (r *recorder) RenderBackdrop(id string)             { r.backdrops = append(r.backdrops, id) }
func (r *recorder) RenderEnemies(es []*combat.Combatant) { r.enemies = append(r.enemies, es) }
func (r *recorder) AppendLog(text string)                { r.logs = append(r.logs, text) }
func (r *recorder) SetActionButtonsEnabled(on bool)      { r.buttons = append(r.buttons, on) }

func newLoader(t *testing.T, pres combat.Presenter, logger *zap.Logger) *encounter.Loader {
	t.Helper()
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), logger)
	return encounter.NewLoader(roller, pres, logger, combat.Options{Pacer: &combat.ManualPacer{}})
}

func TestParseState_JSON(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateJSON))
	require.NoError(t, err)

	assert.Equal(t, "Investigator", state.Player.Name)
	assert.Equal(t, 30, state.Player.HP)
	assert.Equal(t, 40, state.Ally.Sanity)
	assert.Len(t, state.Encounters, 3)
	assert.Equal(t, "chapel", state.Encounters[1].Backdrop)
	assert.Equal(t, 1, state.CurrentEncounter)
}

func TestParseState_YAML(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateYAML))
	require.NoError(t, err)
	assert.Equal(t, "ghoul", state.Encounters[0].Enemies[0].Type)
}

func TestParseState_Invalid(t *testing.T) {
	_, err := encounter.ParseState([]byte("not: [valid yaml"))
	assert.Error(t, err)

	_, err = encounter.ParseState([]byte(`{"player": {"hp": -1}, "encounters": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player.hp")
	assert.Contains(t, err.Error(), "encounters must not be empty")

	_, err = encounter.ParseState([]byte(`{"player": {"hp": 1}, "encounters": [{"backdrop": "x"}], "currentEncounter": 3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currentEncounter")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(stateJSON), 0644))

	state, err := encounter.FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentEncounter)

	_, err = encounter.FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Load(context.Background())
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateYAML))
	require.NoError(t, err)

	got, err := encounter.StaticSource{State: state}.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, state, got)

	_, err = encounter.StaticSource{}.Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_BeginRendersAndStartsRound(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateJSON))
	require.NoError(t, err)
	pres := &recorder{}

	sched, err := newLoader(t, pres, zaptest.NewLogger(t)).Begin(state, 0)
	require.NoError(t, err)

	sess := sched.Session()
	assert.Equal(t, "crypt", sess.Encounter.Backdrop)
	require.Len(t, sess.Encounter.Enemies, 1)
	assert.Equal(t, combat.RoleEnemy, sess.Encounter.Enemies[0].Role)
	assert.True(t, sess.Player.Alive, "alive flag in the snapshot is ignored")
	assert.False(t, sess.Ally.Alive, "ally with zero HP starts dead")
	assert.Equal(t, 1, sess.Round)

	assert.Equal(t, []string{"crypt"}, pres.backdrops)
	assert.Equal(t, "In crypt you face: ghoul.", pres.logs[0])
	assert.Equal(t, "Round 1 begins.", pres.logs[1])
}

func TestLoader_TruncatesRoster(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateJSON))
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	sched, err := newLoader(t, &recorder{}, zap.New(core)).BeginCurrent(state)
	require.NoError(t, err)

	assert.Len(t, sched.Session().Encounter.Enemies, combat.MaxEnemies)
	assert.Len(t, state.Encounters[1].Enemies, 4, "snapshot untouched")
	require.Equal(t, 1, logs.FilterMessage("enemy roster truncated").Len())
}

func TestLoader_FreshCombatantsPerBegin(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateYAML))
	require.NoError(t, err)
	loader := newLoader(t, &recorder{}, zaptest.NewLogger(t))

	first, err := loader.Begin(state, 0)
	require.NoError(t, err)
	first.Session().Encounter.Enemies[0].ApplyDamage(100)

	second, err := loader.Begin(state, 0)
	require.NoError(t, err)
	assert.Equal(t, 15, state.Encounters[0].Enemies[0].HP)
	assert.NotSame(t, first.Session().Encounter.Enemies[0], second.Session().Encounter.Enemies[0])
	assert.True(t, second.Session().Encounter.Enemies[0].Alive)
	assert.NotSame(t, first.Session().Player, second.Session().Player)
}

func TestLoader_Errors(t *testing.T) {
	state, err := encounter.ParseState([]byte(stateJSON))
	require.NoError(t, err)
	pres := &recorder{}
	loader := newLoader(t, pres, zaptest.NewLogger(t))

	_, err = loader.Begin(state, 3)
	assert.ErrorIs(t, err, encounter.ErrEncounterIndex)
	_, err = loader.Begin(state, -1)
	assert.ErrorIs(t, err, encounter.ErrEncounterIndex)
	_, err = loader.Begin(state, 2)
	assert.ErrorIs(t, err, encounter.ErrNoEnemies)

	assert.Empty(t, pres.backdrops)
	assert.Empty(t, pres.logs)
}
