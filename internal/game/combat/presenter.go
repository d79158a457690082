package combat

// Presenter is the rendering surface the engine drives. The engine calls it
// after every state mutation and never reads anything back from it.
type Presenter interface {
	RenderStats(player, ally *Combatant)
	RenderBackdrop(id string)
	RenderEnemies(enemies []*Combatant)
	AppendLog(text string)
	SetActionButtonsEnabled(enabled bool)
}

// NopPresenter discards every call.
type NopPresenter struct{}

func (NopPresenter) RenderStats(_, _ *Combatant)    {}
func (NopPresenter) RenderBackdrop(_ string)        {}
func (NopPresenter) RenderEnemies(_ []*Combatant)   {}
func (NopPresenter) AppendLog(_ string)             {}
func (NopPresenter) SetActionButtonsEnabled(_ bool) {}
