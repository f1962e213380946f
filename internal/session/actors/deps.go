package actors

import (
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
	"IdleCity/internal/session/app/port"
	"IdleCity/modules/kit/logx"
)

// Deps 是所有会话 actor 共享的依赖。
type Deps struct {
	Repo    port.SaveRepository
	Catalog *catalog.Catalog
	Logger  logx.Logger

	Tick            time.Duration
	FlushEvery      time.Duration
	IdleTimeout     time.Duration
	CatchUpChunk    int
	MaxCatchUpTicks int64
	// ManualTick 关闭实时循环，只能通过 AdvanceTick 推进。
	ManualTick bool
	Now        func() time.Time
}

func (d *Deps) normalize() {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Tick <= 0 {
		d.Tick = time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

func (d *Deps) initialState() *state.GameState {
	return state.Initial(d.Catalog)
}
