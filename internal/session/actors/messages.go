package actors

import (
	"IdleCity/internal/game/action"
	"IdleCity/internal/game/catchup"
	"IdleCity/internal/game/formula"
	"IdleCity/internal/game/sim"
	"IdleCity/internal/game/state"
)

// Target 标明消息发给哪个玩家，ManagerActor 按它路由。
type Target struct {
	PlayerID int64
}

func (t Target) Player() int64 { return t.PlayerID }

type routed interface {
	Player() int64
}

// SelectCity 切换激活城市，必要时先补算离线收益。
type SelectCity struct {
	Target
	CityID string
}

// ApplyAction 执行一次玩家操作。
type ApplyAction struct {
	Target
	Request action.Request
}

type GetState struct {
	Target
}

// GetRates 估算某个城市的每小时收益，CityID 为空时取激活城市。
type GetRates struct {
	Target
	CityID string
}

// AdvanceTick 手动推进一个实时 tick，用于关闭了实时循环的场景。
type AdvanceTick struct {
	Target
}

// Logout 立即落盘并停止会话。
type Logout struct {
	Target
}

// Response 是会话 actor 的统一回复。Err 非空时其余字段只有 State 可能有值（拒绝前的状态）。
type Response struct {
	State          *state.GameState
	SelectedCityID string
	CatchUp        *catchup.Result
	Rates          *formula.HourlyRates
	Report         *sim.TickReport
	Err            error
}

// PlayerEvent 是发布到 EventStream 上的玩家事件。
type PlayerEvent interface {
	Player() int64
}

// TickEvent 每个实时 tick 发布一次。
type TickEvent struct {
	Target
	Report sim.TickReport
}

// CatchUpEvent 在离线补算全部完成后发布。
type CatchUpEvent struct {
	Target
	Result catchup.Result
}

type liveTick struct{}

func (liveTick) NotInfluenceReceiveTimeout() {}

// catchUpChunk 让会话 actor 再补算一块，发给自己，排在其他消息后面。
type catchUpChunk struct{}

func (catchUpChunk) NotInfluenceReceiveTimeout() {}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}
