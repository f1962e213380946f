package actors

import (
	"IdleCity/internal/session/entity"
	"IdleCity/modules/kit/errx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type PlayerID = entity.PlayerID

// ManagerActor 只做路由：按玩家 id 找到（或创建）会话 actor 并转发。
type ManagerActor struct {
	deps     *Deps
	sessions map[PlayerID]*actor.PID // player_id -> actor.pid
	byPID    map[string]PlayerID
}

func NewManagerActor(deps Deps) *ManagerActor {
	deps.normalize()
	return &ManagerActor{
		deps:     &deps,
		sessions: make(map[PlayerID]*actor.PID),
		byPID:    make(map[string]PlayerID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		// 会话空闲退出或初始化失败，下次请求重新加载
		if id, ok := m.byPID[msg.Who.Id]; ok {
			delete(m.byPID, msg.Who.Id)
			delete(m.sessions, id)
			m.deps.Logger.Debug("session terminated", zap.Int64("player_id", int64(id)))
		}
	case routed:
		playerID, ok := toPlayerID(msg.Player())
		if !ok {
			ctx.Respond(&Response{Err: errx.ErrReqParamERR.WithData("player_id", msg.Player())})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, playerID))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, playerID PlayerID) *actor.PID {
	if pid, ok := m.sessions[playerID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(playerID, m.deps)
	})
	// ManagerActor 创建子 actor，子 actor 停止时会收到 Terminated
	pid := ctx.Spawn(props)
	m.sessions[playerID] = pid
	m.byPID[pid.Id] = playerID
	return pid
}

func toPlayerID(raw int64) (PlayerID, bool) {
	if raw <= 0 {
		return 0, false
	}
	return PlayerID(raw), true
}
