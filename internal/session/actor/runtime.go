package actor

import (
	"IdleCity/internal/game/action"
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/session/actors"
	"IdleCity/modules/kit/errx"
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
)

const defaultAskTimeout = 3 * time.Second

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	catalog *catalog.Catalog
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}

	/**
	创建一个新的 ActorSystem，相当于容器/运行时环境：
	管理 PID、调度、邮箱、系统消息，EventStream 用来向 ws 推送 tick
	*/
	system := protoactor.NewActorSystem()
	root := system.Root
	/**
	manager 只做路由，每个玩家一个 SessionActor，由 manager 按需创建
	*/
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		catalog: deps.Catalog,
	}
}

// Catalog 是所有会话共用的内容表，只读。
func (r *Runtime) Catalog() *catalog.Catalog {
	if r == nil || r.catalog == nil {
		return catalog.Default()
	}
	return r.catalog
}

// Shutdown 先停 manager（子 actor 会先停下并落盘），再关闭 actor 系统。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(ctx context.Context, msg any) (*actors.Response, error) {
	if r == nil || r.root == nil || r.manager == nil {
		return nil, errx.ErrUnavailable.WithData("reason", "actor runtime not initialized")
	}

	// 创建并注册一个 futureProcess 作为 Sender，发给 manager，由它转发给会话 actor
	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	// 阻塞等待：直到会话 actor Respond 或超时
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}

	resp, ok := res.(*actors.Response)
	if !ok {
		return nil, errx.ErrInternal.WithData("reason", "unexpected actor response type")
	}
	return resp, resp.Err
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func target(playerID int64) actors.Target {
	return actors.Target{PlayerID: playerID}
}

func (r *Runtime) State(ctx context.Context, playerID int64) (*actors.Response, error) {
	return r.request(ctx, &actors.GetState{Target: target(playerID)})
}

func (r *Runtime) SelectCity(ctx context.Context, playerID int64, cityID string) (*actors.Response, error) {
	return r.request(ctx, &actors.SelectCity{Target: target(playerID), CityID: cityID})
}

func (r *Runtime) Act(ctx context.Context, playerID int64, req action.Request) (*actors.Response, error) {
	return r.request(ctx, &actors.ApplyAction{Target: target(playerID), Request: req})
}

func (r *Runtime) Rates(ctx context.Context, playerID int64, cityID string) (*actors.Response, error) {
	return r.request(ctx, &actors.GetRates{Target: target(playerID), CityID: cityID})
}

func (r *Runtime) Advance(ctx context.Context, playerID int64) (*actors.Response, error) {
	return r.request(ctx, &actors.AdvanceTick{Target: target(playerID)})
}

func (r *Runtime) Logout(ctx context.Context, playerID int64) error {
	_, err := r.request(ctx, &actors.Logout{Target: target(playerID)})
	return err
}

// Subscribe 订阅某个玩家的事件（TickEvent、CatchUpEvent）。fn 在 EventStream 的发布协程里调用，不能阻塞。
func (r *Runtime) Subscribe(playerID int64, fn func(evt actors.PlayerEvent)) *eventstream.Subscription {
	return r.system.EventStream.SubscribeWithPredicate(
		func(evt any) {
			fn(evt.(actors.PlayerEvent))
		},
		func(evt any) bool {
			e, ok := evt.(actors.PlayerEvent)
			return ok && e.Player() == playerID
		},
	)
}

func (r *Runtime) Unsubscribe(sub *eventstream.Subscription) {
	if sub == nil {
		return
	}
	r.system.EventStream.Unsubscribe(sub)
}
