package actors

import (
	"IdleCity/internal/game/catchup"
	"IdleCity/internal/game/sim"
	"IdleCity/internal/session/dc"
	"IdleCity/internal/session/entity"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"
	"IdleCity/modules/kit/tracex"
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// SessionActor 独占一个玩家的 GameState。实时 tick、切城补算、玩家操作都是邮箱消息，
// 同一时刻只有一个在执行。
type SessionActor struct {
	state      State
	playerID   PlayerID
	deps       *Deps
	sim        *sim.Simulator
	orch       *catchup.Orchestrator
	dc         *dc.SessionDC
	session    *entity.Session
	dispatcher *Dispatcher
	ctx        context.Context
	log        logx.Logger
	loopStop   chan struct{}

	// 分块补算进行中时非空；期间的实时 tick 先记在 deferredTicks，补完再推进
	catching      *catchup.Pending
	catchStarted  time.Time
	deferredTicks int
}

func NewSessionActor(playerID PlayerID, deps *Deps) *SessionActor {
	ctx := tracex.WithPlayerID(context.Background(), int64(playerID))
	s := &SessionActor{
		state:      None,
		playerID:   playerID,
		deps:       deps,
		sim:        sim.New(deps.Catalog, deps.Tick),
		dispatcher: NewDispatcher(),
		ctx:        ctx,
		log:        deps.Logger.Named("session").WithContext(ctx),
	}
	s.dc = dc.NewSessionDC(deps.Repo, deps.initialState, dc.Options{
		FlushEvery: deps.FlushEvery,
		Logger:     deps.Logger.Named("dc").WithContext(ctx),
		Now:        deps.Now,
	})
	s.orch = catchup.New(s.sim, deps.Tick, catchup.Options{
		Chunk:    deps.CatchUpChunk,
		MaxTicks: deps.MaxCatchUpTicks,
	})
	return s
}

func (s *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.state = Init
		s.init(ctx)
		return
	case *actor.Stopping:
		s.stopLoops()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.dc.Close(closeCtx); err != nil {
			s.log.Error("session dc close failed", zap.Error(err))
		}
		s.state = Stopping
		return
	case *actor.Stopped:
		s.stopLoops()
		s.state = Offline
		return
	case *actor.Restarting:
		s.stopLoops()
		s.state = Init
		return
	case *actor.ReceiveTimeout:
		s.log.Info("session idle, stopping")
		ctx.Stop(ctx.Self())
		return
	case liveTick:
		if s.state != Online {
			return
		}
		s.tick(ctx)
		return
	case catchUpChunk:
		if s.state != Online {
			return
		}
		s.continueCatchUp(ctx)
		return
	case flushTick:
		if s.state != Online {
			return
		}
		s.dc.Flush(s.ctx)
		return
	case routed:
		if s.state != Online {
			ctx.Respond(&Response{Err: errx.ErrUnavailable.WithData("player_id", msg.Player())})
			return
		}
		if !s.dispatcher.Dispatch(ctx, s, msg) {
			ctx.Respond(&Response{Err: errx.ErrReqParamERR.WithData("message", "unsupported")})
		}
	default:
		return
	}
}

func (s *SessionActor) init(ctx actor.Context) {
	e, err := s.dc.Load(s.ctx, s.playerID)
	if err != nil {
		logx.ReportSysError(s.ctx, s.deps.Logger, logx.NewSysLog("session.init", err))
		s.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	s.session = e
	s.state = Online

	// 恢复上次的激活城市，找不到就选第一个城市
	cityID := s.dc.PreferredCityID()
	if s.session.State().CityIndex(cityID) < 0 && len(s.session.State().Cities) > 0 {
		cityID = s.session.State().Cities[0].ID
	}
	if cityID != "" {
		if _, err := s.selectCity(ctx, cityID); err != nil {
			s.log.Warn("restore selected city failed", zap.String("city_id", cityID), zap.Error(err))
		}
	}

	s.startLoops(ctx)
	if s.deps.IdleTimeout > 0 {
		ctx.SetReceiveTimeout(s.deps.IdleTimeout)
	}
	s.log.Info("session online", zap.String("city_id", s.session.SelectedCityID()), zap.Int64("tick", s.session.State().Tick))
}

func (s *SessionActor) PlayerID() PlayerID {
	return s.playerID
}

func (s *SessionActor) Session() *entity.Session {
	return s.session
}

func (s *SessionActor) DC() *dc.SessionDC {
	return s.dc
}

// tick 推进激活城市一个实时 tick。补算期间只记数，补完再推进。
func (s *SessionActor) tick(ctx actor.Context) (sim.TickReport, bool) {
	if s.catching != nil {
		s.deferredTicks++
		return sim.TickReport{}, false
	}
	cityID := s.session.SelectedCityID()
	if cityID == "" {
		return sim.TickReport{}, false
	}
	next, rep := s.sim.Step(s.session.State(), cityID, true)
	s.session.Apply(next)
	s.logReport(rep)
	ctx.ActorSystem().EventStream.Publish(&TickEvent{Target: Target{PlayerID: int64(s.playerID)}, Report: rep})
	return rep, true
}

// selectCity 切换激活城市并补算新城市的离线收益。先同步补一块，补不完的
// 通过 catchUpChunk 分块继续，激活城市在补完后才切换。
func (s *SessionActor) selectCity(ctx actor.Context, cityID string) (catchup.Result, error) {
	if s.catching != nil {
		err := errx.ErrRejected.WithReason(catchup.ReasonCatchUpInProgress).
			WithData("city_id", cityID).
			WithData("catching_city_id", s.catching.CityID)
		return catchup.Result{CityID: cityID}, err
	}
	next, p, err := s.orch.Begin(s.session.State(), s.session.SelectedCityID(), cityID, s.deps.Now())
	if err != nil {
		return p.Result, err
	}
	s.session.Apply(next)
	if p.Done() {
		return p.Result, nil
	}

	s.catching = p
	s.catchStarted = time.Now()
	s.continueCatchUp(ctx)
	res := p.Result
	res.InProgress = !p.Done()
	return res, nil
}

func (s *SessionActor) continueCatchUp(ctx actor.Context) {
	p := s.catching
	if p == nil {
		return
	}
	s.session.Apply(s.orch.Continue(s.session.State(), p, int64(s.deps.CatchUpChunk)))
	if !p.Done() {
		s.log.Debug("catch-up progress",
			zap.String("city_id", p.CityID),
			zap.Int64("replayed", p.Replayed),
			zap.Int64("remaining", p.Remaining()))
		ctx.Send(ctx.Self(), catchUpChunk{})
		return
	}
	s.finishCatchUp(ctx, p)
}

func (s *SessionActor) finishCatchUp(ctx actor.Context, p *catchup.Pending) {
	s.catching = nil
	s.session.Select(p.CityID)

	res := p.Result
	if res.Capped {
		s.log.Warn("catch-up capped",
			zap.String("city_id", res.CityID),
			zap.Int64("missed_ticks", res.MissedTicks),
			zap.Int64("replayed", res.Replayed))
	}
	if res.Replayed > 0 {
		s.logSummary(res.Summary, time.Since(s.catchStarted))
		ctx.ActorSystem().EventStream.Publish(&CatchUpEvent{Target: Target{PlayerID: int64(s.playerID)}, Result: res})
	}

	deferred := s.deferredTicks
	s.deferredTicks = 0
	for i := 0; i < deferred; i++ {
		s.tick(ctx)
	}
}

func (s *SessionActor) logReport(rep sim.TickReport) {
	for _, lu := range rep.LevelUps {
		s.log.Info("level up",
			zap.String("kind", string(lu.Kind)),
			zap.String("key", lu.Key),
			zap.Int("from", lu.From),
			zap.Int("to", lu.To))
	}
	if rep.ZoneCleared && rep.Combat != nil {
		s.log.Info("zone cleared", zap.String("city_id", rep.CityID), zap.String("monster", rep.Combat.Monster))
	}
	if rep.DroppedZone != "" {
		s.log.Warn("combat zone dropped", zap.String("city_id", rep.CityID), zap.String("zone", string(rep.DroppedZone)))
	}
}

func (s *SessionActor) logSummary(sum *sim.Summary, cost time.Duration) {
	if sum == nil {
		return
	}
	s.log.Info("catch-up done",
		zap.String("city_id", sum.CityID),
		zap.Int64("ticks", sum.Ticks),
		zap.Any("produced", sum.Produced),
		zap.Any("loot", sum.Loot),
		zap.Int64("kills", sum.Kills),
		zap.Int64("zone_clears", sum.ZoneClears),
		zap.Duration("cost", cost))
	for _, lu := range sum.LevelUps {
		s.log.Info("level up during catch-up",
			zap.String("kind", string(lu.Kind)),
			zap.String("key", lu.Key),
			zap.Int("from", lu.From),
			zap.Int("to", lu.To))
	}
}

func (s *SessionActor) startLoops(ctx actor.Context) {
	if s.loopStop != nil {
		return
	}
	var tickEvery time.Duration
	if !s.deps.ManualTick {
		tickEvery = s.deps.Tick
	}
	flushEvery := s.dc.FlushEvery()

	s.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}) {
		flush := time.NewTicker(flushEvery)
		defer flush.Stop()

		// 关闭实时循环时 live 为 nil，select 永远不会选中它
		var live <-chan time.Time
		if tickEvery > 0 {
			t := time.NewTicker(tickEvery)
			defer t.Stop()
			live = t.C
		}
		for {
			select {
			case <-live:
				root.Send(self, liveTick{})
			case <-flush.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(s.loopStop)
}

func (s *SessionActor) stopLoops() {
	if s.loopStop == nil {
		return
	}
	close(s.loopStop)
	s.loopStop = nil
}
