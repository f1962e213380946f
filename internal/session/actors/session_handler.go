package actors

import (
	"errors"

	"IdleCity/internal/game/action"
	"IdleCity/internal/game/catchup"
	"IdleCity/internal/game/formula"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type SessionHandler struct {
}

// 全局实例
var SH = &SessionHandler{}

func (h *SessionHandler) HandleSelectCity(ctx actor.Context, s *SessionActor, req *SelectCity) {
	res, err := s.selectCity(ctx, req.CityID)
	if err != nil {
		s.reportError("select_city", err, zap.String("city_id", req.CityID))
		ctx.Respond(s.respond(err))
		return
	}
	resp := s.respond(nil)
	resp.CatchUp = &res
	ctx.Respond(resp)
}

func (h *SessionHandler) HandleApplyAction(ctx actor.Context, s *SessionActor, req *ApplyAction) {
	if s.catching != nil {
		err := errx.ErrRejected.WithReason(catchup.ReasonCatchUpInProgress).WithData("city_id", s.catching.CityID)
		s.reportError(req.Request.Name, err)
		ctx.Respond(s.respond(err))
		return
	}
	next, err := action.Apply(s.deps.Catalog, s.session.State(), req.Request)
	if err != nil {
		s.reportError(req.Request.Name, err)
		ctx.Respond(s.respond(err))
		return
	}
	s.session.Apply(next)
	ctx.Respond(s.respond(nil))
}

func (h *SessionHandler) HandleGetState(ctx actor.Context, s *SessionActor, _ *GetState) {
	ctx.Respond(s.respond(nil))
}

func (h *SessionHandler) HandleGetRates(ctx actor.Context, s *SessionActor, req *GetRates) {
	cityID := req.CityID
	if cityID == "" {
		cityID = s.session.SelectedCityID()
	}
	rates, ok := formula.EstimateHourlyRates(s.deps.Catalog, s.session.State(), cityID, s.sim.TickSeconds())
	if !ok {
		err := errx.ErrRejected.WithReason(action.ReasonCityNotFound).WithData("city_id", cityID)
		ctx.Respond(s.respond(err))
		return
	}
	resp := s.respond(nil)
	resp.Rates = &rates
	ctx.Respond(resp)
}

func (h *SessionHandler) HandleAdvanceTick(ctx actor.Context, s *SessionActor, _ *AdvanceTick) {
	rep, ok := s.tick(ctx)
	resp := s.respond(nil)
	if ok {
		resp.Report = &rep
	}
	ctx.Respond(resp)
}

func (h *SessionHandler) HandleLogout(ctx actor.Context, s *SessionActor, _ *Logout) {
	ctx.Respond(s.respond(nil))
	// Stopping 里关闭 dc，会把最新快照写完
	ctx.Stop(ctx.Self())
}

func (s *SessionActor) respond(err error) *Response {
	return &Response{
		State:          s.session.State(),
		SelectedCityID: s.session.SelectedCityID(),
		Err:            err,
	}
}

// reportError 业务拒绝记 INFO，其他错误记 ERROR。
func (s *SessionActor) reportError(name string, err error, fields ...zap.Field) {
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		logx.ReportRejection(s.ctx, s.deps.Logger, logx.NewRejectLog(name, err), fields...)
		return
	}
	logx.ReportSysError(s.ctx, s.deps.Logger, logx.NewSysLog(name, err), fields...)
}
