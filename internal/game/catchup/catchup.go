package catchup

import (
	"time"

	"IdleCity/internal/game/sim"
	"IdleCity/internal/game/state"
	"IdleCity/modules/kit/errx"
)

type reason string

func (r reason) ReasonCode() string { return string(r) }

const (
	// ReasonCityNotFound 选择了不存在的城市。
	ReasonCityNotFound reason = "CITY_NOT_FOUND"
	// ReasonCatchUpInProgress 上一次切城的补算还没做完。
	ReasonCatchUpInProgress reason = "CATCH_UP_IN_PROGRESS"
)

// Options 控制补算的分块与上限。
type Options struct {
	// Chunk 每块补算的 tick 数，<=0 时不分块。
	Chunk int
	// MaxTicks 单次补算的上限，0 表示不限。
	MaxTicks int64
	// Yield 在两块之间调用，可以用来让出执行权或打进度日志。
	Yield func(replayed, total int64)
}

// Result 描述一次城市切换做了什么。
type Result struct {
	PreviousCityID string       `json:"previousCityId,omitempty"`
	CityID         string       `json:"cityId"`
	MissedTicks    int64        `json:"missedTicks"`
	Replayed       int64        `json:"replayed"`
	Capped         bool         `json:"capped"`
	InProgress     bool         `json:"inProgress,omitempty"`
	Summary        *sim.Summary `json:"summary,omitempty"`
}

// Orchestrator 负责切换激活城市时的离线补算。
type Orchestrator struct {
	sim  *sim.Simulator
	tick time.Duration
	opts Options
}

func New(m *sim.Simulator, tick time.Duration, opts Options) *Orchestrator {
	if tick <= 0 {
		tick = time.Second
	}
	return &Orchestrator{sim: m, tick: tick, opts: opts}
}

// MissedTicks = floor((now - lastActive) / tick)。lastActive 为空或时钟回拨时为 0。
func MissedTicks(lastActive *time.Time, now time.Time, tick time.Duration) int64 {
	if lastActive == nil || tick <= 0 {
		return 0
	}
	elapsed := now.Sub(*lastActive)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed / tick)
}

// Pending 是一次还没补完的城市切换。
type Pending struct {
	Result
	total int64
	done  bool
}

// Done 表示补算已经结束，新城市已经转为实时模拟。
func (p *Pending) Done() bool {
	return p == nil || p.done
}

// Remaining 还要补算的 tick 数。
func (p *Pending) Remaining() int64 {
	if p == nil {
		return 0
	}
	return p.total - p.Replayed
}

// OnCityActivated 把激活城市从 prevCityID 切到 newCityID：
//  1. 给上一个城市打上 lastActive = now；
//  2. 新城市有时间戳时，用 Replay 补算 missedTicks 次（不动全局 tick）；
//  3. 清掉新城市的时间戳，标记为实时模拟。
//
// 新城市不存在时返回原状态和业务错误。prevCityID 与 newCityID 相同时不做任何事。
// 这里一次补完；要分多次执行时用 Begin + Continue。
func (o *Orchestrator) OnCityActivated(s *state.GameState, prevCityID, newCityID string, now time.Time) (*state.GameState, Result, error) {
	n, p, err := o.Begin(s, prevCityID, newCityID, now)
	if err != nil || p.Done() {
		return n, p.Result, err
	}
	for {
		n = o.Continue(n, p, int64(o.opts.Chunk))
		if p.Done() {
			return n, p.Result, nil
		}
		if o.opts.Yield != nil {
			o.opts.Yield(p.Replayed, p.total)
		}
	}
}

// Begin 校验新城市、给上一个城市打时间戳并算出要补多少 tick，本身不补算。
// 新城市在 Continue 补完之前一直带着时间戳。
func (o *Orchestrator) Begin(s *state.GameState, prevCityID, newCityID string, now time.Time) (*state.GameState, *Pending, error) {
	p := &Pending{Result: Result{PreviousCityID: prevCityID, CityID: newCityID}}
	ni := s.CityIndex(newCityID)
	if ni < 0 {
		p.done = true
		return s, p, errx.ErrRejected.WithReason(ReasonCityNotFound).WithData("city_id", newCityID)
	}
	if prevCityID == newCityID {
		p.done = true
		return s, p, nil
	}

	n := s.Shallow()
	if pi := s.CityIndex(prevCityID); pi >= 0 {
		n.Cities = state.WithCity(n.Cities, pi, n.Cities[pi].StampedAt(now))
	}

	p.MissedTicks = MissedTicks(s.Cities[ni].LastActive, now, o.tick)
	p.total = p.MissedTicks
	if o.opts.MaxTicks > 0 && p.total > o.opts.MaxTicks {
		p.total = o.opts.MaxTicks
		p.Capped = true
	}
	if p.total > 0 {
		p.Summary = sim.NewSummary(newCityID)
	}
	return n, p, nil
}

// Continue 最多补算 limit 个 tick（<=0 表示一次补完）。没补完时把新城市的 lastActive
// 往后推相应时长，中途落盘再加载不会重复补算；补完后新城市转为实时模拟。
func (o *Orchestrator) Continue(s *state.GameState, p *Pending, limit int64) *state.GameState {
	if p.Done() {
		return s
	}
	todo := p.Remaining()
	if limit > 0 && todo > limit {
		todo = limit
	}
	for i := int64(0); i < todo; i++ {
		var rep sim.TickReport
		s, rep = o.sim.Step(s, p.CityID, false)
		p.Summary.Add(rep)
	}
	p.Replayed += todo

	ni := s.CityIndex(p.CityID)
	if ni < 0 {
		p.done = true
		return s
	}
	c := s.Cities[ni]
	n := s.Shallow()
	if p.Remaining() > 0 {
		if c.LastActive == nil {
			return s
		}
		n.Cities = state.WithCity(n.Cities, ni, c.StampedAt(c.LastActive.Add(time.Duration(todo)*o.tick)))
		return n
	}
	n.Cities = state.WithCity(n.Cities, ni, c.Live())
	p.done = true
	return n
}
