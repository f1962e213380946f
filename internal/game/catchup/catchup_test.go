package catchup

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/sim"
	"IdleCity/internal/game/state"
	"IdleCity/modules/kit/errx"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// awayState: city-1 在线，city-2 在 t0 离开，city-2 挖煤且有英雄在打哥布林。
func awayState() *state.GameState {
	cat := catalog.Default()
	s := state.Initial(cat)
	n := s.Shallow()
	c2 := state.NewCity("city-2", "Riverside", 2, 5, 3, "mining", "mineCoal")
	c2.AssignedZone = "zoneGoblin"
	n.Cities = append(append([]state.City{}, s.Cities...), c2.StampedAt(t0))
	h := s.Heroes[0]
	h.AssignedCityID = "city-2"
	n.Heroes = state.WithHero(s.Heroes, 0, h)
	return n
}

func TestMissedTicks(t *testing.T) {
	last := t0
	cases := []struct {
		now  time.Time
		want int64
	}{
		{t0, 0},
		{t0.Add(999 * time.Millisecond), 0},
		{t0.Add(1 * time.Second), 1},
		{t0.Add(90*time.Minute + 500*time.Millisecond), 5400},
		{t0.Add(-time.Hour), 0},
	}
	for _, c := range cases {
		if got := MissedTicks(&last, c.now, time.Second); got != c.want {
			t.Fatalf("now=%v got=%d want=%d", c.now, got, c.want)
		}
	}
	if MissedTicks(nil, t0, time.Second) != 0 {
		t.Fatalf("nil 时间戳应为 0")
	}
}

func TestOnCityActivated_补算与实时等价(t *testing.T) {
	const n = 777
	m := sim.New(catalog.Default(), time.Second)
	s := awayState()

	live := s
	for i := 0; i < n; i++ {
		live = m.Advance(live, "city-2")
	}

	now := t0.Add(n*time.Second + 300*time.Millisecond)
	o := New(m, time.Second, Options{Chunk: 100})
	got, res, err := o.OnCityActivated(s, "city-1", "city-2", now)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.MissedTicks != n || res.Replayed != n || res.Capped {
		t.Fatalf("res=%+v", res)
	}

	// 只有全局 tick、上一个城市的时间戳、新城市的时间戳允许不同。
	want := live.Shallow()
	want.Tick = s.Tick
	want.Cities = state.WithCity(want.Cities, 0, want.Cities[0].StampedAt(now))
	want.Cities = state.WithCity(want.Cities, 1, want.Cities[1].Live())
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("补算结果与实时结果不一致\n got=%+v\nwant=%+v", got, want)
	}
	if got.Tick != s.Tick {
		t.Fatalf("补算不应增加全局 tick")
	}
	if res.Summary == nil || res.Summary.Ticks != n || res.Summary.Kills != n {
		t.Fatalf("summary=%+v", res.Summary)
	}
}

func TestOnCityActivated_上限截断与分块回调(t *testing.T) {
	m := sim.New(catalog.Default(), time.Second)
	var yields []int64
	o := New(m, time.Second, Options{Chunk: 10, MaxTicks: 25, Yield: func(done, total int64) {
		if total != 25 {
			t.Fatalf("total=%d", total)
		}
		yields = append(yields, done)
	}})
	_, res, err := o.OnCityActivated(awayState(), "city-1", "city-2", t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.MissedTicks != 3600 || res.Replayed != 25 || !res.Capped {
		t.Fatalf("res=%+v", res)
	}
	if !reflect.DeepEqual(yields, []int64{10, 20}) {
		t.Fatalf("yields=%v", yields)
	}
}

func TestOnCityActivated_时间戳处理(t *testing.T) {
	m := sim.New(catalog.Default(), time.Second)
	o := New(m, time.Second, Options{})
	s := awayState()
	now := t0.Add(10 * time.Second)

	got, _, err := o.OnCityActivated(s, "city-1", "city-2", now)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Cities[0].LastActive == nil || !got.Cities[0].LastActive.Equal(now) {
		t.Fatalf("上一个城市应打上时间戳 %+v", got.Cities[0])
	}
	if got.Cities[1].LastActive != nil {
		t.Fatalf("新城市应变为实时 %+v", got.Cities[1])
	}
	if s.Cities[1].LastActive == nil || s.Cities[0].LastActive != nil {
		t.Fatalf("输入状态被修改")
	}
}

func TestOnCityActivated_未知城市被拒绝(t *testing.T) {
	o := New(sim.New(catalog.Default(), time.Second), time.Second, Options{})
	s := awayState()
	got, _, err := o.OnCityActivated(s, "city-1", "city-9", t0)
	if got != s {
		t.Fatalf("拒绝时应返回同一个状态")
	}
	if !errors.Is(err, errx.ErrRejected) || errx.ReasonOf(err) != string(ReasonCityNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestOnCityActivated_重复选择同一城市不变(t *testing.T) {
	o := New(sim.New(catalog.Default(), time.Second), time.Second, Options{})
	s := awayState()
	got, res, err := o.OnCityActivated(s, "city-2", "city-2", t0.Add(time.Hour))
	if err != nil || got != s || res.Replayed != 0 {
		t.Fatalf("got=%p s=%p res=%+v err=%v", got, s, res, err)
	}
}

func TestBeginContinue_分段补算与一次补完一致(t *testing.T) {
	m := sim.New(catalog.Default(), time.Second)
	o := New(m, time.Second, Options{})
	now := t0.Add(95*time.Second + 400*time.Millisecond)

	whole, res, err := o.OnCityActivated(awayState(), "city-1", "city-2", now)
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	n, p, err := o.Begin(awayState(), "city-1", "city-2", now)
	if err != nil || p.Done() || p.Remaining() != 95 {
		t.Fatalf("p=%+v err=%v", p, err)
	}
	if !n.Cities[1].LastActive.Equal(t0) {
		t.Fatalf("Begin 不应改动新城市的时间戳 %+v", n.Cities[1])
	}

	n = o.Continue(n, p, 40)
	if p.Done() || p.Replayed != 40 {
		t.Fatalf("p=%+v", p)
	}
	// 此时落盘再加载，只会补剩下的 55 个 tick
	if got := MissedTicks(n.Cities[1].LastActive, now, time.Second); got != 55 {
		t.Fatalf("中途时间戳应后移 got=%d", got)
	}

	calls := 1
	for !p.Done() {
		n = o.Continue(n, p, 40)
		calls++
	}
	if calls != 3 || p.Replayed != res.Replayed {
		t.Fatalf("calls=%d p=%+v", calls, p)
	}
	if !reflect.DeepEqual(n, whole) || !reflect.DeepEqual(p.Summary, res.Summary) {
		t.Fatalf("分段补算结果不一致\n got=%+v\nwant=%+v", n, whole)
	}
	if o.Continue(n, p, 40) != n {
		t.Fatalf("补完后再 Continue 应原样返回")
	}
}

func TestBegin_没有离线时长也转为实时(t *testing.T) {
	o := New(sim.New(catalog.Default(), time.Second), time.Second, Options{})
	s := awayState()
	// city-1 没有时间戳，切过去不需要补算
	n, p, err := o.Begin(s, "city-2", "city-1", t0.Add(time.Hour))
	if err != nil || p.Remaining() != 0 || p.Done() {
		t.Fatalf("p=%+v err=%v", p, err)
	}
	n = o.Continue(n, p, 10)
	if !p.Done() || p.Summary != nil || n.Cities[0].LastActive != nil || n.Cities[1].LastActive == nil {
		t.Fatalf("p=%+v cities=%+v", p, n.Cities)
	}
}
