package sim

import (
	"reflect"
	"testing"
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

func newSim() *Simulator {
	return New(catalog.Default(), time.Second)
}

// twoCities 返回带第二座城市的初始档，第二座城市在挖煤且有时间戳。
func twoCities() *state.GameState {
	s := state.Initial(catalog.Default())
	n := s.Shallow()
	c2 := state.NewCity("city-2", "Riverside", 2, 5, 3, "farming", "farmWheat").StampedAt(time.Unix(1000, 0))
	n.Cities = append(append([]state.City{}, s.Cities...), c2)
	return n
}

func TestAdvance_挖煤示例(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	n := m.Advance(s, "city-1")

	if n.Tick != 1 {
		t.Fatalf("tick=%d", n.Tick)
	}
	if n.Resources["coal"] != 1 {
		t.Fatalf("coal=%v", n.Resources["coal"])
	}
	if e := n.PlayerSkills["mining"]; e.Level != 1 || e.XP != 1 {
		t.Fatalf("mining=%+v", e)
	}
	if s.Resources["coal"] != 0 || s.PlayerSkills["mining"].XP != 0 || s.Tick != 0 {
		t.Fatalf("输入状态被修改")
	}
}

func TestAdvance_空闲城市只改tick(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	idle := s.Shallow()
	c := s.Cities[0]
	c.CurrentTask = ""
	idle.Cities = state.WithCity(s.Cities, 0, c)

	n := m.Advance(idle, "city-1")
	if n.Tick != idle.Tick+1 {
		t.Fatalf("tick 应 +1")
	}
	want := idle.Shallow()
	want.Tick = n.Tick
	if !reflect.DeepEqual(n, want) {
		t.Fatalf("空闲 tick 不应改其他字段\n got=%+v\nwant=%+v", n, want)
	}

	r := m.Replay(idle, "city-1")
	if !reflect.DeepEqual(r, idle) {
		t.Fatalf("空闲补算不应有任何变化")
	}
}

func TestAdvance_非激活城市冻结(t *testing.T) {
	m := newSim()
	s := twoCities()
	before := s.Cities[1]

	cur := s
	for i := 0; i < 200; i++ {
		cur = m.Advance(cur, "city-1")
	}
	if !reflect.DeepEqual(cur.Cities[1], before) {
		t.Fatalf("非激活城市被修改\n got=%+v\nwant=%+v", cur.Cities[1], before)
	}
	if cur.Resources["wheat"] != 0 {
		t.Fatalf("非激活城市不应产出 wheat=%v", cur.Resources["wheat"])
	}
}

func TestAdvance_战斗打不死没有任何变化(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	n := s.Shallow()
	c := s.Cities[0]
	c.CurrentTask = ""
	c.AssignedZone = "zoneCow" // hp 20，无英雄无装备打不动
	c.ZoneProgress = 3
	n.Cities = state.WithCity(s.Cities, 0, c)

	out, rep := m.Step(n, "city-1", false)
	if rep.Combat == nil || rep.Combat.Victory {
		t.Fatalf("期望战斗失败 rep=%+v", rep)
	}
	if !reflect.DeepEqual(out, n) {
		t.Fatalf("失败的战斗不应改变进度、资源或经验")
	}
}

func TestAdvance_战斗胜利与清图(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	n := s.Shallow()
	c := s.Cities[0]
	c.CurrentTask = ""
	c.AssignedZone = "zoneGoblin"
	c.ZoneProgress = 9 // 清图需要 10
	n.Cities = state.WithCity(s.Cities, 0, c)
	h := s.Heroes[0]
	h.AssignedCityID = "city-1"
	n.Heroes = state.WithHero(s.Heroes, 0, h)

	out, rep := m.Step(n, "city-1", true)
	if !rep.ZoneCleared || out.Cities[0].ZoneProgress != 0 {
		t.Fatalf("期望清图并重置进度 rep=%+v progress=%d", rep, out.Cities[0].ZoneProgress)
	}
	if out.Resources["gold"] != 1 {
		t.Fatalf("gold=%v", out.Resources["gold"])
	}
	if out.PlayerSkills["combat"].XP != 5 {
		t.Fatalf("combat=%+v", out.PlayerSkills["combat"])
	}
	if out.Heroes[0].XP != 5 || n.Heroes[0].XP != 0 {
		t.Fatalf("hero xp got=%v before=%v", out.Heroes[0].XP, n.Heroes[0].XP)
	}
	if !reflect.DeepEqual(out.Heroes[1], n.Heroes[1]) {
		t.Fatalf("未派驻的英雄不应变化")
	}
}

func TestAdvance_失效区域自动清除(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	n := s.Shallow()
	c := s.Cities[0]
	c.AssignedZone = "zoneRemoved"
	c.ZoneProgress = 4
	n.Cities = state.WithCity(s.Cities, 0, c)

	out, rep := m.Step(n, "city-1", true)
	if out.Cities[0].AssignedZone != "" || out.Cities[0].ZoneProgress != 0 || rep.DroppedZone != "zoneRemoved" {
		t.Fatalf("city=%+v rep=%+v", out.Cities[0], rep)
	}
	if out.Resources["coal"] != 1 {
		t.Fatalf("任务应照常执行 coal=%v", out.Resources["coal"])
	}
}

func TestAdvance_确定性(t *testing.T) {
	m := newSim()
	a, b := twoCities(), twoCities()
	for i := 0; i < 500; i++ {
		a = m.Advance(a, "city-1")
		b = m.Advance(b, "city-1")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("同样输入应得到同样输出")
	}
}

func TestAdvance_升级写入报告(t *testing.T) {
	m := newSim()
	s := state.Initial(catalog.Default())
	var rep TickReport
	for i := 0; i < 10; i++ {
		s, rep = m.Step(s, "city-1", true)
	}
	if len(rep.LevelUps) != 1 || rep.LevelUps[0].Key != "mining" || rep.LevelUps[0].To != 2 {
		t.Fatalf("第 10 个 tick 应升级 mining, rep=%+v", rep)
	}
	if e := s.PlayerSkills["mining"]; e.Level != 2 || e.XP != 0 {
		t.Fatalf("mining=%+v", e)
	}
}

func TestSummary_合并(t *testing.T) {
	sum := NewSummary("c")
	sum.Add(TickReport{Produced: map[catalog.ResourceKey]float64{"coal": 1}, LevelUps: []LevelUp{{Kind: LevelUpSkill, Key: "mining", From: 1, To: 2}}})
	sum.Add(TickReport{Produced: map[catalog.ResourceKey]float64{"coal": 1.5}, LevelUps: []LevelUp{{Kind: LevelUpSkill, Key: "mining", From: 2, To: 3}}})
	if sum.Ticks != 2 || sum.Produced["coal"] != 2.5 {
		t.Fatalf("sum=%+v", sum)
	}
	if len(sum.LevelUps) != 1 || sum.LevelUps[0].From != 1 || sum.LevelUps[0].To != 3 {
		t.Fatalf("levelUps=%+v", sum.LevelUps)
	}
}
