package sim

import (
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/formula"
	"IdleCity/internal/game/leveling"
	"IdleCity/internal/game/state"
)

// Simulator 推进单个激活城市的一个 tick。纯函数：不读时钟、没有随机数、不持有状态。
type Simulator struct {
	cat *catalog.Catalog
	dt  float64
}

// New 创建模拟器，tick 是一个 tick 代表的游戏时长。
func New(cat *catalog.Catalog, tick time.Duration) *Simulator {
	dt := tick.Seconds()
	if dt <= 0 {
		dt = 1
	}
	return &Simulator{cat: cat, dt: dt}
}

// TickSeconds 是每个 tick 的 dt。
func (m *Simulator) TickSeconds() float64 { return m.dt }

// Advance 是实时循环的一个 tick：推进激活城市并让全局 tick +1。
func (m *Simulator) Advance(s *state.GameState, activeCityID string) *state.GameState {
	n, _ := m.Step(s, activeCityID, true)
	return n
}

// Replay 是离线补算的一个 tick：推进城市但不动全局 tick。
func (m *Simulator) Replay(s *state.GameState, cityID string) *state.GameState {
	n, _ := m.Step(s, cityID, false)
	return n
}

// Step 推进 activeCityID 一个 tick 并返回本 tick 的报告。其他城市原样保留。
// live 为 true 时全局 tick +1。
func (m *Simulator) Step(s *state.GameState, activeCityID string, live bool) (*state.GameState, TickReport) {
	n := s.Shallow()
	if live {
		n.Tick++
	}
	rep := TickReport{CityID: activeCityID, Tick: n.Tick}

	ci := s.CityIndex(activeCityID)
	if ci < 0 {
		return n, rep
	}
	city := s.Cities[ci]

	// 1. 派驻英雄
	hi := s.HeroInCity(activeCityID)
	var hero *state.Hero
	if hi >= 0 {
		h := s.Heroes[hi]
		hero = &h
	}
	heroChanged := false

	// 2. 采集任务
	if city.CurrentTask != "" {
		gains := formula.ResourceGain(m.cat, city, hero, s.PlayerSkills, m.dt)
		xp := formula.XPGain(m.cat, city, hero, s.PlayerSkills, m.dt)
		n.Resources = state.AddResources(n.Resources, gains)
		rep.Produced = gains
		if task, ok := m.cat.Task(city.CurrentTask); ok && xp > 0 {
			m.addSkillXP(n, task.Skill, xp, &rep)
		}
	}

	// 3. 战斗
	if city.AssignedZone != "" {
		zone, ok := m.cat.Zone(city.AssignedZone)
		if !ok {
			rep.DroppedZone = city.AssignedZone
			city.AssignedZone = ""
			city.ZoneProgress = 0
		} else {
			out := formula.ResolveCombat(m.cat, city, zone, hero)
			rep.Combat = &out
			if out.Victory {
				city.ZoneProgress += out.ProgressMade
				if city.ZoneProgress >= zone.ClearRequirement {
					city.ZoneProgress = 0
					rep.ZoneCleared = true
				}
				n.Resources = state.AddResources(n.Resources, out.LootGained)
				m.addSkillXP(n, catalog.SkillCombat, out.XPGained, &rep)
				if hero != nil && out.HeroXPGained > 0 {
					next, gained, err := leveling.AddHeroXP(m.cat, *hero, out.HeroXPGained)
					if err == nil {
						*hero = next
						heroChanged = true
						if gained > 0 {
							rep.LevelUps = append(rep.LevelUps, LevelUp{Kind: LevelUpHero, Key: hero.ID, To: hero.Level, From: hero.Level - gained})
						}
					}
				}
			}
		}
	}

	if city != s.Cities[ci] {
		n.Cities = state.WithCity(s.Cities, ci, city)
	}
	if heroChanged {
		n.Heroes = state.WithHero(s.Heroes, hi, *hero)
	}
	return n, rep
}

func (m *Simulator) addSkillXP(n *state.GameState, key catalog.SkillKey, xp float64, rep *TickReport) {
	if xp <= 0 {
		return
	}
	cur := n.Skill(key)
	next, gained, err := leveling.AddSkillXP(cur, xp)
	if err != nil {
		return
	}
	n.PlayerSkills = state.WithSkill(n.PlayerSkills, key, next)
	if key != catalog.SkillCombat {
		rep.TaskSkill = key
		rep.TaskXP += xp
	}
	if gained > 0 {
		rep.LevelUps = append(rep.LevelUps, LevelUp{Kind: LevelUpSkill, Key: string(key), From: cur.Level, To: next.Level})
	}
}
