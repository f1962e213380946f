package formula

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

// eligibleTask 解析城市当前任务；任务未知、技能记录缺失或等级不够时返回 false。
func eligibleTask(cat *catalog.Catalog, city state.City, skills map[catalog.SkillKey]state.SkillEntry) (catalog.Task, state.SkillEntry, bool) {
	if city.CurrentTask == "" {
		return catalog.Task{}, state.SkillEntry{}, false
	}
	task, ok := cat.Task(city.CurrentTask)
	if !ok {
		return catalog.Task{}, state.SkillEntry{}, false
	}
	entry, ok := skills[task.Skill]
	if !ok || entry.Level < task.LevelReq {
		return catalog.Task{}, state.SkillEntry{}, false
	}
	return task, entry, true
}

// ResourceGain 计算城市在 dt 秒内的任务产出。
//
//	rate = baseRate * (1 + 0.05*(skillLv-levelReq)) * (1 + 0.10*(cityLv-1)) * (1 + heroYieldBoost)
func ResourceGain(cat *catalog.Catalog, city state.City, hero *state.Hero, skills map[catalog.SkillKey]state.SkillEntry, dt float64) map[catalog.ResourceKey]float64 {
	task, entry, ok := eligibleTask(cat, city, skills)
	if !ok {
		return map[catalog.ResourceKey]float64{}
	}
	rate := task.BaseRate
	rate *= 1 + 0.05*float64(entry.Level-task.LevelReq)
	rate *= 1 + 0.10*float64(city.Level-1)
	rate *= 1 + heroYieldBoost(cat, hero, task.Skill)
	return map[catalog.ResourceKey]float64{task.Output: rate * dt}
}

// XPGain 计算任务技能在 dt 秒内获得的经验，门槛与 ResourceGain 相同。
func XPGain(cat *catalog.Catalog, city state.City, hero *state.Hero, skills map[catalog.SkillKey]state.SkillEntry, dt float64) float64 {
	task, _, ok := eligibleTask(cat, city, skills)
	if !ok {
		return 0
	}
	return task.XPGain * dt
}

func heroYieldBoost(cat *catalog.Catalog, hero *state.Hero, skill catalog.SkillKey) float64 {
	if hero == nil {
		return 0
	}
	s, ok := cat.Skill(skill)
	if !ok || s.YieldBoost == "" {
		return 0
	}
	return hero.Boosts[s.YieldBoost]
}

// CityUpgradeCost 是城市从 level 升到 level+1 的花费。
func CityUpgradeCost(level int) map[catalog.ResourceKey]float64 {
	l := float64(level)
	return map[catalog.ResourceKey]float64{
		catalog.ResourceWood:  floorPow(50, 1.5, l),
		catalog.ResourceStone: floorPow(25, 1.6, l),
		catalog.ResourceGold:  floorPow(10, 1.4, l),
	}
}
