package action

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/formula"
	"IdleCity/internal/game/leveling"
	"IdleCity/internal/game/state"
)

// ChangeCityTask 切换城市任务，task 为空表示停止。等级不够的任务允许设置，只是没有产出。
func ChangeCityTask(cat *catalog.Catalog, s *state.GameState, cityID string, task catalog.TaskKey) (*state.GameState, error) {
	ci := s.CityIndex(cityID)
	if ci < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	if task != "" {
		if _, ok := cat.Task(task); !ok {
			return s, reject(ReasonUnknownTask, "task", string(task))
		}
	}
	c := s.Cities[ci]
	if c.CurrentTask == task {
		return s, nil
	}
	c.CurrentTask = task
	n := s.Shallow()
	n.Cities = state.WithCity(s.Cities, ci, c)
	return n, nil
}

func ChangeCitySpecialization(cat *catalog.Catalog, s *state.GameState, cityID string, spec catalog.Specialization) (*state.GameState, error) {
	ci := s.CityIndex(cityID)
	if ci < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	if !cat.HasSpecialization(spec) {
		return s, reject(ReasonUnknownSpecialization, "specialization", string(spec))
	}
	c := s.Cities[ci]
	if c.Specialization == spec {
		return s, nil
	}
	c.Specialization = spec
	n := s.Shallow()
	n.Cities = state.WithCity(s.Cities, ci, c)
	return n, nil
}

// AssignCombatZone 派城市去打某个区域，zone 为空表示停止战斗。换区域时进度清零。
// 区域等级要求只用于展示，这里不校验。
func AssignCombatZone(cat *catalog.Catalog, s *state.GameState, cityID string, zone catalog.ZoneKey) (*state.GameState, error) {
	ci := s.CityIndex(cityID)
	if ci < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	if zone != "" {
		if _, ok := cat.Zone(zone); !ok {
			return s, reject(ReasonUnknownZone, "zone", string(zone))
		}
	}
	c := s.Cities[ci]
	if c.AssignedZone == zone {
		return s, nil
	}
	c.AssignedZone = zone
	c.ZoneProgress = 0
	n := s.Shallow()
	n.Cities = state.WithCity(s.Cities, ci, c)
	return n, nil
}

// CraftItem 用全局资源打造装备，加成写到指定城市，并给 crafting 加经验。
func CraftItem(cat *catalog.Catalog, s *state.GameState, key catalog.RecipeKey, cityID string) (*state.GameState, error) {
	r, ok := cat.Recipe(key)
	if !ok {
		return s, reject(ReasonUnknownRecipe, "recipe", string(key))
	}
	ci := s.CityIndex(cityID)
	if ci < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	if res, ok := state.CanAfford(s.Resources, r.Cost); !ok {
		return s, reject(ReasonInsufficientResources, "resource", string(res), "need", r.Cost[res])
	}
	crafting := s.Skill(catalog.SkillCrafting)
	if crafting.Level < r.LevelReq {
		return s, reject(ReasonSkillLevelTooLow, "skill", string(catalog.SkillCrafting), "need", r.LevelReq)
	}
	next, _, err := leveling.AddSkillXP(crafting, r.XPGain)
	if err != nil {
		return s, err
	}

	c := s.Cities[ci]
	c.CombatStats.Attack += r.Bonus.Attack
	c.CombatStats.Defense += r.Bonus.Defense

	n := s.Shallow()
	n.Resources = state.SubResources(s.Resources, r.Cost)
	n.Cities = state.WithCity(s.Cities, ci, c)
	n.PlayerSkills = state.WithSkill(s.PlayerSkills, catalog.SkillCrafting, next)
	return n, nil
}

// UpgradeCity 花费 formula.CityUpgradeCost 把城市升一级。
func UpgradeCity(s *state.GameState, cityID string) (*state.GameState, error) {
	ci := s.CityIndex(cityID)
	if ci < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	c := s.Cities[ci]
	cost := formula.CityUpgradeCost(c.Level)
	if res, ok := state.CanAfford(s.Resources, cost); !ok {
		return s, reject(ReasonInsufficientResources, "resource", string(res), "need", cost[res])
	}
	c.Level++
	n := s.Shallow()
	n.Resources = state.SubResources(s.Resources, cost)
	n.Cities = state.WithCity(s.Cities, ci, c)
	return n, nil
}

// UnlockNextCity 依次检查 技能等级要求、资源持有要求、花费，全部满足才扣费并加城市。
func UnlockNextCity(cat *catalog.Catalog, s *state.GameState) (*state.GameState, error) {
	u, ok := cat.NextUnlock(func(id string) bool { return s.CityIndex(id) >= 0 })
	if !ok {
		return s, reject(ReasonNothingToUnlock)
	}
	for _, sk := range sortedSkillKeys(u.SkillReqs) {
		if s.Skill(sk).Level < u.SkillReqs[sk] {
			return s, reject(ReasonSkillLevelTooLow, "city_id", u.CityID, "skill", string(sk), "need", u.SkillReqs[sk])
		}
	}
	if res, ok := state.CanAfford(s.Resources, u.ResourceReqs); !ok {
		return s, reject(ReasonRequirementsNotMet, "city_id", u.CityID, "resource", string(res), "need", u.ResourceReqs[res])
	}
	if res, ok := state.CanAfford(s.Resources, u.Cost); !ok {
		return s, reject(ReasonInsufficientResources, "city_id", u.CityID, "resource", string(res), "need", u.Cost[res])
	}

	city := state.NewCity(u.CityID, u.Name, 1, u.Population, u.Workers, u.Specialization, u.Task)
	n := s.Shallow()
	n.Resources = state.SubResources(s.Resources, u.Cost)
	n.Cities = append(append(make([]state.City, 0, len(s.Cities)+1), s.Cities...), city)
	return n, nil
}
