package state

import (
	"fmt"
	"time"

	"IdleCity/internal/game/catalog"
)

// Shallow 返回一份浅拷贝：顶层是新的结构体，嵌套的 map/slice 仍与原值共享。
// 调用方只能整体替换字段（配合下面的 With* 函数），不能原地改共享的 map/slice。
func (s *GameState) Shallow() *GameState {
	n := *s
	return &n
}

func (s *GameState) CityIndex(id string) int {
	for i := range s.Cities {
		if s.Cities[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *GameState) City(id string) (City, bool) {
	if i := s.CityIndex(id); i >= 0 {
		return s.Cities[i], true
	}
	return City{}, false
}

func (s *GameState) HeroIndex(id string) int {
	for i := range s.Heroes {
		if s.Heroes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *GameState) Hero(id string) (Hero, bool) {
	if i := s.HeroIndex(id); i >= 0 {
		return s.Heroes[i], true
	}
	return Hero{}, false
}

// HeroInCity 返回派驻在该城市的英雄下标，没有时返回 -1。
func (s *GameState) HeroInCity(cityID string) int {
	if cityID == "" {
		return -1
	}
	for i := range s.Heroes {
		if s.Heroes[i].AssignedCityID == cityID {
			return i
		}
	}
	return -1
}

func (s *GameState) Resource(k catalog.ResourceKey) float64 {
	return s.Resources[k]
}

// Skill 返回玩家技能；没有记录的技能按 1 级 0 经验处理。
func (s *GameState) Skill(k catalog.SkillKey) SkillEntry {
	if e, ok := s.PlayerSkills[k]; ok {
		return e
	}
	return SkillEntry{Level: 1}
}

// WithCity 返回替换了第 i 座城市的新切片。
func WithCity(cities []City, i int, c City) []City {
	out := make([]City, len(cities))
	copy(out, cities)
	out[i] = c
	return out
}

func WithHero(heroes []Hero, i int, h Hero) []Hero {
	out := make([]Hero, len(heroes))
	copy(out, heroes)
	out[i] = h
	return out
}

// WithSkill 返回设置了某个技能条目的新 map。
func WithSkill(skills map[catalog.SkillKey]SkillEntry, k catalog.SkillKey, e SkillEntry) map[catalog.SkillKey]SkillEntry {
	out := make(map[catalog.SkillKey]SkillEntry, len(skills)+1)
	for key, v := range skills {
		out[key] = v
	}
	out[k] = e
	return out
}

// AddResources 返回 base + delta 的新 map；delta 为空时原样返回 base。
func AddResources(base map[catalog.ResourceKey]float64, delta map[catalog.ResourceKey]float64) map[catalog.ResourceKey]float64 {
	if len(delta) == 0 {
		return base
	}
	out := make(map[catalog.ResourceKey]float64, len(base)+len(delta))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range delta {
		out[k] += v
	}
	return out
}

// SubResources 返回扣除 cost 后的新 map。调用前需用 CanAfford 检查。
func SubResources(base map[catalog.ResourceKey]float64, cost map[catalog.ResourceKey]float64) map[catalog.ResourceKey]float64 {
	if len(cost) == 0 {
		return base
	}
	out := make(map[catalog.ResourceKey]float64, len(base)+len(cost))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range cost {
		out[k] -= v
	}
	return out
}

// CanAfford 返回第一个不够的资源。
func CanAfford(have map[catalog.ResourceKey]float64, cost map[catalog.ResourceKey]float64) (catalog.ResourceKey, bool) {
	for _, k := range sortedResourceKeys(cost) {
		if have[k] < cost[k] {
			return k, false
		}
	}
	return "", true
}

// WithStat 返回修改了某项属性的英雄副本。
func (h Hero) WithStat(k catalog.StatKey, v float64) Hero {
	stats := make(map[catalog.StatKey]float64, len(h.Stats)+1)
	for key, val := range h.Stats {
		stats[key] = val
	}
	stats[k] = v
	h.Stats = stats
	return h
}

func (h Hero) WithLearned(k catalog.HeroSkillKey, level int) Hero {
	learned := make(map[catalog.HeroSkillKey]int, len(h.LearnedSkills)+1)
	for key, val := range h.LearnedSkills {
		learned[key] = val
	}
	learned[k] = level
	h.LearnedSkills = learned
	return h
}

// StampedAt 返回 LastActive 设为 t 的城市副本。
func (c City) StampedAt(t time.Time) City {
	ts := t
	c.LastActive = &ts
	return c
}

// Live 返回标记为实时模拟（LastActive=nil）的城市副本。
func (c City) Live() City {
	c.LastActive = nil
	return c
}

// CheckInvariants 校验不依赖内容表的结构约束，用于检测损坏的存档。
func (s *GameState) CheckInvariants() error {
	if s == nil {
		return fmt.Errorf("state is nil")
	}
	cities := make(map[string]bool, len(s.Cities))
	for _, c := range s.Cities {
		if c.ID == "" || cities[c.ID] {
			return fmt.Errorf("city id %q empty or duplicated", c.ID)
		}
		cities[c.ID] = true
		if c.Level < 1 || c.ZoneProgress < 0 {
			return fmt.Errorf("city %q has invalid level/progress", c.ID)
		}
	}
	heroes := make(map[string]bool, len(s.Heroes))
	holder := make(map[string]string, len(s.Heroes))
	for _, h := range s.Heroes {
		if h.ID == "" || heroes[h.ID] {
			return fmt.Errorf("hero id %q empty or duplicated", h.ID)
		}
		heroes[h.ID] = true
		if h.Level < 1 || h.XP < 0 || h.SkillPoints < 0 {
			return fmt.Errorf("hero %q has invalid level/xp/points", h.ID)
		}
		if h.AssignedCityID == "" {
			continue
		}
		if !cities[h.AssignedCityID] {
			return fmt.Errorf("hero %q assigned to unknown city %q", h.ID, h.AssignedCityID)
		}
		if other, ok := holder[h.AssignedCityID]; ok {
			return fmt.Errorf("heroes %q and %q both assigned to city %q", other, h.ID, h.AssignedCityID)
		}
		holder[h.AssignedCityID] = h.ID
	}
	for k, e := range s.PlayerSkills {
		if e.Level < 1 || e.XP < 0 {
			return fmt.Errorf("skill %q has invalid level/xp", k)
		}
	}
	for k, v := range s.Resources {
		if v < 0 {
			return fmt.Errorf("resource %q is negative", k)
		}
	}
	return nil
}
