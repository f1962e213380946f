package state

import (
	"time"

	"IdleCity/internal/game/catalog"
)

// GameState 是整局游戏的根值。
//
// 约束：GameState 按不可变值使用。任何转换都返回新值，只替换被改动的分支，
// 未改动的 map/slice 与旧值共享，所以绝不能原地修改拿到的 map/slice。
type GameState struct {
	Tick         int64                           `json:"tick"`
	Resources    map[catalog.ResourceKey]float64 `json:"resources"`
	PlayerSkills map[catalog.SkillKey]SkillEntry `json:"playerSkills"`
	Heroes       []Hero                          `json:"heroes"`
	Cities       []City                          `json:"cities"`
}

// SkillEntry 是通用的成长单元：玩家技能、英雄经验都用它。
type SkillEntry struct {
	Level int     `json:"level"`
	XP    float64 `json:"xp"`
}

type CombatStats struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// City 的 CurrentTask/AssignedZone 为空串表示未设置；LastActive 为 nil 表示正在实时模拟。
type City struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Level          int                    `json:"level"`
	Population     int                    `json:"population"`
	Workers        int                    `json:"workers"`
	Specialization catalog.Specialization `json:"specialization"`
	CombatStats    CombatStats            `json:"combatStats"`
	CurrentTask    catalog.TaskKey        `json:"currentTask,omitempty"`
	AssignedZone   catalog.ZoneKey        `json:"assignedZone,omitempty"`
	ZoneProgress   int                    `json:"zoneProgress"`
	LastActive     *time.Time             `json:"lastActiveTimestamp"`
}

// Hero 的 AssignedCityID 为空串表示未派驻。Boosts 是天生加成，创建后不变。
type Hero struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	Class          catalog.HeroClassKey         `json:"class"`
	Level          int                          `json:"level"`
	XP             float64                      `json:"xp"`
	Stats          map[catalog.StatKey]float64  `json:"stats"`
	SkillPoints    int                          `json:"skillPoints"`
	LearnedSkills  map[catalog.HeroSkillKey]int `json:"learnedSkills"`
	Boosts         map[catalog.BoostKey]float64 `json:"boosts"`
	AssignedCityID string                       `json:"assignedCityId,omitempty"`
}

// Initial 按内容表的开局配置创建新档。
func Initial(cat *catalog.Catalog) *GameState {
	start := cat.Start()
	s := &GameState{
		Resources:    make(map[catalog.ResourceKey]float64, len(start.Resources)),
		PlayerSkills: make(map[catalog.SkillKey]SkillEntry, len(start.Skills)),
		Heroes:       make([]Hero, 0, len(start.Heroes)),
		Cities:       make([]City, 0, len(start.Cities)),
	}
	for k, v := range start.Resources {
		s.Resources[k] = v
	}
	for _, k := range start.Skills {
		s.PlayerSkills[k] = SkillEntry{Level: 1}
	}
	for _, h := range start.Heroes {
		hero := Hero{
			ID:            h.ID,
			Name:          h.Name,
			Class:         h.Class,
			Level:         1,
			Stats:         map[catalog.StatKey]float64{catalog.StatStrength: 0, catalog.StatDexterity: 0, catalog.StatIntelligence: 0},
			LearnedSkills: map[catalog.HeroSkillKey]int{},
			Boosts:        make(map[catalog.BoostKey]float64, len(h.Boosts)),
		}
		for k, v := range h.Stats {
			hero.Stats[k] = v
		}
		for _, b := range h.Boosts {
			hero.Boosts[b.Key] = b.Value
		}
		s.Heroes = append(s.Heroes, hero)
	}
	for _, c := range start.Cities {
		s.Cities = append(s.Cities, NewCity(c.ID, c.Name, max(1, c.Level), c.Population, c.Workers, c.Specialization, c.Task))
	}
	return s
}

func NewCity(id, name string, level, population, workers int, spec catalog.Specialization, task catalog.TaskKey) City {
	if spec == "" {
		spec = "general"
	}
	return City{
		ID:             id,
		Name:           name,
		Level:          level,
		Population:     population,
		Workers:        workers,
		Specialization: spec,
		CurrentTask:    task,
	}
}
