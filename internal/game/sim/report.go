package sim

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/formula"
)

type LevelUpKind string

const (
	LevelUpSkill LevelUpKind = "skill"
	LevelUpHero  LevelUpKind = "hero"
)

// LevelUp 记录一次（可能跨多级的）升级。Key 是技能 key 或英雄 id。
type LevelUp struct {
	Kind LevelUpKind `json:"kind"`
	Key  string      `json:"key"`
	From int         `json:"from"`
	To   int         `json:"to"`
}

// TickReport 是一个 tick 的可观测结果，给日志和客户端展示用，不进存档。
type TickReport struct {
	CityID      string                          `json:"cityId"`
	Tick        int64                           `json:"tick"`
	Produced    map[catalog.ResourceKey]float64 `json:"produced,omitempty"`
	TaskSkill   catalog.SkillKey                `json:"taskSkill,omitempty"`
	TaskXP      float64                         `json:"taskXp,omitempty"`
	Combat      *formula.CombatOutcome          `json:"combat,omitempty"`
	ZoneCleared bool                            `json:"zoneCleared,omitempty"`
	DroppedZone catalog.ZoneKey                 `json:"droppedZone,omitempty"`
	LevelUps    []LevelUp                       `json:"levelUps,omitempty"`
}

// Summary 累计多个 tick 的结果，离线补算结束后打一条汇总日志。
type Summary struct {
	CityID      string                          `json:"cityId"`
	Ticks       int64                           `json:"ticks"`
	Produced    map[catalog.ResourceKey]float64 `json:"produced"`
	Loot        map[catalog.ResourceKey]float64 `json:"loot"`
	Kills       int64                           `json:"kills"`
	ZoneClears  int64                           `json:"zoneClears"`
	LevelUps    []LevelUp                       `json:"levelUps,omitempty"`
	DroppedZone catalog.ZoneKey                 `json:"droppedZone,omitempty"`
}

func NewSummary(cityID string) *Summary {
	return &Summary{
		CityID:   cityID,
		Produced: map[catalog.ResourceKey]float64{},
		Loot:     map[catalog.ResourceKey]float64{},
	}
}

// Add 合并一个 tick 的报告；连续的同一技能升级合并成一条。
func (s *Summary) Add(r TickReport) {
	s.Ticks++
	for k, v := range r.Produced {
		s.Produced[k] += v
	}
	if r.Combat != nil && r.Combat.Victory {
		s.Kills++
		for k, v := range r.Combat.LootGained {
			s.Loot[k] += v
		}
	}
	if r.ZoneCleared {
		s.ZoneClears++
	}
	if r.DroppedZone != "" {
		s.DroppedZone = r.DroppedZone
	}
	for _, lu := range r.LevelUps {
		merged := false
		for i := range s.LevelUps {
			if s.LevelUps[i].Kind == lu.Kind && s.LevelUps[i].Key == lu.Key {
				s.LevelUps[i].To = lu.To
				merged = true
				break
			}
		}
		if !merged {
			s.LevelUps = append(s.LevelUps, lu)
		}
	}
}
