package formula

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

// HourlyRates 是挂机收益估算：用当前状态算一个 tick 的结果再乘以每小时 tick 数。
// 不考虑这一小时内的升级。
type HourlyRates struct {
	CityID            string                          `json:"cityId"`
	TicksPerHour      float64                         `json:"ticksPerHour"`
	KillsPerHour      float64                         `json:"killsPerHour"`
	CombatXPPerHour   float64                         `json:"xpPerHour"`
	HeroXPPerHour     float64                         `json:"heroXpPerHour"`
	LootPerHour       map[catalog.ResourceKey]float64 `json:"lootPerHour"`
	ProductionPerHour map[catalog.ResourceKey]float64 `json:"productionPerHour"`
	TaskXPPerHour     float64                         `json:"taskXpPerHour"`
	Combat            *CombatOutcome                  `json:"combat,omitempty"`
}

func EstimateHourlyRates(cat *catalog.Catalog, s *state.GameState, cityID string, tickSeconds float64) (HourlyRates, bool) {
	city, ok := s.City(cityID)
	if !ok || tickSeconds <= 0 {
		return HourlyRates{}, false
	}
	var hero *state.Hero
	if i := s.HeroInCity(cityID); i >= 0 {
		h := s.Heroes[i]
		hero = &h
	}

	ticks := 3600 / tickSeconds
	r := HourlyRates{
		CityID:            cityID,
		TicksPerHour:      ticks,
		LootPerHour:       map[catalog.ResourceKey]float64{},
		ProductionPerHour: map[catalog.ResourceKey]float64{},
	}
	for k, v := range ResourceGain(cat, city, hero, s.PlayerSkills, tickSeconds) {
		r.ProductionPerHour[k] = v * ticks
	}
	r.TaskXPPerHour = XPGain(cat, city, hero, s.PlayerSkills, tickSeconds) * ticks

	if city.AssignedZone == "" {
		return r, true
	}
	zone, ok := cat.Zone(city.AssignedZone)
	if !ok {
		return r, true
	}
	out := ResolveCombat(cat, city, zone, hero)
	r.Combat = &out
	if out.Victory {
		r.KillsPerHour = ticks
		r.CombatXPPerHour = out.XPGained * ticks
		r.HeroXPPerHour = out.HeroXPGained * ticks
		for k, v := range out.LootGained {
			r.LootPerHour[k] = v * ticks
		}
	}
	return r, true
}
