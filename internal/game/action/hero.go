package action

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

// AssignHero 把英雄派驻到城市。城市已有其他英雄时拒绝；英雄原本在别的城市时随之迁移。
func AssignHero(s *state.GameState, heroID, cityID string) (*state.GameState, error) {
	hi := s.HeroIndex(heroID)
	if hi < 0 {
		return s, reject(ReasonHeroNotFound, "hero_id", heroID)
	}
	if s.CityIndex(cityID) < 0 {
		return s, reject(ReasonCityNotFound, "city_id", cityID)
	}
	if cur := s.HeroInCity(cityID); cur >= 0 {
		return s, reject(ReasonCityHasHero, "city_id", cityID, "hero_id", s.Heroes[cur].ID)
	}

	h := s.Heroes[hi]
	h.AssignedCityID = cityID
	n := s.Shallow()
	n.Heroes = state.WithHero(s.Heroes, hi, h)
	return n, nil
}

func UnassignHero(s *state.GameState, heroID string) (*state.GameState, error) {
	hi := s.HeroIndex(heroID)
	if hi < 0 {
		return s, reject(ReasonHeroNotFound, "hero_id", heroID)
	}
	h := s.Heroes[hi]
	if h.AssignedCityID == "" {
		return s, reject(ReasonHeroNotAssigned, "hero_id", heroID)
	}
	h.AssignedCityID = ""
	n := s.Shallow()
	n.Heroes = state.WithHero(s.Heroes, hi, h)
	return n, nil
}

// AllocateStatPoint 花 1 个技能点给基础属性 +1。
func AllocateStatPoint(s *state.GameState, heroID string, stat catalog.StatKey) (*state.GameState, error) {
	hi := s.HeroIndex(heroID)
	if hi < 0 {
		return s, reject(ReasonHeroNotFound, "hero_id", heroID)
	}
	h := s.Heroes[hi]
	if _, ok := h.Stats[stat]; !ok || !catalog.IsHeroStat(stat) {
		return s, reject(ReasonUnknownStat, "stat", string(stat))
	}
	if h.SkillPoints < 1 {
		return s, reject(ReasonNoSkillPoints, "hero_id", heroID)
	}

	h = h.WithStat(stat, h.Stats[stat]+1)
	h.SkillPoints--
	n := s.Shallow()
	n.Heroes = state.WithHero(s.Heroes, hi, h)
	return n, nil
}

// LearnHeroSkill 学习或升级一个职业技能，花费技能点。
func LearnHeroSkill(cat *catalog.Catalog, s *state.GameState, heroID string, key catalog.HeroSkillKey) (*state.GameState, error) {
	hi := s.HeroIndex(heroID)
	if hi < 0 {
		return s, reject(ReasonHeroNotFound, "hero_id", heroID)
	}
	hs, ok := cat.HeroSkill(key)
	if !ok {
		return s, reject(ReasonUnknownHeroSkill, "skill", string(key))
	}
	h := s.Heroes[hi]
	if hs.Class != h.Class {
		return s, reject(ReasonWrongClass, "skill", string(key), "class", string(h.Class))
	}
	if h.Level < hs.LevelReq {
		return s, reject(ReasonHeroLevelTooLow, "skill", string(key), "need", hs.LevelReq)
	}
	cur := h.LearnedSkills[key]
	if cur >= hs.MaxLevel {
		return s, reject(ReasonSkillMaxLevel, "skill", string(key))
	}
	if h.SkillPoints < hs.Cost {
		return s, reject(ReasonNoSkillPoints, "skill", string(key), "need", hs.Cost)
	}

	h = h.WithLearned(key, cur+1)
	h.SkillPoints -= hs.Cost
	n := s.Shallow()
	n.Heroes = state.WithHero(s.Heroes, hi, h)
	return n, nil
}
