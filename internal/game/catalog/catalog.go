package catalog

import "math"

// Catalog 是只读的游戏内容表。加载完成后不再修改，可以在多个 goroutine 间共享。
type Catalog struct {
	skills     map[SkillKey]Skill
	skillOrder []SkillKey

	tasks     map[TaskKey]Task
	taskOrder []TaskKey

	recipes     map[RecipeKey]Recipe
	recipeOrder []RecipeKey

	zones     map[ZoneKey]Zone
	zoneOrder []ZoneKey

	classes    map[HeroClassKey]HeroClass
	classOrder []HeroClassKey
	heroSkills map[HeroSkillKey]HeroSkill
	skillTree  map[HeroClassKey][]HeroSkillKey

	specializations []Specialization
	unlocks         []CityUnlock
	start           Start
}

func (c *Catalog) Skill(k SkillKey) (Skill, bool) {
	s, ok := c.skills[k]
	return s, ok
}

// Skills 按配置顺序返回全部玩家技能。
func (c *Catalog) Skills() []Skill {
	out := make([]Skill, 0, len(c.skillOrder))
	for _, k := range c.skillOrder {
		out = append(out, c.skills[k])
	}
	return out
}

func (c *Catalog) Task(k TaskKey) (Task, bool) {
	t, ok := c.tasks[k]
	return t, ok
}

func (c *Catalog) Tasks() []Task {
	out := make([]Task, 0, len(c.taskOrder))
	for _, k := range c.taskOrder {
		out = append(out, c.tasks[k])
	}
	return out
}

func (c *Catalog) Recipe(k RecipeKey) (Recipe, bool) {
	r, ok := c.recipes[k]
	return r, ok
}

func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.recipeOrder))
	for _, k := range c.recipeOrder {
		out = append(out, c.recipes[k])
	}
	return out
}

func (c *Catalog) Zone(k ZoneKey) (Zone, bool) {
	z, ok := c.zones[k]
	return z, ok
}

func (c *Catalog) Zones() []Zone {
	out := make([]Zone, 0, len(c.zoneOrder))
	for _, k := range c.zoneOrder {
		out = append(out, c.zones[k])
	}
	return out
}

func (c *Catalog) HeroClass(k HeroClassKey) (HeroClass, bool) {
	hc, ok := c.classes[k]
	return hc, ok
}

// HeroClasses 按配置顺序返回全部英雄职业。
func (c *Catalog) HeroClasses() []HeroClass {
	out := make([]HeroClass, 0, len(c.classOrder))
	for _, k := range c.classOrder {
		out = append(out, c.classes[k])
	}
	return out
}

func (c *Catalog) HeroSkill(k HeroSkillKey) (HeroSkill, bool) {
	hs, ok := c.heroSkills[k]
	return hs, ok
}

// ClassSkills 返回某职业的技能树（配置顺序）。
func (c *Catalog) ClassSkills(k HeroClassKey) []HeroSkill {
	keys := c.skillTree[k]
	out := make([]HeroSkill, 0, len(keys))
	for _, sk := range keys {
		out = append(out, c.heroSkills[sk])
	}
	return out
}

func (c *Catalog) HasSpecialization(s Specialization) bool {
	for _, v := range c.specializations {
		if v == s {
			return true
		}
	}
	return false
}

func (c *Catalog) Specializations() []Specialization {
	return append([]Specialization(nil), c.specializations...)
}

// NextUnlock 返回第一个尚未拥有的城市解锁项。
func (c *Catalog) NextUnlock(owned func(cityID string) bool) (CityUnlock, bool) {
	for _, u := range c.unlocks {
		if !owned(u.CityID) {
			return u, true
		}
	}
	return CityUnlock{}, false
}

// Unlocks 返回城市解锁顺序表的副本。
func (c *Catalog) Unlocks() []CityUnlock {
	return append([]CityUnlock(nil), c.unlocks...)
}

func (c *Catalog) Start() Start {
	return c.start
}

// XPForNextLevel 是升级曲线：floor(10 * level^1.5)，至少为 1。
func XPForNextLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Max(1, math.Floor(10*math.Pow(float64(level), 1.5)))
}
