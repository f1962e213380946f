package catalog

import "fmt"

// validate 检查跨表引用，有问题直接拒绝加载。
func (c *Catalog) validate() []error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for _, k := range c.taskOrder {
		t := c.tasks[k]
		if _, ok := c.skills[t.Skill]; !ok {
			bad("task %q references unknown skill %q", k, t.Skill)
		}
		if t.Output == "" {
			bad("task %q has no output resource", k)
		}
		if t.LevelReq < 1 || t.BaseRate < 0 || t.XPGain < 0 {
			bad("task %q has invalid numbers", k)
		}
	}
	for _, k := range c.recipeOrder {
		r := c.recipes[k]
		if r.LevelReq < 1 || r.XPGain < 0 {
			bad("recipe %q has invalid numbers", k)
		}
		for res, amt := range r.Cost {
			if amt < 0 {
				bad("recipe %q has negative cost for %q", k, res)
			}
		}
	}
	for _, k := range c.zoneOrder {
		z := c.zones[k]
		if len(z.Monsters) == 0 {
			bad("zone %q has no monsters", k)
		}
		if z.ClearRequirement < 1 {
			bad("zone %q clearRequirement must be >= 1", k)
		}
	}
	for k, hc := range c.classes {
		if !IsHeroStat(hc.MainStat) || !IsHeroStat(hc.SecondaryStat) {
			bad("hero class %q has invalid growth stats", k)
		}
	}
	for k, hs := range c.heroSkills {
		if _, ok := c.classes[hs.Class]; !ok {
			bad("hero skill %q references unknown class %q", k, hs.Class)
		}
		if hs.MaxLevel < 1 || hs.Cost < 0 || hs.LevelReq < 1 {
			bad("hero skill %q has invalid numbers", k)
		}
		switch hs.Kind {
		case KindActive:
			if hs.Active == nil || !IsHeroStat(hs.Active.Stat) {
				bad("active skill %q needs an effect on a hero stat", k)
			}
		case KindPassive:
			if hs.Passive == nil || (hs.Passive.Mode != ModeFlat && hs.Passive.Mode != ModeMult) {
				bad("passive skill %q needs an effect with mode flat|mult", k)
			}
		default:
			bad("hero skill %q has unknown kind %q", k, hs.Kind)
		}
	}
	seen := make(map[string]bool)
	for _, sc := range c.start.Cities {
		seen[sc.ID] = true
		if sc.Task != "" {
			if _, ok := c.tasks[sc.Task]; !ok {
				bad("start city %q references unknown task %q", sc.ID, sc.Task)
			}
		}
	}
	if len(c.start.Cities) == 0 {
		bad("start needs at least one city")
	}
	for _, u := range c.unlocks {
		if seen[u.CityID] {
			bad("city unlock %q duplicates an existing city id", u.CityID)
		}
		seen[u.CityID] = true
		for sk := range u.SkillReqs {
			if _, ok := c.skills[sk]; !ok {
				bad("city unlock %q references unknown skill %q", u.CityID, sk)
			}
		}
		if u.Task != "" {
			if _, ok := c.tasks[u.Task]; !ok {
				bad("city unlock %q references unknown task %q", u.CityID, u.Task)
			}
		}
	}
	for _, sk := range c.start.Skills {
		if _, ok := c.skills[sk]; !ok {
			bad("start references unknown skill %q", sk)
		}
	}
	for _, h := range c.start.Heroes {
		if _, ok := c.classes[h.Class]; !ok {
			bad("start hero %q references unknown class %q", h.ID, h.Class)
		}
	}
	return errs
}
