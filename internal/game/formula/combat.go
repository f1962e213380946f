package formula

import (
	"math"
	"sort"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

// HeroStats 是英雄聚合后的战斗属性。暴击和攻速只用于展示，战斗结算不掷骰。
type HeroStats struct {
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	MagicAttack float64 `json:"magicAttack"`
	AttackSpeed float64 `json:"attackSpeed"`
	CritChance  float64 `json:"critChance"`
}

const (
	baseAttackSpeed = 1.0
	baseCritChance  = 0.05
)

// HeroCombatStats 基础公式 + combatPower 平加 + 被动技能（先平加后乘算），最后全部截到 >=0。
// hero 为空或数据不合法时返回全 0。
func HeroCombatStats(cat *catalog.Catalog, hero *state.Hero) HeroStats {
	if hero == nil || hero.Level < 1 {
		return HeroStats{}
	}
	str := hero.Stats[catalog.StatStrength]
	dex := hero.Stats[catalog.StatDexterity]
	intel := hero.Stats[catalog.StatIntelligence]
	lv := float64(hero.Level - 1)

	vals := map[catalog.StatKey]float64{
		catalog.StatAttack:      1.5*str + 0.5*dex + lv + hero.Boosts[catalog.BoostCombatPower],
		catalog.StatDefense:     0.5*str + 0.2*dex + lv,
		catalog.StatMagicAttack: 2.0*intel + lv,
		catalog.StatAttackSpeed: baseAttackSpeed,
		catalog.StatCritChance:  baseCritChance,
	}

	passives := learnedOfKind(cat, hero, catalog.KindPassive)
	for _, mode := range []catalog.EffectMode{catalog.ModeFlat, catalog.ModeMult} {
		for _, ls := range passives {
			eff := ls.skill.Passive
			if eff == nil || eff.Mode != mode {
				continue
			}
			if _, ok := vals[eff.Target]; !ok {
				continue
			}
			scaled := eff.Value * float64(ls.level)
			if mode == catalog.ModeFlat {
				vals[eff.Target] += scaled
			} else {
				vals[eff.Target] *= 1 + scaled
			}
		}
	}

	return HeroStats{
		Attack:      math.Max(0, vals[catalog.StatAttack]),
		Defense:     math.Max(0, vals[catalog.StatDefense]),
		MagicAttack: math.Max(0, vals[catalog.StatMagicAttack]),
		AttackSpeed: math.Max(0, vals[catalog.StatAttackSpeed]),
		CritChance:  math.Max(0, vals[catalog.StatCritChance]),
	}
}

type learnedSkill struct {
	skill catalog.HeroSkill
	level int
}

// learnedOfKind 按 key 排序返回已学的某类技能，保证结果与 map 遍历顺序无关。
func learnedOfKind(cat *catalog.Catalog, hero *state.Hero, kind catalog.SkillKind) []learnedSkill {
	keys := make([]catalog.HeroSkillKey, 0, len(hero.LearnedSkills))
	for k := range hero.LearnedSkills {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []learnedSkill
	for _, k := range keys {
		lvl := hero.LearnedSkills[k]
		hs, ok := cat.HeroSkill(k)
		if !ok || hs.Kind != kind || lvl < 1 {
			continue
		}
		out = append(out, learnedSkill{skill: hs, level: lvl})
	}
	return out
}

// CombatOutcome 是一次战斗结算的结果，只在当 tick 使用，不进存档。
type CombatOutcome struct {
	Monster      string                          `json:"monster"`
	Victory      bool                            `json:"victory"`
	DamageDealt  float64                         `json:"damageDealt"`
	DamageTaken  float64                         `json:"damageTaken"`
	XPGained     float64                         `json:"xpGained"`
	HeroXPGained float64                         `json:"heroXpGained"`
	LootGained   map[catalog.ResourceKey]float64 `json:"lootGained"`
	ProgressMade int                             `json:"progressMade"`
	SkillUsed    catalog.HeroSkillKey            `json:"skillUsed,omitempty"`
}

// ResolveCombat 结算一次战斗：只打区域的第一只怪，伤害够一击击杀才算胜利，
// 没打死的怪不保留伤害。区域没有怪物时返回失败结果。
func ResolveCombat(cat *catalog.Catalog, city state.City, zone catalog.Zone, hero *state.Hero) CombatOutcome {
	out := CombatOutcome{LootGained: map[catalog.ResourceKey]float64{}}
	if len(zone.Monsters) == 0 {
		return out
	}
	m := zone.Monsters[0]
	out.Monster = m.Name
	hs := HeroCombatStats(cat, hero)

	if active, ok := bestActive(cat, hero); ok {
		eff := active.skill.Active
		dmg := hero.Stats[eff.Stat] * eff.DamageMultiplier * (1 + 0.1*float64(active.level-1))
		if eff.Magical {
			dmg += hs.MagicAttack - m.MagicResist
		} else {
			dmg += city.CombatStats.Attack - m.Defense
		}
		out.DamageDealt = math.Max(0, dmg)
		out.SkillUsed = active.skill.Key
	} else {
		out.DamageDealt = math.Max(0, city.CombatStats.Attack+hs.Attack-m.Defense) +
			math.Max(0, hs.MagicAttack-m.MagicResist)
	}
	out.DamageTaken = math.Max(0, m.Attack-(city.CombatStats.Defense+hs.Defense))

	if out.DamageDealt < m.HP {
		return out
	}
	out.Victory = true
	out.XPGained = m.XPReward
	if hero != nil {
		out.HeroXPGained = m.XPReward
	}
	for k, v := range m.Loot {
		out.LootGained[k] = v
	}
	out.ProgressMade = 1
	return out
}

// bestActive 选已学等级最高的主动技能，同级取 key 最小的。
func bestActive(cat *catalog.Catalog, hero *state.Hero) (learnedSkill, bool) {
	if hero == nil || hero.Level < 1 {
		return learnedSkill{}, false
	}
	var best learnedSkill
	found := false
	for _, ls := range learnedOfKind(cat, hero, catalog.KindActive) {
		if ls.skill.Active == nil {
			continue
		}
		if !found || ls.level > best.level {
			best, found = ls, true
		}
	}
	return best, found
}

func floorPow(base, growth, exp float64) float64 {
	return math.Floor(base * math.Pow(growth, exp))
}
