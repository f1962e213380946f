package leveling

import (
	"math"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
	"IdleCity/modules/kit/errx"
)

// ErrInvalidXP 表示加经验的数值不是有限非负数，属于调用方 bug。
var ErrInvalidXP = errx.NewSys(errx.CodeInternal, "xp amount must be finite and >= 0")

// Curve 给出从 level 升到 level+1 需要的经验。
type Curve func(level int) float64

// Resolve 连续升级直到经验不足：结束时 xp < curve(level)。
// xp 不是有限非负数时原样返回；阈值小于 1 或不是有限数时按 1 处理，保证循环一定结束。
func Resolve(level int, xp float64, curve Curve) (int, float64) {
	if curve == nil {
		curve = catalog.XPForNextLevel
	}
	if level < 1 {
		level = 1
	}
	if !validXP(xp) {
		return level, xp
	}
	for {
		need := curve(level)
		if math.IsNaN(need) || math.IsInf(need, 0) || need < 1 {
			need = 1
		}
		if xp < need {
			return level, xp
		}
		xp -= need
		level++
	}
}

func validXP(xp float64) bool {
	return xp >= 0 && !math.IsInf(xp, 0) && !math.IsNaN(xp)
}

// AddSkillXP 给技能条目加经验并结算升级，返回新条目和升了几级。
func AddSkillXP(e state.SkillEntry, xp float64) (state.SkillEntry, int, error) {
	if !validXP(xp) {
		return e, 0, ErrInvalidXP.WithData("xp", xp)
	}
	if xp == 0 {
		return e, 0, nil
	}
	level, rest := Resolve(e.Level, e.XP+xp, catalog.XPForNextLevel)
	return state.SkillEntry{Level: level, XP: rest}, level - e.Level, nil
}

// AddHeroXP 给英雄加经验并结算升级。每升一级：技能点 +1，职业主属性 +1，
// 升到偶数级时副属性再 +1。
func AddHeroXP(cat *catalog.Catalog, h state.Hero, xp float64) (state.Hero, int, error) {
	if !validXP(xp) {
		return h, 0, ErrInvalidXP.WithData("xp", xp).WithData("hero_id", h.ID)
	}
	if xp == 0 {
		return h, 0, nil
	}
	level, rest := Resolve(h.Level, h.XP+xp, catalog.XPForNextLevel)
	gained := level - h.Level
	prev := h.Level
	h.XP = rest
	if gained == 0 {
		return h, 0, nil
	}
	h.Level = level
	h.SkillPoints += gained

	class, ok := cat.HeroClass(h.Class)
	if !ok {
		return h, gained, nil
	}
	mainGain, secondaryGain := 0.0, 0.0
	for lv := prev + 1; lv <= level; lv++ {
		mainGain++
		if lv%2 == 0 {
			secondaryGain++
		}
	}
	h = h.WithStat(class.MainStat, h.Stats[class.MainStat]+mainGain)
	if secondaryGain > 0 {
		h = h.WithStat(class.SecondaryStat, h.Stats[class.SecondaryStat]+secondaryGain)
	}
	return h, gained, nil
}
