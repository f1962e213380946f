package leveling

import (
	"errors"
	"math"
	"testing"
	"time"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
	"IdleCity/modules/kit/errx"
)

func TestResolve_经验耗尽性质(t *testing.T) {
	for level := 1; level <= 30; level++ {
		for xp := 0.0; xp <= 5000; xp += 37.5 {
			lv, rest := Resolve(level, xp, nil)
			if rest >= catalog.XPForNextLevel(lv) {
				t.Fatalf("level=%d xp=%v: 结算后仍可升级 lv=%d rest=%v", level, xp, lv, rest)
			}
			if rest < 0 {
				t.Fatalf("level=%d xp=%v: 剩余经验为负 %v", level, xp, rest)
			}
			// 唯一最大：从 level 升到 lv 刚好消耗 xp-rest
			spent := 0.0
			for l := level; l < lv; l++ {
				spent += catalog.XPForNextLevel(l)
			}
			if math.Abs(spent+rest-xp) > 1e-9 {
				t.Fatalf("level=%d xp=%v: spent=%v rest=%v", level, xp, spent, rest)
			}
		}
	}
}

func TestResolve_一次跨多级(t *testing.T) {
	// 10 + 28 + 51 = 89
	lv, rest := Resolve(1, 90, nil)
	if lv != 4 || rest != 1 {
		t.Fatalf("lv=%d rest=%v", lv, rest)
	}
}

func TestResolve_曲线返回0也能结束(t *testing.T) {
	lv, rest := Resolve(1, 3.5, func(int) float64 { return 0 })
	if lv != 4 || rest != 0.5 {
		t.Fatalf("lv=%d rest=%v", lv, rest)
	}
}

// resolveWithin 在限定时间内跑完 Resolve，卡死直接判失败。
func resolveWithin(t *testing.T, level int, xp float64, curve Curve) (int, float64) {
	t.Helper()
	type out struct {
		lv   int
		rest float64
	}
	ch := make(chan out, 1)
	go func() {
		lv, rest := Resolve(level, xp, curve)
		ch <- out{lv, rest}
	}()
	select {
	case o := <-ch:
		return o.lv, o.rest
	case <-time.After(2 * time.Second):
		t.Fatalf("Resolve(%d, %v) 没有结束", level, xp)
		return 0, 0
	}
}

func TestResolve_非法经验原样返回(t *testing.T) {
	for _, xp := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5} {
		lv, rest := resolveWithin(t, 3, xp, nil)
		if lv != 3 {
			t.Fatalf("xp=%v 不应升级 lv=%d", xp, lv)
		}
		if !(rest == xp || math.IsNaN(xp) && math.IsNaN(rest)) {
			t.Fatalf("xp=%v 应原样返回 rest=%v", xp, rest)
		}
	}
}

func TestResolve_曲线返回非有限数按1处理(t *testing.T) {
	for _, need := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		lv, rest := resolveWithin(t, 1, 5, func(int) float64 { return need })
		if lv != 6 || rest != 0 {
			t.Fatalf("need=%v lv=%d rest=%v", need, lv, rest)
		}
	}
}

func TestAddSkillXP_非法经验返回错误且不变(t *testing.T) {
	e := state.SkillEntry{Level: 2, XP: 3}
	for _, xp := range []float64{-1, math.NaN(), math.Inf(1)} {
		got, n, err := AddSkillXP(e, xp)
		if !errors.Is(err, errx.ErrInternal) {
			t.Fatalf("xp=%v 期望 ErrInternal, got=%v", xp, err)
		}
		if got != e || n != 0 {
			t.Fatalf("xp=%v 条目不应变化 got=%+v", xp, got)
		}
	}
}

func TestAddSkillXP_升级(t *testing.T) {
	got, n, err := AddSkillXP(state.SkillEntry{Level: 1, XP: 9}, 1)
	if err != nil || n != 1 || got.Level != 2 || got.XP != 0 {
		t.Fatalf("got=%+v n=%d err=%v", got, n, err)
	}
}

func TestAddHeroXP_升级发技能点和属性(t *testing.T) {
	cat := catalog.Default()
	h := state.Initial(cat).Heroes[0] // Warrior: 主 strength，副 dexterity
	str, dex := h.Stats[catalog.StatStrength], h.Stats[catalog.StatDexterity]

	// 1->2 需要 10，2->3 需要 28
	got, n, err := AddHeroXP(cat, h, 38)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if n != 2 || got.Level != 3 || got.XP != 0 || got.SkillPoints != 2 {
		t.Fatalf("got level=%d xp=%v sp=%d n=%d", got.Level, got.XP, got.SkillPoints, n)
	}
	if got.Stats[catalog.StatStrength] != str+2 {
		t.Fatalf("主属性应 +2, got=%v", got.Stats)
	}
	if got.Stats[catalog.StatDexterity] != dex+1 {
		t.Fatalf("副属性只在偶数级 +1, got=%v", got.Stats)
	}
	if h.Stats[catalog.StatStrength] != str || h.Level != 1 {
		t.Fatalf("原英雄被修改")
	}
}
