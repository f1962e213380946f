package action

import (
	"errors"
	"testing"

	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
	"IdleCity/modules/kit/errx"
)

func initial() *state.GameState {
	return state.Initial(catalog.Default())
}

func withResources(s *state.GameState, res map[catalog.ResourceKey]float64) *state.GameState {
	n := s.Shallow()
	n.Resources = state.AddResources(s.Resources, res)
	return n
}

func withSkill(s *state.GameState, k catalog.SkillKey, level int) *state.GameState {
	n := s.Shallow()
	n.PlayerSkills = state.WithSkill(s.PlayerSkills, k, state.SkillEntry{Level: level})
	return n
}

func withHero(s *state.GameState, i int, f func(h *state.Hero)) *state.GameState {
	n := s.Shallow()
	h := s.Heroes[i]
	f(&h)
	n.Heroes = state.WithHero(s.Heroes, i, h)
	return n
}

// mustReject 断言被拒绝：返回同一个指针、ACTION_REJECTED、指定原因。
func mustReject(t *testing.T, s, got *state.GameState, err error, want Reason) {
	t.Helper()
	if got != s {
		t.Fatalf("拒绝时应返回同一个状态指针")
	}
	if !errors.Is(err, errx.ErrRejected) {
		t.Fatalf("期望 ErrRejected, got=%v", err)
	}
	if r := errx.ReasonOf(err); r != string(want) {
		t.Fatalf("reason got=%s want=%s", r, want)
	}
}

func TestAssignHero_城市已有英雄被拒绝(t *testing.T) {
	s, err := AssignHero(initial(), "hero-1", "city-1")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	got, err := AssignHero(s, "hero-2", "city-1")
	mustReject(t, s, got, err, ReasonCityHasHero)
}

func TestAssignHero_未知英雄或城市(t *testing.T) {
	s := initial()
	got, err := AssignHero(s, "hero-9", "city-1")
	mustReject(t, s, got, err, ReasonHeroNotFound)
	got, err = AssignHero(s, "hero-1", "city-9")
	mustReject(t, s, got, err, ReasonCityNotFound)
}

func TestUnassignHero(t *testing.T) {
	s := initial()
	got, err := UnassignHero(s, "hero-1")
	mustReject(t, s, got, err, ReasonHeroNotAssigned)

	s, _ = AssignHero(s, "hero-1", "city-1")
	n, err := UnassignHero(s, "hero-1")
	if err != nil || n.Heroes[0].AssignedCityID != "" || s.Heroes[0].AssignedCityID != "city-1" {
		t.Fatalf("err=%v n=%+v", err, n.Heroes[0])
	}
}

func TestChangeCityTask(t *testing.T) {
	cat := catalog.Default()
	s := initial()
	got, err := ChangeCityTask(cat, s, "city-1", "mineGold")
	if err != nil || got.Cities[0].CurrentTask != "mineGold" || s.Cities[0].CurrentTask != "mineCoal" {
		t.Fatalf("err=%v", err)
	}
	got, err = ChangeCityTask(cat, s, "city-1", "")
	if err != nil || got.Cities[0].CurrentTask != "" {
		t.Fatalf("空任务表示停止 err=%v", err)
	}
	got, err = ChangeCityTask(cat, s, "city-1", "mineMoon")
	mustReject(t, s, got, err, ReasonUnknownTask)
}

func TestChangeCitySpecialization(t *testing.T) {
	cat := catalog.Default()
	s := initial()
	got, err := ChangeCitySpecialization(cat, s, "city-1", "mining")
	if err != nil || got.Cities[0].Specialization != "mining" {
		t.Fatalf("err=%v", err)
	}
	got, err = ChangeCitySpecialization(cat, s, "city-1", "piracy")
	mustReject(t, s, got, err, ReasonUnknownSpecialization)
}

func TestAssignCombatZone_换区域进度清零(t *testing.T) {
	cat := catalog.Default()
	s, err := AssignCombatZone(cat, initial(), "city-1", "zoneGoblin")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	n := s.Shallow()
	c := s.Cities[0]
	c.ZoneProgress = 7
	n.Cities = state.WithCity(s.Cities, 0, c)

	same, err := AssignCombatZone(cat, n, "city-1", "zoneGoblin")
	if err != nil || same.Cities[0].ZoneProgress != 7 {
		t.Fatalf("同一区域不应清零 err=%v", err)
	}
	moved, _ := AssignCombatZone(cat, n, "city-1", "zoneChicken")
	if moved.Cities[0].ZoneProgress != 0 || moved.Cities[0].AssignedZone != "zoneChicken" {
		t.Fatalf("city=%+v", moved.Cities[0])
	}
	stopped, _ := AssignCombatZone(cat, n, "city-1", "")
	if stopped.Cities[0].AssignedZone != "" || stopped.Cities[0].ZoneProgress != 0 {
		t.Fatalf("city=%+v", stopped.Cities[0])
	}
	got, err := AssignCombatZone(cat, n, "city-1", "zoneDragon")
	mustReject(t, n, got, err, ReasonUnknownZone)
}

func TestCraftItem(t *testing.T) {
	cat := catalog.Default()
	s := initial()
	got, err := CraftItem(cat, s, "bronzeSword", "city-1")
	mustReject(t, s, got, err, ReasonInsufficientResources)

	rich := withResources(s, map[catalog.ResourceKey]float64{"copper": 12, "birch": 5})
	got, err = CraftItem(cat, rich, "bronzeSword", "city-1")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Resources["copper"] != 2 || got.Resources["birch"] != 0 {
		t.Fatalf("resources=%v", got.Resources)
	}
	if got.Cities[0].CombatStats.Attack != 1 {
		t.Fatalf("combatStats=%+v", got.Cities[0].CombatStats)
	}
	if got.PlayerSkills["crafting"].XP != 5 {
		t.Fatalf("crafting=%+v", got.PlayerSkills["crafting"])
	}
	if rich.Resources["copper"] != 12 || rich.Cities[0].CombatStats.Attack != 0 {
		t.Fatalf("输入状态被修改")
	}

	iron := withResources(s, map[catalog.ResourceKey]float64{"iron": 15, "oak": 10})
	got, err = CraftItem(cat, iron, "ironSword", "city-1")
	mustReject(t, iron, got, err, ReasonSkillLevelTooLow)
}

func TestAllocateStatPoint(t *testing.T) {
	s := initial()
	got, err := AllocateStatPoint(s, "hero-1", catalog.StatStrength)
	mustReject(t, s, got, err, ReasonNoSkillPoints)

	s = withHero(s, 0, func(h *state.Hero) { h.SkillPoints = 1 })
	got, err = AllocateStatPoint(s, "hero-1", "luck")
	mustReject(t, s, got, err, ReasonUnknownStat)

	got, err = AllocateStatPoint(s, "hero-1", catalog.StatStrength)
	if err != nil || got.Heroes[0].SkillPoints != 0 || got.Heroes[0].Stats[catalog.StatStrength] != s.Heroes[0].Stats[catalog.StatStrength]+1 {
		t.Fatalf("err=%v hero=%+v", err, got.Heroes[0])
	}
}

func TestLearnHeroSkill(t *testing.T) {
	cat := catalog.Default()
	s := withHero(initial(), 0, func(h *state.Hero) { h.SkillPoints = 3 })

	got, err := LearnHeroSkill(cat, s, "hero-1", "wizardFireball")
	mustReject(t, s, got, err, ReasonWrongClass)
	got, err = LearnHeroSkill(cat, s, "hero-1", "warriorToughness") // levelReq 2
	mustReject(t, s, got, err, ReasonHeroLevelTooLow)
	got, err = LearnHeroSkill(cat, s, "hero-1", "nope")
	mustReject(t, s, got, err, ReasonUnknownHeroSkill)

	got, err = LearnHeroSkill(cat, s, "hero-1", "warriorPowerStrike")
	if err != nil || got.Heroes[0].LearnedSkills["warriorPowerStrike"] != 1 || got.Heroes[0].SkillPoints != 2 {
		t.Fatalf("err=%v hero=%+v", err, got.Heroes[0])
	}

	maxed := withHero(s, 0, func(h *state.Hero) {
		*h = h.WithLearned("warriorPowerStrike", 5)
	})
	got, err = LearnHeroSkill(cat, maxed, "hero-1", "warriorPowerStrike")
	mustReject(t, maxed, got, err, ReasonSkillMaxLevel)

	broke := withHero(s, 0, func(h *state.Hero) { h.SkillPoints = 0 })
	got, err = LearnHeroSkill(cat, broke, "hero-1", "warriorPowerStrike")
	mustReject(t, broke, got, err, ReasonNoSkillPoints)
}

func TestUpgradeCity(t *testing.T) {
	s := initial()
	got, err := UpgradeCity(s, "city-1")
	mustReject(t, s, got, err, ReasonInsufficientResources)

	rich := withResources(s, map[catalog.ResourceKey]float64{"wood": 65, "stone": 35, "gold": 14})
	got, err = UpgradeCity(rich, "city-1")
	if err != nil || got.Cities[0].Level != 2 {
		t.Fatalf("err=%v", err)
	}
	if got.Resources["wood"] != 0 || got.Resources["stone"] != 0 || got.Resources["gold"] != 0 {
		t.Fatalf("resources=%v", got.Resources)
	}
}

func TestUnlockNextCity_金币不足返回同一状态(t *testing.T) {
	cat := catalog.Default()
	s := withSkill(withSkill(initial(), "mining", 5), "farming", 3)
	s = withResources(s, map[catalog.ResourceKey]float64{"wheat": 50, "wood": 100, "stone": 50, "gold": 19})

	got, err := UnlockNextCity(cat, s)
	mustReject(t, s, got, err, ReasonInsufficientResources)
	if len(got.Cities) != 1 || got.Resources["wood"] != 110 {
		t.Fatalf("拒绝时不应扣资源或加城市")
	}
}

func TestUnlockNextCity_依次检查并解锁(t *testing.T) {
	cat := catalog.Default()
	s := initial()
	got, err := UnlockNextCity(cat, s)
	mustReject(t, s, got, err, ReasonSkillLevelTooLow)

	s = withSkill(withSkill(s, "mining", 5), "farming", 3)
	got, err = UnlockNextCity(cat, s)
	mustReject(t, s, got, err, ReasonRequirementsNotMet)

	s = withResources(s, map[catalog.ResourceKey]float64{"wheat": 50, "wood": 90, "stone": 45, "gold": 20})
	got, err = UnlockNextCity(cat, s)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(got.Cities) != 2 || got.Cities[1].ID != "city-2" || got.Cities[1].CurrentTask != "farmWheat" || got.Cities[1].Level != 1 {
		t.Fatalf("cities=%+v", got.Cities)
	}
	if got.Resources["wood"] != 0 || got.Resources["gold"] != 0 || got.Resources["wheat"] != 50 {
		t.Fatalf("resources=%v", got.Resources)
	}
	if len(s.Cities) != 1 {
		t.Fatalf("输入状态被修改")
	}
}

func TestApply_按名字分发(t *testing.T) {
	cat := catalog.Default()
	s := initial()
	got, err := Apply(cat, s, Request{Name: NameAssignHero, HeroID: "hero-2", CityID: "city-1"})
	if err != nil || got.Heroes[1].AssignedCityID != "city-1" {
		t.Fatalf("err=%v", err)
	}
	got, err = Apply(cat, s, Request{Name: "teleport"})
	mustReject(t, s, got, err, ReasonUnknownAction)
}
