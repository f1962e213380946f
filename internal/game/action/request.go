package action

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/state"
)

// 动作名，与 HTTP 路由 /api/actions/:name 和 ws 消息名一致。
const (
	NameAssignHero               = "assignHero"
	NameUnassignHero             = "unassignHero"
	NameChangeCityTask           = "changeCityTask"
	NameChangeCitySpecialization = "changeCitySpecialization"
	NameAssignCombatZone         = "assignCombatZone"
	NameCraftItem                = "craftItem"
	NameAllocateStatPoint        = "allocateStatPoint"
	NameLearnHeroSkill           = "learnHeroSkill"
	NameUpgradeCity              = "upgradeCity"
	NameUnlockNextCity           = "unlockNextCity"
)

// Request 是一次玩家操作的参数，未用到的字段留空。
type Request struct {
	Name           string                 `json:"name" mapstructure:"name"`
	HeroID         string                 `json:"heroId,omitempty" mapstructure:"heroId"`
	CityID         string                 `json:"cityId,omitempty" mapstructure:"cityId"`
	Task           catalog.TaskKey        `json:"task,omitempty" mapstructure:"task"`
	Zone           catalog.ZoneKey        `json:"zone,omitempty" mapstructure:"zone"`
	Recipe         catalog.RecipeKey      `json:"recipe,omitempty" mapstructure:"recipe"`
	Stat           catalog.StatKey        `json:"stat,omitempty" mapstructure:"stat"`
	Skill          catalog.HeroSkillKey   `json:"skill,omitempty" mapstructure:"skill"`
	Specialization catalog.Specialization `json:"specialization,omitempty" mapstructure:"specialization"`
}

// Apply 按名字分发到具体动作。拒绝时返回原状态指针和业务错误。
func Apply(cat *catalog.Catalog, s *state.GameState, req Request) (*state.GameState, error) {
	switch req.Name {
	case NameAssignHero:
		return AssignHero(s, req.HeroID, req.CityID)
	case NameUnassignHero:
		return UnassignHero(s, req.HeroID)
	case NameChangeCityTask:
		return ChangeCityTask(cat, s, req.CityID, req.Task)
	case NameChangeCitySpecialization:
		return ChangeCitySpecialization(cat, s, req.CityID, req.Specialization)
	case NameAssignCombatZone:
		return AssignCombatZone(cat, s, req.CityID, req.Zone)
	case NameCraftItem:
		return CraftItem(cat, s, req.Recipe, req.CityID)
	case NameAllocateStatPoint:
		return AllocateStatPoint(s, req.HeroID, req.Stat)
	case NameLearnHeroSkill:
		return LearnHeroSkill(cat, s, req.HeroID, req.Skill)
	case NameUpgradeCity:
		return UpgradeCity(s, req.CityID)
	case NameUnlockNextCity:
		return UnlockNextCity(cat, s)
	default:
		return s, reject(ReasonUnknownAction, "action", req.Name)
	}
}
