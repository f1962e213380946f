package action

import "IdleCity/modules/kit/errx"

// Reason 细分 ACTION_REJECTED 下的拒绝原因，客户端据此置灰按钮或提示。
type Reason string

func (r Reason) ReasonCode() string { return string(r) }

const (
	ReasonUnknownAction         Reason = "UNKNOWN_ACTION"
	ReasonHeroNotFound          Reason = "HERO_NOT_FOUND"
	ReasonCityNotFound          Reason = "CITY_NOT_FOUND"
	ReasonCityHasHero           Reason = "CITY_HAS_HERO"
	ReasonHeroNotAssigned       Reason = "HERO_NOT_ASSIGNED"
	ReasonUnknownTask           Reason = "UNKNOWN_TASK"
	ReasonUnknownZone           Reason = "UNKNOWN_ZONE"
	ReasonUnknownRecipe         Reason = "UNKNOWN_RECIPE"
	ReasonUnknownSpecialization Reason = "UNKNOWN_SPECIALIZATION"
	ReasonInsufficientResources Reason = "INSUFFICIENT_RESOURCES"
	ReasonSkillLevelTooLow      Reason = "SKILL_LEVEL_TOO_LOW"
	ReasonNoSkillPoints         Reason = "NO_SKILL_POINTS"
	ReasonUnknownStat           Reason = "UNKNOWN_STAT"
	ReasonUnknownHeroSkill      Reason = "UNKNOWN_HERO_SKILL"
	ReasonWrongClass            Reason = "WRONG_CLASS"
	ReasonHeroLevelTooLow       Reason = "HERO_LEVEL_TOO_LOW"
	ReasonSkillMaxLevel         Reason = "SKILL_MAX_LEVEL"
	ReasonNothingToUnlock       Reason = "NOTHING_TO_UNLOCK"
	ReasonRequirementsNotMet    Reason = "REQUIREMENTS_NOT_MET"
)

// reject 构造业务拒绝错误，kv 依次是 key, value。
func reject(r Reason, kv ...any) error {
	e := errx.ErrRejected.WithReason(r)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			e = e.WithData(k, kv[i+1])
		}
	}
	return e
}
