package dto

import (
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/game/catchup"
	"IdleCity/internal/game/formula"
	"IdleCity/internal/game/sim"
	"IdleCity/internal/game/state"
	"IdleCity/internal/session/actors"
)

// Resp 是 HTTP 和 ws 共用的响应体。Reason 只在业务拒绝时有值。
type Resp struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(data any) Resp {
	return Resp{Code: 0, Msg: "ok", Data: data}
}

func Error(code int, msg, reason string) Resp {
	return Resp{Code: code, Msg: msg, Reason: reason}
}

type StateView struct {
	SelectedCityID string           `json:"selectedCityId"`
	State          *state.GameState `json:"state"`
}

type SelectView struct {
	StateView
	CatchUp *catchup.Result `json:"catchUp,omitempty"`
}

type RatesView struct {
	Rates *formula.HourlyRates `json:"rates"`
}

type TickView struct {
	Report *sim.TickReport `json:"report,omitempty"`
}

type PlayerView struct {
	PlayerID int64  `json:"playerId"`
	Token    string `json:"token"`
}

func NewStateView(r *actors.Response) StateView {
	if r == nil {
		return StateView{}
	}
	return StateView{SelectedCityID: r.SelectedCityID, State: r.State}
}

// CatalogView 是客户端用的只读内容表，配方、采集和英雄技能界面都从这里取。
type CatalogView struct {
	Skills          []catalog.Skill          `json:"skills"`
	Tasks           []catalog.Task           `json:"tasks"`
	Recipes         []catalog.Recipe         `json:"recipes"`
	Zones           []catalog.Zone           `json:"zones"`
	Classes         []ClassView              `json:"classes"`
	Specializations []catalog.Specialization `json:"specializations"`
	CityUnlocks     []catalog.CityUnlock     `json:"cityUnlocks"`
}

// ClassView 是一个职业和它的技能树。
type ClassView struct {
	catalog.HeroClass
	SkillTree []catalog.HeroSkill `json:"skillTree"`
}

func NewCatalogView(cat *catalog.Catalog) CatalogView {
	if cat == nil {
		return CatalogView{}
	}
	classes := cat.HeroClasses()
	views := make([]ClassView, 0, len(classes))
	for _, hc := range classes {
		views = append(views, ClassView{HeroClass: hc, SkillTree: cat.ClassSkills(hc.Key)})
	}
	return CatalogView{
		Skills:          cat.Skills(),
		Tasks:           cat.Tasks(),
		Recipes:         cat.Recipes(),
		Zones:           cat.Zones(),
		Classes:         views,
		Specializations: cat.Specializations(),
		CityUnlocks:     cat.Unlocks(),
	}
}
