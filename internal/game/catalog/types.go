package catalog

// 目录里所有引用都走强类型 key，不再靠字符串前缀推断。
type (
	SkillKey       string
	ResourceKey    string
	TaskKey        string
	ZoneKey        string
	RecipeKey      string
	HeroClassKey   string
	HeroSkillKey   string
	StatKey        string
	BoostKey       string
	Specialization string
)

// 玩家技能。
const (
	SkillMining      SkillKey = "mining"
	SkillFarming     SkillKey = "farming"
	SkillWoodcutting SkillKey = "woodcutting"
	SkillCrafting    SkillKey = "crafting"
	SkillCombat      SkillKey = "combat"
)

// 英雄属性与战斗属性。
const (
	StatStrength     StatKey = "strength"
	StatDexterity    StatKey = "dexterity"
	StatIntelligence StatKey = "intelligence"

	StatAttack      StatKey = "attack"
	StatDefense     StatKey = "defense"
	StatMagicAttack StatKey = "magicAttack"
	StatAttackSpeed StatKey = "attackSpeed"
	StatCritChance  StatKey = "critChance"
)

// 城市升级消耗的资源。
const (
	ResourceWood  ResourceKey = "wood"
	ResourceStone ResourceKey = "stone"
	ResourceGold  ResourceKey = "gold"
)

// BoostCombatPower 是英雄天生的战斗加成，平加到攻击上。
const BoostCombatPower BoostKey = "combatPower"

// IsHeroStat 判断是否是可以加点的英雄基础属性。
func IsHeroStat(s StatKey) bool {
	switch s {
	case StatStrength, StatDexterity, StatIntelligence:
		return true
	}
	return false
}

// Skill 是一个玩家技能；采集类技能带英雄产量加成 key。
type Skill struct {
	Key        SkillKey `mapstructure:"key" json:"key"`
	Name       string   `mapstructure:"name" json:"name"`
	YieldBoost BoostKey `mapstructure:"yieldBoost" json:"yieldBoost,omitempty"`
}

// Task 是城市可以执行的采集任务：task -> {技能, 产出资源}。
type Task struct {
	Key      TaskKey     `mapstructure:"key" json:"key"`
	Name     string      `mapstructure:"name" json:"name"`
	Skill    SkillKey    `mapstructure:"skill" json:"skill"`
	Output   ResourceKey `mapstructure:"output" json:"output"`
	LevelReq int         `mapstructure:"levelReq" json:"levelReq"`
	XPGain   float64     `mapstructure:"xpGain" json:"xpGain"`
	BaseRate float64     `mapstructure:"baseRate" json:"baseRate"`
}

type CombatBonus struct {
	Attack  float64 `mapstructure:"attack" json:"attack"`
	Defense float64 `mapstructure:"defense" json:"defense"`
}

type Recipe struct {
	Key      RecipeKey               `mapstructure:"key" json:"key"`
	Name     string                  `mapstructure:"name" json:"name"`
	LevelReq int                     `mapstructure:"levelReq" json:"levelReq"`
	XPGain   float64                 `mapstructure:"xpGain" json:"xpGain"`
	Cost     map[ResourceKey]float64 `mapstructure:"cost" json:"cost"`
	Bonus    CombatBonus             `mapstructure:"bonus" json:"bonus"`
}

type Monster struct {
	Name        string                  `mapstructure:"name" json:"name"`
	HP          float64                 `mapstructure:"hp" json:"hp"`
	Attack      float64                 `mapstructure:"attack" json:"attack"`
	Defense     float64                 `mapstructure:"defense" json:"defense"`
	MagicResist float64                 `mapstructure:"magicResist" json:"magicResist"`
	XPReward    float64                 `mapstructure:"xpReward" json:"xpReward"`
	Loot        map[ResourceKey]float64 `mapstructure:"loot" json:"loot"`
}

type Zone struct {
	Key              ZoneKey   `mapstructure:"key" json:"key"`
	Name             string    `mapstructure:"name" json:"name"`
	LevelReq         int       `mapstructure:"levelReq" json:"levelReq"`
	Monsters         []Monster `mapstructure:"monsters" json:"monsters"`
	ClearRequirement int       `mapstructure:"clearRequirement" json:"clearRequirement"`
}

// HeroClass 决定升级时的属性成长：主属性每级 +1，副属性偶数级 +1。
type HeroClass struct {
	Key           HeroClassKey `mapstructure:"key" json:"key"`
	Name          string       `mapstructure:"name" json:"name"`
	MainStat      StatKey      `mapstructure:"mainStat" json:"mainStat"`
	SecondaryStat StatKey      `mapstructure:"secondaryStat" json:"secondaryStat"`
}

type SkillKind string

const (
	KindActive  SkillKind = "active"
	KindPassive SkillKind = "passive"
)

type EffectMode string

const (
	ModeFlat EffectMode = "flat"
	ModeMult EffectMode = "mult"
)

// ActiveEffect 主动技能：伤害 = stat * damageMultiplier * (1 + 0.1*(lv-1))。
type ActiveEffect struct {
	Stat             StatKey `mapstructure:"stat" json:"stat"`
	DamageMultiplier float64 `mapstructure:"damageMultiplier" json:"damageMultiplier"`
	Magical          bool    `mapstructure:"magical" json:"magical"`
}

// PassiveEffect 被动技能：按已学等级缩放后作用到目标战斗属性上。
type PassiveEffect struct {
	Target StatKey    `mapstructure:"target" json:"target"`
	Mode   EffectMode `mapstructure:"mode" json:"mode"`
	Value  float64    `mapstructure:"value" json:"value"`
}

type HeroSkill struct {
	Key      HeroSkillKey   `mapstructure:"key" json:"key"`
	Name     string         `mapstructure:"name" json:"name"`
	Class    HeroClassKey   `mapstructure:"class" json:"class"`
	Kind     SkillKind      `mapstructure:"kind" json:"kind"`
	LevelReq int            `mapstructure:"levelReq" json:"levelReq"`
	Cost     int            `mapstructure:"cost" json:"cost"`
	MaxLevel int            `mapstructure:"maxLevel" json:"maxLevel"`
	Active   *ActiveEffect  `mapstructure:"active" json:"active,omitempty"`
	Passive  *PassiveEffect `mapstructure:"passive" json:"passive,omitempty"`
}

// CityUnlock 是按顺序解锁的下一座城市。
type CityUnlock struct {
	CityID         string                  `mapstructure:"cityId" json:"cityId"`
	Name           string                  `mapstructure:"name" json:"name"`
	SkillReqs      map[SkillKey]int        `mapstructure:"skillReqs" json:"skillReqs"`
	ResourceReqs   map[ResourceKey]float64 `mapstructure:"resourceReqs" json:"resourceReqs"`
	Cost           map[ResourceKey]float64 `mapstructure:"cost" json:"cost"`
	Population     int                     `mapstructure:"population" json:"population"`
	Workers        int                     `mapstructure:"workers" json:"workers"`
	Specialization Specialization          `mapstructure:"specialization" json:"specialization"`
	Task           TaskKey                 `mapstructure:"task" json:"task"`
}

// Boost 用列表承载，避免驼峰 key 在配置解码时被转成小写。
type Boost struct {
	Key   BoostKey `mapstructure:"key" json:"key"`
	Value float64  `mapstructure:"value" json:"value"`
}

type StartHero struct {
	ID     string              `mapstructure:"id" json:"id"`
	Name   string              `mapstructure:"name" json:"name"`
	Class  HeroClassKey        `mapstructure:"class" json:"class"`
	Stats  map[StatKey]float64 `mapstructure:"stats" json:"stats"`
	Boosts []Boost             `mapstructure:"boosts" json:"boosts"`
}

type StartCity struct {
	ID             string         `mapstructure:"id" json:"id"`
	Name           string         `mapstructure:"name" json:"name"`
	Level          int            `mapstructure:"level" json:"level"`
	Population     int            `mapstructure:"population" json:"population"`
	Workers        int            `mapstructure:"workers" json:"workers"`
	Specialization Specialization `mapstructure:"specialization" json:"specialization"`
	Task           TaskKey        `mapstructure:"task" json:"task"`
}

// Start 是新开档时的初始内容。
type Start struct {
	Resources map[ResourceKey]float64 `mapstructure:"resources" json:"resources"`
	Skills    []SkillKey              `mapstructure:"skills" json:"skills"`
	Heroes    []StartHero             `mapstructure:"heroes" json:"heroes"`
	Cities    []StartCity             `mapstructure:"cities" json:"cities"`
}
