package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/spf13/viper"
)

//go:embed data/*.json
var embedded embed.FS

// document 是单个内容文件的结构，每个文件只填自己负责的段。
type document struct {
	Skills          []Skill          `mapstructure:"skills"`
	Tasks           []Task           `mapstructure:"tasks"`
	Recipes         []Recipe         `mapstructure:"recipes"`
	Zones           []Zone           `mapstructure:"zones"`
	HeroClasses     []HeroClass      `mapstructure:"heroClasses"`
	HeroSkills      []HeroSkill      `mapstructure:"heroSkills"`
	Specializations []Specialization `mapstructure:"specializations"`
	CityUnlocks     []CityUnlock     `mapstructure:"cityUnlocks"`
	Start           *Start           `mapstructure:"start"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default 返回内置内容表。内置表由测试保证合法，加载失败直接 panic。
func Default() *Catalog {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			panic(err)
		}
		c, err := LoadFS(sub)
		if err != nil {
			panic(fmt.Errorf("load embedded catalog: %w", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// LoadDir 从磁盘目录加载内容表（覆盖内置表）。
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS 读取 fsys 根目录下全部 *.json，按文件名顺序合并后校验。
func LoadFS(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("catalog: no *.json files")
	}
	sort.Strings(names)

	var merged document
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", name, err)
		}
		merged.merge(doc)
	}
	return build(merged)
}

func decode(raw []byte) (document, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return document{}, err
	}
	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

func (d *document) merge(o document) {
	d.Skills = append(d.Skills, o.Skills...)
	d.Tasks = append(d.Tasks, o.Tasks...)
	d.Recipes = append(d.Recipes, o.Recipes...)
	d.Zones = append(d.Zones, o.Zones...)
	d.HeroClasses = append(d.HeroClasses, o.HeroClasses...)
	d.HeroSkills = append(d.HeroSkills, o.HeroSkills...)
	d.Specializations = append(d.Specializations, o.Specializations...)
	d.CityUnlocks = append(d.CityUnlocks, o.CityUnlocks...)
	if o.Start != nil {
		d.Start = o.Start
	}
}

func build(d document) (*Catalog, error) {
	c := &Catalog{
		skills:          make(map[SkillKey]Skill, len(d.Skills)),
		tasks:           make(map[TaskKey]Task, len(d.Tasks)),
		recipes:         make(map[RecipeKey]Recipe, len(d.Recipes)),
		zones:           make(map[ZoneKey]Zone, len(d.Zones)),
		classes:         make(map[HeroClassKey]HeroClass, len(d.HeroClasses)),
		heroSkills:      make(map[HeroSkillKey]HeroSkill, len(d.HeroSkills)),
		skillTree:       make(map[HeroClassKey][]HeroSkillKey),
		specializations: d.Specializations,
		unlocks:         d.CityUnlocks,
	}
	var errs []error
	dup := func(kind, key string) {
		errs = append(errs, fmt.Errorf("duplicate %s %q", kind, key))
	}

	for _, s := range d.Skills {
		if _, ok := c.skills[s.Key]; ok {
			dup("skill", string(s.Key))
			continue
		}
		c.skills[s.Key] = s
		c.skillOrder = append(c.skillOrder, s.Key)
	}
	for _, t := range d.Tasks {
		if _, ok := c.tasks[t.Key]; ok {
			dup("task", string(t.Key))
			continue
		}
		c.tasks[t.Key] = t
		c.taskOrder = append(c.taskOrder, t.Key)
	}
	for _, r := range d.Recipes {
		if _, ok := c.recipes[r.Key]; ok {
			dup("recipe", string(r.Key))
			continue
		}
		c.recipes[r.Key] = r
		c.recipeOrder = append(c.recipeOrder, r.Key)
	}
	for _, z := range d.Zones {
		if _, ok := c.zones[z.Key]; ok {
			dup("zone", string(z.Key))
			continue
		}
		c.zones[z.Key] = z
		c.zoneOrder = append(c.zoneOrder, z.Key)
	}
	for _, hc := range d.HeroClasses {
		if _, ok := c.classes[hc.Key]; ok {
			dup("hero class", string(hc.Key))
			continue
		}
		c.classes[hc.Key] = hc
		c.classOrder = append(c.classOrder, hc.Key)
	}
	for _, hs := range d.HeroSkills {
		if _, ok := c.heroSkills[hs.Key]; ok {
			dup("hero skill", string(hs.Key))
			continue
		}
		c.heroSkills[hs.Key] = hs
		c.skillTree[hs.Class] = append(c.skillTree[hs.Class], hs.Key)
	}
	if d.Start != nil {
		c.start = *d.Start
	}

	errs = append(errs, c.validate()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}
