package action

import (
	"sort"

	"IdleCity/internal/game/catalog"
)

func sortedSkillKeys(m map[catalog.SkillKey]int) []catalog.SkillKey {
	keys := make([]catalog.SkillKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
