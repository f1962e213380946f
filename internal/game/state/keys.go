package state

import (
	"sort"

	"IdleCity/internal/game/catalog"
)

// 资源 map 的遍历顺序固定下来，保证拒绝原因稳定。
func sortedResourceKeys(m map[catalog.ResourceKey]float64) []catalog.ResourceKey {
	keys := make([]catalog.ResourceKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
