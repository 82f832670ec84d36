package layout

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// metricsCache memoizes the avg-advance text-size heuristic, keyed by (text, fontSize). measure
// is called once per frame per visible text node during an interactive resize, so repeated calls
// with the same label are common; wiring an LRU here avoids recomputing the same estimate on
// every layout pass.
type metricsCache struct {
	cache *lru.Cache[metricsKey, metricsValue]
}

type metricsKey struct {
	text     string
	fontSize float64
}

type metricsValue struct {
	w, h float64
}

func newMetricsCache(size int) *metricsCache {
	c, err := lru.New[metricsKey, metricsValue](size)
	if err != nil {
		// size is always a positive constant passed by NewResolver; a negative or zero size is a
		// programmer error, not a runtime condition.
		panic(err)
	}
	return &metricsCache{cache: c}
}

func (m *metricsCache) get(text string, fontSize float64) (w, h float64, ok bool) {
	v, ok := m.cache.Get(metricsKey{text: text, fontSize: fontSize})
	if !ok {
		return 0, 0, false
	}
	return v.w, v.h, true
}

func (m *metricsCache) put(text string, fontSize, w, h float64) {
	m.cache.Add(metricsKey{text: text, fontSize: fontSize}, metricsValue{w: w, h: h})
}
