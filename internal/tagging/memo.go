package tagging

import (
	"slices"
	"sync"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/metrics"
)

// Index maps entry ids to their classification.
type Index map[string]Classification

// Of returns the classification recorded for e, classifying on a miss.
func (ix Index) Of(e catalog.Entry) Classification {
	if c, ok := ix[e.ID]; ok {
		return c
	}
	return Classify(e)
}

// Memo caches classifications for the most recent snapshot. A repeated call
// with the same snapshot is free; a new snapshot reclassifies only entries
// whose source text changed since the previous one.
type Memo struct {
	mu       sync.Mutex
	snapshot *catalog.Snapshot
	index    Index
	sources  map[string]catalog.Entry
	runs     int
}

func NewMemo() *Memo {
	return &Memo{}
}

func (m *Memo) For(s *catalog.Snapshot) Index {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s == m.snapshot && m.index != nil {
		return m.index
	}

	entries := s.Entries()
	index := make(Index, len(entries))
	sources := make(map[string]catalog.Entry, len(entries))
	for _, e := range entries {
		if prev, ok := m.sources[e.ID]; ok && sameSource(prev, e) {
			index[e.ID] = m.index[e.ID]
		} else {
			index[e.ID] = Classify(e)
			m.runs++
			metrics.Classifications.Inc()
		}
		sources[e.ID] = e
	}

	m.snapshot = s
	m.index = index
	m.sources = sources
	return index
}

func sameSource(a, b catalog.Entry) bool {
	return a.Title == b.Title &&
		a.DescriptionText() == b.DescriptionText() &&
		slices.Equal(a.Tags, b.Tags) &&
		slices.Equal(a.ComputedTags, b.ComputedTags)
}
