package predict

import (
	"sort"
	"time"
)

// enforceCapacityLocked applies per-key pattern-count trimming and
// the two store-wide capacity bounds (max state keys, max memory).
// Caller must hold p.mu.
func (p *Predictor) enforceCapacityLocked() {
	for key, entries := range p.store {
		if len(entries) > p.cfg.MaxPatternsPerKey {
			sortByScoreDesc(entries, p.cfg.Eviction)
			p.store[key] = entries[:p.cfg.MaxPatternsPerKey]
		}
	}

	if len(p.store) > p.cfg.MaxStateKeys {
		p.evictKeysLocked()
	}
	if p.cfg.MaxMemoryBytes > 0 {
		p.evictForMemoryLocked()
	}
}

// keyScore scores a state key's entries under the active policy:
// LFU sums observation counts (higher survives), LRU/OldestFirst use
// the most-stale timestamp among the key's patterns (lower survives).
func keyScore(entries []*Pattern, policy EvictionPolicy) float64 {
	switch policy {
	case EvictionLRU:
		var maxElapsed float64
		for _, e := range entries {
			if el := float64(nowUnixNano() - e.LastAccessed.UnixNano()); el > maxElapsed {
				maxElapsed = el
			}
		}
		return maxElapsed
	case EvictionOldestFirst:
		var maxElapsed float64
		for _, e := range entries {
			if el := float64(nowUnixNano() - e.CreatedAt.UnixNano()); el > maxElapsed {
				maxElapsed = el
			}
		}
		return maxElapsed
	default: // EvictionLFU
		var sum int
		for _, e := range entries {
			sum += e.Observations
		}
		return float64(sum)
	}
}

// patternScore scores a single pattern for within-key trimming.
func patternScore(p *Pattern, policy EvictionPolicy) float64 {
	switch policy {
	case EvictionLRU:
		return float64(nowUnixNano() - p.LastAccessed.UnixNano())
	case EvictionOldestFirst:
		return float64(nowUnixNano() - p.CreatedAt.UnixNano())
	default:
		return float64(p.Observations)
	}
}

func sortByScoreDesc(entries []*Pattern, policy EvictionPolicy) {
	// For LFU, higher observation count should survive -> keep
	// descending by score. For LRU/OldestFirst, score is elapsed time
	// and *lower* elapsed (more recent) should survive, so we sort
	// ascending by elapsed and keep the front.
	switch policy {
	case EvictionLRU, EvictionOldestFirst:
		sort.Slice(entries, func(i, j int) bool { return patternScore(entries[i], policy) < patternScore(entries[j], policy) })
	default:
		sort.Slice(entries, func(i, j int) bool { return patternScore(entries[i], policy) > patternScore(entries[j], policy) })
	}
}

// evictKeysLocked removes the worst-scoring 10% of state keys once
// the key-count cap is exceeded, per spec §4.6.
func (p *Predictor) evictKeysLocked() {
	type scored struct {
		key   string
		score float64
	}
	scores := make([]scored, 0, len(p.store))
	for key, entries := range p.store {
		scores = append(scores, scored{key, keyScore(entries, p.cfg.Eviction)})
	}

	ascendingSurvival := p.cfg.Eviction == EvictionLFU // low LFU score = evict first
	sort.Slice(scores, func(i, j int) bool {
		if ascendingSurvival {
			return scores[i].score < scores[j].score
		}
		return scores[i].score > scores[j].score // high elapsed = evict first
	})

	toEvict := len(p.store) / 10
	if toEvict < 1 {
		toEvict = 1
	}
	for i := 0; i < toEvict && i < len(scores); i++ {
		delete(p.store, scores[i].key)
		p.record(func() { p.metrics.RecordEviction() })
	}
}

// evictForMemoryLocked removes one key at a time, worst-scoring
// first, until estimated usage drops to 90% of the budget or the
// store empties, per spec §4.6.
func (p *Predictor) evictForMemoryLocked() {
	for p.estimatedMemoryLocked() > p.cfg.MaxMemoryBytes*9/10 && len(p.store) > 0 {
		worstKey := ""
		var worstScore float64
		first := true
		ascendingSurvival := p.cfg.Eviction == EvictionLFU
		for key, entries := range p.store {
			s := keyScore(entries, p.cfg.Eviction)
			isWorse := first
			if !first {
				if ascendingSurvival {
					isWorse = s < worstScore
				} else {
					isWorse = s > worstScore
				}
			}
			if isWorse {
				worstKey, worstScore, first = key, s, false
			}
		}
		if worstKey == "" {
			break
		}
		delete(p.store, worstKey)
		p.record(func() { p.metrics.RecordEviction() })
	}
}

func (p *Predictor) estimatedMemoryLocked() int64 {
	var total int64
	for _, entries := range p.store {
		for _, e := range entries {
			total += estimateSize(e)
		}
	}
	return total
}

func nowUnixNano() int64 { return time.Now().UnixNano() }
