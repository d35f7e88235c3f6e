// Package vmetrics implements the process-wide counters and timing
// ring buffers described in spec.md §4.7, grounded on
// original_source/src/metrics.rs's Metrics struct.
package vmetrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxRecentSamples = 1000

// Collector is a process-wide metrics sink. The zero value is not
// usable; construct with New.
type Collector struct {
	reconcileCalls        atomic.Uint64
	reconcileErrors       atomic.Uint64
	totalPatchesGenerated atomic.Uint64
	reconcileTotalTimeUs  atomic.Uint64

	predictorLearns       atomic.Uint64
	predictorLearnErrors  atomic.Uint64
	predictorPredictions  atomic.Uint64
	predictionHits        atomic.Uint64
	predictionMisses      atomic.Uint64
	predictorTotalTimeUs  atomic.Uint64

	currentPredictors atomic.Uint64
	maxPredictors     atomic.Uint64
	evictions         atomic.Uint64

	validationFailures     atomic.Uint64
	patchesValidated       atomic.Uint64
	patchValidationFailure atomic.Uint64

	startTime time.Time

	mu                  sync.Mutex
	recentReconcileUs   []uint64
	recentPredictionUs  []uint64
}

// New constructs a Collector with its clock started at the current
// time.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordReconcile records one reconcile call's duration, patch count,
// and whether it errored.
func (c *Collector) RecordReconcile(d time.Duration, patchCount int, failed bool) {
	c.reconcileCalls.Add(1)
	if failed {
		c.reconcileErrors.Add(1)
	} else {
		c.totalPatchesGenerated.Add(uint64(patchCount))
	}
	us := uint64(d.Microseconds())
	c.reconcileTotalTimeUs.Add(us)
	c.pushSample(&c.recentReconcileUs, us)
}

// RecordPrediction records one prediction attempt's duration and
// whether it was a hit.
func (c *Collector) RecordPrediction(d time.Duration, hit bool) {
	c.predictorPredictions.Add(1)
	if hit {
		c.predictionHits.Add(1)
	} else {
		c.predictionMisses.Add(1)
	}
	us := uint64(d.Microseconds())
	c.predictorTotalTimeUs.Add(us)
	c.pushSample(&c.recentPredictionUs, us)
}

// RecordLearn records one learn call, incrementing the error counter
// when it failed.
func (c *Collector) RecordLearn(failed bool) {
	c.predictorLearns.Add(1)
	if failed {
		c.predictorLearnErrors.Add(1)
	}
}

// RecordPredictorCreated bumps the live-predictor gauge and its
// high-water mark.
func (c *Collector) RecordPredictorCreated() {
	cur := c.currentPredictors.Add(1)
	for {
		max := c.maxPredictors.Load()
		if cur <= max || c.maxPredictors.CompareAndSwap(max, cur) {
			return
		}
	}
}

// RecordPredictorDestroyed decrements the live-predictor gauge.
func (c *Collector) RecordPredictorDestroyed() {
	c.currentPredictors.Add(^uint64(0)) // -1 via two's complement wraparound
}

// RecordEviction increments the eviction counter.
func (c *Collector) RecordEviction() { c.evictions.Add(1) }

// RecordValidationFailure increments the validation-failure counter.
func (c *Collector) RecordValidationFailure() { c.validationFailures.Add(1) }

// RecordPatchValidation records one patch-validation outcome.
func (c *Collector) RecordPatchValidation(success bool) {
	c.patchesValidated.Add(1)
	if !success {
		c.patchValidationFailure.Add(1)
	}
}

func (c *Collector) pushSample(buf *[]uint64, v uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(*buf) >= maxRecentSamples {
		*buf = (*buf)[1:]
	}
	*buf = append(*buf, v)
}

// Snapshot is a point-in-time, internally consistent view of every
// counter and derived statistic.
type Snapshot struct {
	ReconcileCalls        uint64
	ReconcileErrors       uint64
	TotalPatchesGenerated uint64
	ReconcileAvgUs        float64
	ReconcileP95Us        float64

	PredictorLearns      uint64
	PredictorLearnErrors uint64
	PredictorPredictions uint64
	PredictionHits       uint64
	PredictionMisses     uint64
	PredictionHitRate    float64
	PredictionAvgUs      float64
	PredictionP95Us      float64

	CurrentPredictors uint64
	MaxPredictors     uint64
	Evictions         uint64

	ValidationFailures     uint64
	PatchesValidated       uint64
	PatchValidationFailure uint64

	UptimeSeconds float64
}

// Snapshot computes a consistent view from the current atomics and
// sample buffers.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	reconcileSamples := append([]uint64(nil), c.recentReconcileUs...)
	predictionSamples := append([]uint64(nil), c.recentPredictionUs...)
	c.mu.Unlock()

	hits := c.predictionHits.Load()
	total := c.predictorPredictions.Load()
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Snapshot{
		ReconcileCalls:        c.reconcileCalls.Load(),
		ReconcileErrors:       c.reconcileErrors.Load(),
		TotalPatchesGenerated: c.totalPatchesGenerated.Load(),
		ReconcileAvgUs:        average(reconcileSamples),
		ReconcileP95Us:        percentile(reconcileSamples, 0.95),

		PredictorLearns:      c.predictorLearns.Load(),
		PredictorLearnErrors: c.predictorLearnErrors.Load(),
		PredictorPredictions: total,
		PredictionHits:       hits,
		PredictionMisses:     c.predictionMisses.Load(),
		PredictionHitRate:    hitRate,
		PredictionAvgUs:      average(predictionSamples),
		PredictionP95Us:      percentile(predictionSamples, 0.95),

		CurrentPredictors: c.currentPredictors.Load(),
		MaxPredictors:     c.maxPredictors.Load(),
		Evictions:         c.evictions.Load(),

		ValidationFailures:     c.validationFailures.Load(),
		PatchesValidated:       c.patchesValidated.Load(),
		PatchValidationFailure: c.patchValidationFailure.Load(),

		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

// Reset zeroes every counter and clears both sample buffers.
func (c *Collector) Reset() {
	c.reconcileCalls.Store(0)
	c.reconcileErrors.Store(0)
	c.totalPatchesGenerated.Store(0)
	c.reconcileTotalTimeUs.Store(0)
	c.predictorLearns.Store(0)
	c.predictorLearnErrors.Store(0)
	c.predictorPredictions.Store(0)
	c.predictionHits.Store(0)
	c.predictionMisses.Store(0)
	c.predictorTotalTimeUs.Store(0)
	c.currentPredictors.Store(0)
	c.maxPredictors.Store(0)
	c.evictions.Store(0)
	c.validationFailures.Store(0)
	c.patchesValidated.Store(0)
	c.patchValidationFailure.Store(0)

	c.mu.Lock()
	c.recentReconcileUs = nil
	c.recentPredictionUs = nil
	c.mu.Unlock()

	c.startTime = time.Now()
}

func average(samples []uint64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum uint64
	for _, s := range samples {
		sum += s
	}
	return float64(sum) / float64(len(samples))
}

// percentile sorts a copy of samples and indexes at len*p clamped to
// len-1, matching original_source/src/metrics.rs's percentile helper.
func percentile(samples []uint64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]uint64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx])
}
