package vmetrics

import (
	"testing"
	"time"
)

func TestRecordReconcileAccumulates(t *testing.T) {
	c := New()
	c.RecordReconcile(10*time.Millisecond, 3, false)
	c.RecordReconcile(20*time.Millisecond, 2, false)
	c.RecordReconcile(5*time.Millisecond, 0, true)

	s := c.Snapshot()
	if s.ReconcileCalls != 3 {
		t.Fatalf("ReconcileCalls = %d, want 3", s.ReconcileCalls)
	}
	if s.ReconcileErrors != 1 {
		t.Fatalf("ReconcileErrors = %d, want 1", s.ReconcileErrors)
	}
	if s.TotalPatchesGenerated != 5 {
		t.Fatalf("TotalPatchesGenerated = %d, want 5", s.TotalPatchesGenerated)
	}
}

func TestPredictionHitRate(t *testing.T) {
	c := New()
	c.RecordPrediction(1*time.Millisecond, true)
	c.RecordPrediction(1*time.Millisecond, true)
	c.RecordPrediction(1*time.Millisecond, false)

	s := c.Snapshot()
	if s.PredictionHits != 2 || s.PredictionMisses != 1 {
		t.Fatalf("unexpected hit/miss counts: %+v", s)
	}
	want := 2.0 / 3.0
	if diff := s.PredictionHitRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("PredictionHitRate = %f, want %f", s.PredictionHitRate, want)
	}
}

func TestPredictorGaugeTracksHighWaterMark(t *testing.T) {
	c := New()
	c.RecordPredictorCreated()
	c.RecordPredictorCreated()
	c.RecordPredictorDestroyed()

	s := c.Snapshot()
	if s.CurrentPredictors != 1 {
		t.Fatalf("CurrentPredictors = %d, want 1", s.CurrentPredictors)
	}
	if s.MaxPredictors != 2 {
		t.Fatalf("MaxPredictors = %d, want 2", s.MaxPredictors)
	}
}

func TestPercentileClampsToLastElement(t *testing.T) {
	samples := []uint64{1, 2, 3, 4, 5}
	if got := percentile(samples, 0.95); got != 5 {
		t.Fatalf("percentile(samples, 0.95) = %f, want 5", got)
	}
	if got := percentile(samples, 1.0); got != 5 {
		t.Fatalf("percentile(samples, 1.0) = %f, want 5", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	c := New()
	c.RecordReconcile(1*time.Millisecond, 1, false)
	c.Reset()
	s := c.Snapshot()
	if s.ReconcileCalls != 0 || s.ReconcileAvgUs != 0 {
		t.Fatalf("expected zeroed snapshot after Reset, got %+v", s)
	}
}

func TestSampleBufferCapsAt1000(t *testing.T) {
	c := New()
	for i := 0; i < 1500; i++ {
		c.RecordReconcile(time.Duration(i)*time.Microsecond, 1, false)
	}
	c.mu.Lock()
	n := len(c.recentReconcileUs)
	c.mu.Unlock()
	if n != maxRecentSamples {
		t.Fatalf("sample buffer length = %d, want %d", n, maxRecentSamples)
	}
}
