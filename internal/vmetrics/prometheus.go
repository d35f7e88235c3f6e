package vmetrics

import "fmt"

// PrometheusText renders the current snapshot in Prometheus text
// exposition format, mirroring the teacher's internal/metrics
// collector's own Prometheus export alongside its JSON snapshot.
func (c *Collector) PrometheusText() string {
	s := c.Snapshot()
	return fmt.Sprintf(
		"vtree_reconcile_calls_total %d\n"+
			"vtree_reconcile_errors_total %d\n"+
			"vtree_patches_generated_total %d\n"+
			"vtree_reconcile_avg_us %f\n"+
			"vtree_reconcile_p95_us %f\n"+
			"vtree_predictor_learns_total %d\n"+
			"vtree_predictor_learn_errors_total %d\n"+
			"vtree_predictions_total %d\n"+
			"vtree_prediction_hits_total %d\n"+
			"vtree_prediction_misses_total %d\n"+
			"vtree_prediction_hit_rate %f\n"+
			"vtree_current_predictors %d\n"+
			"vtree_max_predictors %d\n"+
			"vtree_evictions_total %d\n"+
			"vtree_validation_failures_total %d\n"+
			"vtree_uptime_seconds %f\n",
		s.ReconcileCalls, s.ReconcileErrors, s.TotalPatchesGenerated,
		s.ReconcileAvgUs, s.ReconcileP95Us,
		s.PredictorLearns, s.PredictorLearnErrors,
		s.PredictorPredictions, s.PredictionHits, s.PredictionMisses, s.PredictionHitRate,
		s.CurrentPredictors, s.MaxPredictors, s.Evictions,
		s.ValidationFailures, s.UptimeSeconds,
	)
}
