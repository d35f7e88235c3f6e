package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/predict"
	"github.com/vtreekit/vtree/internal/reconcile"
	"github.com/vtreekit/vtree/internal/verrors"
	"github.com/vtreekit/vtree/internal/vlog"
	"github.com/vtreekit/vtree/internal/vnode"
)

// wireStateChange is the JSON shape of spec §3's StateChange, used at
// the HTTP boundary in place of predict.StateChange directly (keeps
// the wire schema stable if the internal struct gains fields).
type wireStateChange struct {
	ComponentID string `json:"component_id"`
	StateKey    string `json:"state_key"`
	OldValue    any    `json:"old_value"`
	NewValue    any    `json:"new_value"`
}

func (w wireStateChange) toPredict() predict.StateChange {
	return predict.StateChange{ComponentID: w.ComponentID, StateKey: w.StateKey, OldValue: w.OldValue, NewValue: w.NewValue}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch verrors.CodeOf(err) {
	case verrors.CodeInvalidHandle, verrors.CodeKeyNotFound:
		status = http.StatusNotFound
	case verrors.CodeInvalidVNode, verrors.CodeInvalidPatchPath, verrors.CodePatchTypeMismatch,
		verrors.CodeTreeTooDeep, verrors.CodeTreeTooLarge, verrors.CodeJSONTooLarge,
		verrors.CodeNullPointer, verrors.CodeTooManyChildren, verrors.CodePropertyTooLong,
		verrors.CodeTextTooLong, verrors.CodeInvalidUTF8, verrors.CodeSerialization:
		status = http.StatusBadRequest
	case verrors.CodePredictorFull, verrors.CodeMemoryLimit:
		status = http.StatusInsufficientStorage
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func pathHandle(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.PathValue("id"), 10, 64)
}

// handleReconcile implements the `reconcile` operation.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Old *vnode.VNode `json:"old"`
		New *vnode.VNode `json:"new"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}
	patches, err := reconcile.Reconcile(req.Old, req.New, reconcile.DefaultConfig())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]patch.Patch{"patches": patches})
}

// handleCreatePredictor implements `predictor_new[_with_config]`.
func (s *Server) handleCreatePredictor(w http.ResponseWriter, r *http.Request) {
	cfg := predict.DefaultConfig()
	if r.ContentLength != 0 {
		var req struct {
			MinConfidence     *float64 `json:"min_confidence"`
			MaxPatternsPerKey *int     `json:"max_patterns_per_key"`
			MaxStateKeys      *int     `json:"max_state_keys"`
			MaxMemoryBytes    *int64   `json:"max_memory_bytes"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, &verrors.SerializationError{Message: err.Error()})
			return
		}
		if req.MinConfidence != nil {
			cfg.MinConfidence = *req.MinConfidence
		}
		if req.MaxPatternsPerKey != nil {
			cfg.MaxPatternsPerKey = *req.MaxPatternsPerKey
		}
		if req.MaxStateKeys != nil {
			cfg.MaxStateKeys = *req.MaxStateKeys
		}
		if req.MaxMemoryBytes != nil {
			cfg.MaxMemoryBytes = *req.MaxMemoryBytes
		}
	}

	handle, err := s.registry.Create(cfg, s.metrics)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.RecordPredictorCreated()
	writeJSON(w, http.StatusCreated, map[string]uint64{"handle": handle})
}

// handleDestroyPredictor implements `predictor_destroy`.
func (s *Server) handleDestroyPredictor(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	s.registry.Destroy(handle)
	s.metrics.RecordPredictorDestroyed()
	w.WriteHeader(http.StatusNoContent)
}

// handleLearn implements `predictor_learn`.
func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		StateChange wireStateChange `json:"state_change"`
		OldTree     *vnode.VNode    `json:"old_tree"`
		NewTree     *vnode.VNode    `json:"new_tree"`
		AllState    map[string]any  `json:"all_state"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}

	if err := p.LearnWithState(req.StateChange.toPredict(), req.OldTree, req.NewTree, req.AllState); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePredict implements `predictor_predict`.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		StateChange wireStateChange `json:"state_change"`
		CurrentTree *vnode.VNode    `json:"current_tree"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}

	pred, ok := p.Predict(req.StateChange.toPredict(), req.CurrentTree)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "no prediction available"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": pred})
}

// handlePredictHint implements `predictor_predict_hint`.
func (s *Server) handlePredictHint(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		HintID      string          `json:"hint_id"`
		ComponentID string          `json:"component_id"`
		StateChange wireStateChange `json:"state_change"`
		CurrentTree *vnode.VNode    `json:"current_tree"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}

	pred, ok := p.PredictHint(req.HintID, req.ComponentID, req.StateChange.toPredict(), req.CurrentTree)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "no prediction available"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": pred})
}

// handleVerifyPrediction exposes `verify_prediction` as a convenience
// endpoint (not in spec §6's table verbatim as an HTTP route, but the
// underlying operation is; hosts that round-trip predictions through
// this API need to report outcomes back for pattern scoring).
func (s *Server) handleVerifyPrediction(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		StateChange   wireStateChange `json:"state_change"`
		PredictedTree *vnode.VNode    `json:"predicted_tree"`
		ActualTree    *vnode.VNode    `json:"actual_tree"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}

	matched := p.VerifyPrediction(req.StateChange.toPredict(), req.PredictedTree, req.ActualTree)
	writeJSON(w, http.StatusOK, map[string]bool{"matched": matched})
}

// handleStats implements `predictor_stats`.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Stats())
}

// handleSavePredictor implements `predictor_save`.
func (s *Server) handleSavePredictor(w http.ResponseWriter, r *http.Request) {
	handle, err := pathHandle(r)
	if err != nil {
		writeError(w, verrors.ErrInvalidHandle)
		return
	}
	p, err := s.registry.Get(handle)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := p.SaveToJSON()
	if err != nil {
		writeError(w, &verrors.PersistenceError{Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleLoadPredictor implements `predictor_load`.
func (s *Server) handleLoadPredictor(w http.ResponseWriter, r *http.Request) {
	data, err := jsonRawBody(r)
	if err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}
	p := predict.New(predict.DefaultConfig(), s.metrics)
	if err := p.LoadFromJSON(data); err != nil {
		writeError(w, &verrors.PersistenceError{Message: err.Error()})
		return
	}
	handle := s.registry.Replace(p)
	s.metrics.RecordPredictorCreated()
	writeJSON(w, http.StatusCreated, map[string]uint64{"handle": handle})
}

func jsonRawBody(r *http.Request) ([]byte, error) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// handleMetrics implements `metrics_get`.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleMetricsPrometheus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.Write([]byte(s.metrics.PrometheusText()))
}

// handleMetricsReset implements `metrics_reset`.
func (s *Server) handleMetricsReset(w http.ResponseWriter, r *http.Request) {
	s.metrics.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleLoggingEnable implements `logging_enable`.
func (s *Server) handleLoggingEnable(w http.ResponseWriter, r *http.Request) {
	s.logger.Enable()
	w.WriteHeader(http.StatusNoContent)
}

// handleLoggingDisable implements `logging_disable`.
func (s *Server) handleLoggingDisable(w http.ResponseWriter, r *http.Request) {
	s.logger.Disable()
	w.WriteHeader(http.StatusNoContent)
}

// handleLoggingSetLevel implements `logging_set_level`.
func (s *Server) handleLoggingSetLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}
	s.logger.SetLevel(vlog.Level(req.Level))
	w.WriteHeader(http.StatusNoContent)
}

// handleGetLogs implements `logging_get_logs`.
func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	data, err := s.logger.JSON()
	if err != nil {
		writeError(w, &verrors.SerializationError{Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleClearLogs implements `logging_clear`.
func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	s.logger.Clear()
	w.WriteHeader(http.StatusNoContent)
}
