// Package vtree provides a virtual-DOM reconciler and predictive patch
// engine for component frameworks that need to compute and apply
// minimal UI updates without re-rendering whole trees.
//
// # Quick Start
//
// Reconcile two trees directly:
//
//	patches, err := vtree.Reconcile(oldTree, newTree)
//
// Or let a Predictor learn from observed state changes and guess the
// patches for a future one before the real diff is available:
//
//	p := vtree.NewPredictor(vtree.DefaultPredictorConfig())
//	_ = p.Learn(change, oldTree, newTree)
//	prediction, ok := p.Predict(change, currentTree)
//
// # How It Works
//
// Trees are a closed Element/Text/Null union (package vnode) addressed
// by hex-segment paths that leave room for future sibling insertion
// without renumbering. Reconcile walks two trees and emits an ordered
// patch sequence (package patch); applying that sequence left-to-right
// to the old tree reproduces the new one. The predictor (package
// predict) observes (state-change, old-tree, new-tree) triples,
// classifies the kind of value transition, and — once it has seen a
// shape-equivalent observation enough times relative to its
// confidence threshold — returns that patch sequence for a future
// occurrence of the same state change without running a fresh diff.
//
// # Key Types
//
//   - VNode: the tree node union (package vnode)
//   - Patch: one step of a reconciliation result (package patch)
//   - Predictor: a self-contained learned pattern store (package predict)
//   - StateChange: the (component, key, old, new) triple the predictor keys on
//
// This package is the in-process entry point; internal/server exposes
// the same operations over HTTP/WebSocket for out-of-process callers,
// and cmd/vtreectl exposes them from the command line.
package vtree

import (
	"github.com/vtreekit/vtree/internal/patch"
	"github.com/vtreekit/vtree/internal/predict"
	"github.com/vtreekit/vtree/internal/reconcile"
	"github.com/vtreekit/vtree/internal/vnode"
)

// Re-exported type aliases so callers only need to import this one
// package for the common path.
type (
	VNode       = vnode.VNode
	Patch       = patch.Patch
	Predictor   = predict.Predictor
	StateChange = predict.StateChange
	Prediction  = predict.Prediction
	Stats       = predict.Stats
)

// Re-exported VNode constructors.
var (
	Elem      = vnode.Elem
	ElemKeyed = vnode.ElemKeyed
	Text      = vnode.Text
	Null      = vnode.Null
)

// Reconcile diffs old against new using spec-default validation limits
// and returns the ordered patch sequence that transforms old into new.
func Reconcile(old, new *VNode) ([]Patch, error) {
	return reconcile.Reconcile(old, new, reconcile.DefaultConfig())
}

// PredictorConfig bounds a Predictor's behaviour.
type PredictorConfig = predict.Config

// DefaultPredictorConfig returns the library's default predictor
// bounds (min confidence 0.7, 100 patterns/key, 1000 state keys, 100MB,
// least-frequently-used eviction).
func DefaultPredictorConfig() PredictorConfig { return predict.DefaultConfig() }

// NewPredictor constructs a Predictor under cfg with metrics recording
// disabled. Use internal/server or your own vmetrics.Collector if you
// need metrics wired through.
func NewPredictor(cfg PredictorConfig) *Predictor {
	return predict.New(cfg, nil)
}
