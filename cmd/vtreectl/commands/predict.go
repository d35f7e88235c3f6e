package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vtreekit/vtree"
	"github.com/vtreekit/vtree/internal/snapshot"
)

const defaultSnapshotLabel = "default"

// Predict implements `vtreectl predict learn|get`, a hand-driven
// shortcut for exercising a predictor without starting the server.
// Learned state persists across invocations through an optional
// sqlite-backed snapshot store (see internal/snapshot); without --db
// each invocation starts from a fresh, empty predictor.
func Predict(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("command required: learn or get")
	}
	switch args[0] {
	case "learn":
		return predictLearn(args[1:])
	case "get":
		return predictGet(args[1:])
	default:
		return fmt.Errorf("unknown predict command: %s (expected: learn, get)", args[0])
	}
}

type predictFlags struct {
	dbPath  string
	label   string
	changeP string
	oldP    string
	newP    string
	treeP   string
}

func parsePredictFlags(args []string) (predictFlags, error) {
	f := predictFlags{label: defaultSnapshotLabel}
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return f, fmt.Errorf("flag %s requires a value", args[i])
		}
		switch args[i] {
		case "--db":
			f.dbPath = args[i+1]
		case "--label":
			f.label = args[i+1]
		case "--change":
			f.changeP = args[i+1]
		case "--old":
			f.oldP = args[i+1]
		case "--new":
			f.newP = args[i+1]
		case "--tree":
			f.treeP = args[i+1]
		default:
			return f, fmt.Errorf("unknown flag: %s", args[i])
		}
		i++
	}
	return f, nil
}

func loadChange(path string) (vtree.StateChange, error) {
	var c vtree.StateChange
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = json.Unmarshal(data, &c)
	return c, err
}

// loadOrNewPredictor opens the snapshot store at dbPath (if given),
// loads the predictor under label if a snapshot exists, and returns
// both the predictor and a save function that persists it back (a
// no-op when dbPath is empty).
func loadOrNewPredictor(dbPath, label string) (*vtree.Predictor, func() error, error) {
	p := vtree.NewPredictor(vtree.DefaultPredictorConfig())
	if dbPath == "" {
		return p, func() error { return nil }, nil
	}

	store, err := snapshot.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	ctx := context.Background()
	if data, err := store.Load(ctx, label); err == nil {
		if err := p.LoadFromJSON(data); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("loading snapshot %q: %w", label, err)
		}
	}

	save := func() error {
		defer store.Close()
		data, err := p.SaveToJSON()
		if err != nil {
			return err
		}
		return store.Save(ctx, label, data)
	}
	return p, save, nil
}

func predictLearn(args []string) error {
	f, err := parsePredictFlags(args)
	if err != nil {
		return err
	}
	if f.changeP == "" || f.oldP == "" || f.newP == "" {
		return fmt.Errorf("--change, --old, and --new are required")
	}

	change, err := loadChange(f.changeP)
	if err != nil {
		return fmt.Errorf("reading --change: %w", err)
	}
	old, err := loadTree(f.oldP)
	if err != nil {
		return fmt.Errorf("reading --old: %w", err)
	}
	newTree, err := loadTree(f.newP)
	if err != nil {
		return fmt.Errorf("reading --new: %w", err)
	}

	p, save, err := loadOrNewPredictor(f.dbPath, f.label)
	if err != nil {
		return err
	}
	if err := p.Learn(change, old, newTree); err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	if err := save(); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return printJSON(p.Stats())
}

func predictGet(args []string) error {
	f, err := parsePredictFlags(args)
	if err != nil {
		return err
	}
	if f.changeP == "" || f.treeP == "" {
		return fmt.Errorf("--change and --tree are required")
	}

	change, err := loadChange(f.changeP)
	if err != nil {
		return fmt.Errorf("reading --change: %w", err)
	}
	tree, err := loadTree(f.treeP)
	if err != nil {
		return fmt.Errorf("reading --tree: %w", err)
	}

	p, _, err := loadOrNewPredictor(f.dbPath, f.label)
	if err != nil {
		return err
	}

	prediction, ok := p.Predict(change, tree)
	if !ok {
		fmt.Println("no prediction available")
		return nil
	}
	return printJSON(prediction)
}
