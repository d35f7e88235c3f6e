package commands

import (
	"fmt"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/vtreekit/vtree"
)

// Seed implements `vtreectl seed [--count N] [--key name] [--db path]
// [--label name]`: generates fake (state-change, old-tree, new-tree)
// observations and feeds them to a predictor, so a demo or load test
// has a warmed-up pattern store to predict from without hand-writing
// fixtures.
func Seed(args []string) error {
	count := 100
	stateKey := "count"
	f := predictFlags{label: defaultSnapshotLabel}

	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return fmt.Errorf("flag %s requires a value", args[i])
		}
		switch args[i] {
		case "--count":
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("--count: %w", err)
			}
			count = n
		case "--key":
			stateKey = args[i+1]
		case "--db":
			f.dbPath = args[i+1]
		case "--label":
			f.label = args[i+1]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		i++
	}

	p, save, err := loadOrNewPredictor(f.dbPath, f.label)
	if err != nil {
		return err
	}

	componentID := gofakeit.Word() + "-" + uuid.New().String()
	value := gofakeit.Number(0, 10)
	for i := 0; i < count; i++ {
		next := value + 1
		old := seedTree(stateKey, value)
		newTree := seedTree(stateKey, next)
		change := vtree.StateChange{
			ComponentID: componentID,
			StateKey:    stateKey,
			OldValue:    float64(value),
			NewValue:    float64(next),
		}
		if err := p.Learn(change, old, newTree); err != nil {
			return fmt.Errorf("learn observation %d: %w", i, err)
		}
		value = next
	}

	if err := save(); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	fmt.Printf("seeded %d observations for %s.%s\n", count, componentID, stateKey)
	return printJSON(p.Stats())
}

func seedTree(stateKey string, value int) *vtree.VNode {
	return vtree.Elem("", "div", map[string]string{"class": "widget"},
		vtree.Text("10000000", stateKey+": "+strconv.Itoa(value)))
}
