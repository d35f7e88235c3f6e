package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vtreekit/vtree"
)

// Reconcile implements `vtreectl reconcile --old <file> --new <file>`:
// diffs the two tree JSON files and prints the resulting patch
// sequence.
func Reconcile(args []string) error {
	var oldPath, newPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--old":
			if i+1 >= len(args) {
				return fmt.Errorf("--old requires a file path")
			}
			oldPath = args[i+1]
			i++
		case "--new":
			if i+1 >= len(args) {
				return fmt.Errorf("--new requires a file path")
			}
			newPath = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	if oldPath == "" || newPath == "" {
		return fmt.Errorf("both --old and --new are required")
	}

	old, err := loadTree(oldPath)
	if err != nil {
		return fmt.Errorf("reading --old: %w", err)
	}
	newTree, err := loadTree(newPath)
	if err != nil {
		return fmt.Errorf("reading --new: %w", err)
	}

	patches, err := vtree.Reconcile(old, newTree)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	return printJSON(patches)
}

func loadTree(path string) (*vtree.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var n vtree.VNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
