package commands

import (
	"fmt"
	"strconv"

	"github.com/vtreekit/vtree/internal/server"
)

// Serve implements `vtreectl serve [--addr :8089] [--max-predictors N]`,
// starting the HTTP/WebSocket host in the foreground.
func Serve(args []string) error {
	addr := ":8089"
	maxPredictors := 0

	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return fmt.Errorf("flag %s requires a value", args[i])
		}
		switch args[i] {
		case "--addr":
			addr = args[i+1]
		case "--max-predictors":
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("--max-predictors: %w", err)
			}
			maxPredictors = n
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		i++
	}

	s := server.New(server.WithMaxLivePredictors(maxPredictors))
	fmt.Printf("vtreectl: serving on %s (ws at %s/ws)\n", addr, addr)
	return s.ListenAndServe(addr)
}
