package commands

import (
	"fmt"

	"github.com/vtreekit/vtree/cmd/vtreectl/internal/ui"
)

// Stats implements `vtreectl stats [--addr http://localhost:8089]`,
// launching the terminal dashboard against a running server's
// telemetry stream.
func Stats(args []string) error {
	addr := "http://localhost:8089"

	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" {
			if i+1 >= len(args) {
				return fmt.Errorf("--addr requires a value")
			}
			addr = args[i+1]
			i++
		} else {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	return ui.Run(addr)
}
