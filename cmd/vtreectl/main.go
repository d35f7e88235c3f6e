// Command vtreectl is the CLI surface over the vtree library: it can
// reconcile two trees, drive a predictor by hand, serve the HTTP/
// WebSocket API, watch a live process from a terminal dashboard, and
// seed a predictor with fake data for demos.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/vtreekit/vtree/cmd/vtreectl/commands"
	"github.com/vtreekit/vtree/cmd/vtreectl/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command, args := parseGlobalFlags(os.Args[1:])

	var err error
	switch command {
	case "reconcile":
		err = commands.Reconcile(args)
	case "predict":
		err = commands.Predict(args)
	case "serve":
		err = commands.Serve(args)
	case "stats":
		err = commands.Stats(args)
	case "seed":
		err = commands.Seed(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("vtreectl version %s\n", version)

	if info, ok := debug.ReadBuildInfo(); ok {
		var vcsRevision, vcsTime, vcsModified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				vcsRevision = setting.Value
			case "vcs.time":
				vcsTime = setting.Value
			case "vcs.modified":
				vcsModified = setting.Value
			}
		}

		if commit != "unknown" {
			fmt.Printf("commit: %s\n", commit)
		} else if vcsRevision != "" {
			if len(vcsRevision) > 12 {
				vcsRevision = vcsRevision[:12]
			}
			fmt.Printf("commit: %s\n", vcsRevision)
		}

		if date != "unknown" {
			fmt.Printf("built: %s\n", date)
		} else if vcsTime != "" {
			if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
				fmt.Printf("commit date: %s\n", t.Format("2006-01-02 15:04:05 MST"))
			}
		}

		if vcsModified == "true" {
			fmt.Printf("modified: true (uncommitted changes)\n")
		}

		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println("vtreectl - virtual-DOM reconciler and predictive patch engine CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vtreectl [--config <path>] <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  vtreectl reconcile --old <file> --new <file>      Diff two tree JSON files, print patches")
	fmt.Println("  vtreectl predict learn --change <file> --old <file> --new <file> [--db <path>] [--label <name>]")
	fmt.Println("  vtreectl predict get --change <file> --tree <file> [--db <path>] [--label <name>]")
	fmt.Println("  vtreectl serve [--addr :8089] [--max-predictors N]   Start the HTTP/WebSocket API")
	fmt.Println("  vtreectl stats [--addr http://localhost:8089]        Live terminal dashboard")
	fmt.Println("  vtreectl seed [--count N] [--key <name>]             Generate fake learn observations")
	fmt.Println("  vtreectl version                                      Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  vtreectl reconcile --old old.json --new new.json")
	fmt.Println("  vtreectl predict learn --change change.json --old old.json --new new.json --db snapshots.db --label counter")
	fmt.Println("  vtreectl serve --addr :8089")
	fmt.Println("  vtreectl stats --addr http://localhost:8089")
	fmt.Println("  vtreectl seed --count 200 --key counter.count")
}

// parseGlobalFlags parses --config before the subcommand, mirroring
// the teacher CLI's flag/command split.
func parseGlobalFlags(args []string) (string, []string) {
	var filteredArgs []string
	var command string

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			config.SetConfigPath(args[i+1])
			i++
			continue
		}
		if command == "" {
			command = args[i]
		} else {
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	return command, filteredArgs
}
