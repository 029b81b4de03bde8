package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "process", "run-once":
		return runProcess(args[1:])
	case "archive":
		return runArchive(args[1:])
	case "parse":
		return runParse(args[1:])
	case "eval":
		return runEval(args[1:])
	case "serve":
		return runServe(args[1:])
	case "hash-token":
		return runHashToken(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "pick-engine CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pick-engine <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health      Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  ingest      Load raw messages from a JSONL file")
	fmt.Fprintln(os.Stderr, "  process     Extract, standardize and store picks from pending messages")
	fmt.Fprintln(os.Stderr, "  run-once    Alias for process")
	fmt.Fprintln(os.Stderr, "  archive     Archive stale pending picks")
	fmt.Fprintln(os.Stderr, "  parse       Show how a message would be extracted (no database)")
	fmt.Fprintln(os.Stderr, "  eval        Score the deterministic path against a golden JSONL file")
	fmt.Fprintln(os.Stderr, "  serve       Start Echo API server")
	fmt.Fprintln(os.Stderr, "  hash-token  Generate or hash an API bearer token")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"pick-engine <command> -h\" for command-specific flags.")
}
