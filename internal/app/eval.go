package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/cli"
	"github.com/Ducky705/Live-Pick-Scraper/internal/config"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

func runEval(args []string) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	golden := fs.String("golden", "testdata/golden_picks.jsonl", "Path to the golden JSONL file")
	asJSON := fs.Bool("json", false, "Print the full report as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	path := strings.TrimSpace(*golden)
	if path == "" {
		fmt.Fprintln(os.Stderr, "--golden is required")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open golden file: %v\n", err)
		return 2
	}
	defer f.Close()

	cases, err := pipeline.ReadGolden(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid golden file: %v\n", err)
		return 2
	}

	report := pipeline.Evaluate(newEngine(cfg), cases)
	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			return 1
		}
	} else {
		for _, failure := range report.Failures {
			fmt.Fprintf(os.Stderr, "FAIL %s\n", failure)
		}
		fmt.Printf("eval cases=%d matched=%d routed=%d correct=%d wrong=%d\n",
			report.Cases, report.Matched, report.Routed, report.Correct, report.Wrong)
	}

	if report.Wrong > 0 {
		return 1
	}
	return 0
}
