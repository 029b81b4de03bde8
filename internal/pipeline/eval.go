package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

// GoldenCase is one line of a golden JSONL file. Routed cases expect the
// gate to send the message to the fallback extractor.
type GoldenCase struct {
	Name    string         `json:"name"`
	Channel string         `json:"channel"`
	Author  string         `json:"author"`
	Text    string         `json:"text"`
	OCRText string         `json:"ocr_text"`
	Routed  bool           `json:"routed"`
	Picks   []ExpectedPick `json:"picks"`
}

type ExpectedPick struct {
	League   string `json:"league"`
	BetType  string `json:"bet_type"`
	PickText string `json:"pick_value"`
}

// EvalReport counts outcomes of an offline evaluation.
type EvalReport struct {
	Cases    int      `json:"cases"`
	Matched  int      `json:"matched"`
	Routed   int      `json:"routed"`
	Correct  int      `json:"correct"`
	Wrong    int      `json:"wrong"`
	Failures []string `json:"failures,omitempty"`
}

// ReadGolden parses a JSONL golden file. Blank lines and lines starting with
// "#" are skipped.
func ReadGolden(r io.Reader) ([]GoldenCase, error) {
	var cases []GoldenCase
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var c GoldenCase
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("parse golden line %d: %w", lineNo, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("line %d", lineNo)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read golden file: %w", err)
	}
	return cases, nil
}

// Evaluate runs the deterministic path over cases. A case is correct when
// the gate decision matches and, for accepted messages, the standardized
// picks equal the expectation.
func Evaluate(engine *Engine, cases []GoldenCase) EvalReport {
	report := EvalReport{Cases: len(cases)}
	for i, c := range cases {
		p := engine.Prepare(pick.RawMessage{
			ID:                int64(i + 1),
			ChannelName:       c.Channel,
			AuthorDisplayName: c.Author,
			Text:              c.Text,
			OCRText:           c.OCRText,
		})

		if !p.Decision.Accept {
			report.Routed++
			if c.Routed {
				report.Correct++
			} else {
				report.Wrong++
				report.Failures = append(report.Failures, fmt.Sprintf("%s: routed (%s)", c.Name, p.Decision.Reason))
			}
			continue
		}

		report.Matched++
		got := make([]string, 0, len(p.Match.Picks))
		for _, ep := range p.Match.Picks {
			if std, ok := Standardize(ep); ok {
				got = append(got, pickKey(string(std.League), string(std.BetType), std.PickText))
			}
		}
		want := make([]string, 0, len(c.Picks))
		for _, ep := range c.Picks {
			want = append(want, pickKey(ep.League, ep.BetType, ep.PickText))
		}
		sort.Strings(got)
		sort.Strings(want)

		if !c.Routed && strings.Join(got, "\n") == strings.Join(want, "\n") {
			report.Correct++
			continue
		}
		report.Wrong++
		report.Failures = append(report.Failures, fmt.Sprintf("%s: got [%s] want [%s]", c.Name, strings.Join(got, "; "), strings.Join(want, "; ")))
	}
	return report
}

func pickKey(league, betType, text string) string {
	return league + "|" + betType + "|" + text
}
