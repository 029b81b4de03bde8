// Package langdetect flags text lines that are confidently not English.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

const (
	DefaultMinConfidence = 0.80
	minLetters           = 12
)

// candidates are the languages seen in sportsbook screenshots and channels.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Russian,
	lingua.Turkish,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detector implements normalize.LanguageDetector. Lines with too few letters
// are never reported.
type Detector struct {
	minConfidence float64
}

func New(minConfidence float64) *Detector {
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = DefaultMinConfidence
	}
	return &Detector{minConfidence: minConfidence}
}

func (d *Detector) IsForeign(line string) bool {
	sample := strings.TrimSpace(line)
	if countLetters(sample) < minLetters {
		return false
	}
	language, ok := getDetector().DetectLanguageOf(sample)
	if !ok || language == lingua.English {
		return false
	}
	return getDetector().ComputeLanguageConfidence(sample, language) >= d.minConfidence
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	return detector
}
