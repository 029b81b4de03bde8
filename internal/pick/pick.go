// Package pick holds the value records passed between pipeline stages.
package pick

import (
	"strings"
	"time"
)

type MessageStatus string

const (
	StatusPending   MessageStatus = "pending"
	StatusProcessed MessageStatus = "processed"
	StatusFailed    MessageStatus = "failed"
)

// Extractor names the stage that produced a pick.
type Extractor string

const (
	ExtractorRules    Extractor = "rules"
	ExtractorFallback Extractor = "fallback"
)

const ocrSeparator = "--- OCR TEXT ---"

// RawMessage is a collected chat message awaiting extraction.
type RawMessage struct {
	ID                int64
	SourceUniqueID    string
	SourceURL         string
	ChannelName       string
	AuthorDisplayName string
	Text              string
	OCRText           string
	OccurredAt        time.Time
	Status            MessageStatus
	AttemptCount      int
}

// FullText joins the chat text and any OCR transcription.
func (m RawMessage) FullText() string {
	text := strings.TrimSpace(m.Text)
	ocr := strings.TrimSpace(m.OCRText)
	switch {
	case ocr == "":
		return text
	case text == "":
		return ocr
	default:
		return text + "\n" + ocrSeparator + "\n" + ocr
	}
}

// ExtractedPick is a pick before standardization. League and BetType are the
// raw tokens reported by the extractor.
type ExtractedPick struct {
	SourceMessageID int64
	League          string
	BetType         string
	PickText        string
	Unit            *float64
	OddsAmerican    *int
	Extractor       Extractor
}

// StandardizedPick is the unit of persistence.
type StandardizedPick struct {
	IdentityID     int64
	PickDate       time.Time
	League         League
	BetType        BetType
	PickText       string
	Unit           *float64
	OddsAmerican   *int
	SourceURL      string
	SourceUniqueID string
	RawMessageID   int64
	Extractor      Extractor
	// Model names the generative model for fallback picks.
	Model      string
	GateReason string
}

type Identity struct {
	ID            int64
	CanonicalName string
}

// Signature identifies a pick for deduplication.
type Signature struct {
	IdentityID int64
	PickDate   string
	PickText   string
	BetType    BetType
}

const dateLayout = "2006-01-02"

// FormatDate renders a pick date the way signatures store it.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDate reads a YYYY-MM-DD pick date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
}

func (p StandardizedPick) Signature() Signature {
	return Signature{
		IdentityID: p.IdentityID,
		PickDate:   FormatDate(p.PickDate),
		PickText:   p.PickText,
		BetType:    p.BetType,
	}
}
