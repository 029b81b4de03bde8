package pickschema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
)

//go:embed raw_message.schema.json
var rawMessageSchemaJSON string

const rawMessageSchemaName = "raw_message.schema.json"

// RawMessage is a validated collector payload.
type RawMessage struct {
	SourceUniqueID    string    `json:"source_unique_id"`
	SourceURL         string    `json:"source_url,omitempty"`
	ChannelName       string    `json:"channel_name,omitempty"`
	AuthorDisplayName string    `json:"author_display_name,omitempty"`
	RawText           string    `json:"raw_text,omitempty"`
	OCRText           string    `json:"ocr_text,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Message converts the payload into a pending raw message.
func (m RawMessage) Message() pick.RawMessage {
	return pick.RawMessage{
		SourceUniqueID:    m.SourceUniqueID,
		SourceURL:         strings.TrimSpace(m.SourceURL),
		ChannelName:       strings.TrimSpace(m.ChannelName),
		AuthorDisplayName: strings.TrimSpace(m.AuthorDisplayName),
		Text:              m.RawText,
		OCRText:           m.OCRText,
		OccurredAt:        m.OccurredAt,
		Status:            pick.StatusPending,
	}
}

var (
	rawMessageOnce      sync.Once
	rawMessageSchema    *jsonschema.Schema
	rawMessageSchemaErr error
)

// ValidateRawMessage checks one collector payload and decodes it. At least
// one of raw_text and ocr_text must carry text.
func ValidateRawMessage(payload json.RawMessage) (*RawMessage, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode message JSON: %w", err)
	}

	schema, err := loadRawMessageSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var msg RawMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	msg.SourceUniqueID = strings.TrimSpace(msg.SourceUniqueID)
	if msg.SourceUniqueID == "" {
		return nil, fmt.Errorf("source_unique_id must not be blank")
	}
	if strings.TrimSpace(msg.RawText) == "" && strings.TrimSpace(msg.OCRText) == "" {
		return nil, fmt.Errorf("raw_text or ocr_text must not be blank")
	}
	msg.OccurredAt = msg.OccurredAt.UTC()
	return &msg, nil
}

func loadRawMessageSchema() (*jsonschema.Schema, error) {
	rawMessageOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(rawMessageSchemaName, strings.NewReader(rawMessageSchemaJSON)); err != nil {
			rawMessageSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		rawMessageSchema, rawMessageSchemaErr = compiler.Compile(rawMessageSchemaName)
	})
	return rawMessageSchema, rawMessageSchemaErr
}
