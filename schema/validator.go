// Package pickschema validates pick objects returned by the fallback
// extractor against an embedded JSON Schema.
package pickschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed extracted_pick.schema.json
var extractedPickSchemaJSON string

const schemaName = "extracted_pick.schema.json"

// ExtractedPick is one validated object. Unit and Odds keep their raw text
// so callers apply their own parsing rules.
type ExtractedPick struct {
	RawPickID *int64
	PickValue string
	BetType   string
	League    string
	Unit      string
	Odds      string
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateExtractedPick decodes one object strictly and checks it against the
// schema.
func ValidateExtractedPick(payload json.RawMessage) (*ExtractedPick, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode pick JSON: %w", err)
	}
	return ValidateValue(value)
}

// ValidateValue checks an already decoded value. Numbers must be json.Number.
func ValidateValue(value any) (*ExtractedPick, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pick must be an object")
	}

	out := &ExtractedPick{
		PickValue: strings.TrimSpace(scalarText(obj["pick_value"])),
		BetType:   strings.TrimSpace(scalarText(obj["bet_type"])),
		League:    strings.TrimSpace(scalarText(obj["league"])),
		Unit:      strings.TrimSpace(scalarText(obj["unit"])),
		Odds:      strings.TrimSpace(scalarText(obj["odds_american"])),
	}
	if out.PickValue == "" {
		return nil, fmt.Errorf("pick_value must not be empty")
	}
	if raw := strings.TrimSpace(scalarText(obj["raw_pick_id"])); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("raw_pick_id must be an integer: %w", err)
		}
		out.RawPickID = &id
	}
	return out, nil
}

func scalarText(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(schemaName, strings.NewReader(extractedPickSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile(schemaName)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

// DecodeJSON decodes raw with json.Number for numbers and rejects trailing
// content.
func DecodeJSON(raw []byte) (any, error) {
	return decodeStrictJSON(raw)
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}
	return value, nil
}
