package toc

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// WireSchema is the JSON Schema for the TOC wire shape, shared by the edit
// and split endpoints and by LLM-produced trees.
const WireSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["chapters"],
  "properties": {
    "chapters": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/node"}
    },
    "content_start_page": {"type": "integer", "minimum": 1}
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["title", "page"],
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "number": {"type": "string"},
        "page": {"type": "integer", "minimum": 1},
        "end_page": {"type": "integer", "minimum": 1},
        "subtopics": {
          "type": "array",
          "items": {"$ref": "#/$defs/node"}
        }
      }
    }
  }
}`

var wireSchema = jsonschema.MustCompileString("toc.schema.json", WireSchema)

// ParseWire validates raw JSON against the wire schema and unmarshals it
// into a Tree. A tree that fails validation is rejected before the core
// pipeline ever sees it.
func ParseWire(data []byte) (*Tree, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid TOC JSON: %w", err)
	}
	if err := wireSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("TOC does not match expected shape: %w", err)
	}

	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode TOC: %w", err)
	}
	return &tree, nil
}
