package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema reflects a JSON Schema from the type of value. References
// are inlined so the schema can be pasted into a prompt.
func GenerateSchema(value any) *jsonschema.Schema {
	typ := reflect.TypeOf(value)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	r := &jsonschema.Reflector{DoNotReference: true}
	return r.ReflectFromType(typ)
}

// UnmarshalFlexible decodes model output into out. Models wrap the object
// in a JSON string, open it with a stray brace, drop quotes or stop mid
// array; each of those is normalized before the text is repaired.
//
//	UnmarshalFlexible(`{"nodes": []}`, &m)
//	UnmarshalFlexible(`"{\"nodes\": []}"`, &m)
//	UnmarshalFlexible(`{nodes: [], edges: [],}`, &m)
func UnmarshalFlexible(input string, out any) error {
	text := normalizeModelJSON(input)
	if json.Valid([]byte(text)) {
		if err := json.Unmarshal([]byte(text), out); err != nil {
			return fmt.Errorf("unmarshal failed: %w", err)
		}
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal failed after repair: %w", err)
	}
	return nil
}

func normalizeModelJSON(s string) string {
	s = strings.TrimSpace(s)

	var inner string
	if strings.HasPrefix(s, `"`) && json.Unmarshal([]byte(s), &inner) == nil {
		s = strings.TrimSpace(inner)
	}

	// "{ {" happens when the model echoes the opening brace of the prompt
	if rest, ok := strings.CutPrefix(s, "{"); ok {
		if trimmed := strings.TrimSpace(rest); strings.HasPrefix(trimmed, "{") {
			s = trimmed
		}
	}
	return s
}
