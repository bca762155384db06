package engine

import (
	"encoding/json"
	"math"
	"strconv"
)

// Extraction is one labeled excerpt of a source document produced by the
// extraction service. The structuring core treats it as read-only input.
type Extraction struct {
	Text            string        `json:"extraction_text"`
	Class           string        `json:"extraction_class"`
	Attributes      Attributes    `json:"attributes,omitempty"`
	CharInterval    *CharInterval `json:"char_interval,omitempty"`
	AlignmentStatus string        `json:"alignment_status,omitempty"`
}

// CharInterval carries character offsets into the source document as the
// extraction service reported them. Endpoints are loosely typed: depending on
// how far alignment got, they arrive as numbers, numeric strings, range-like
// objects exposing start/stop, or not at all. Interpretation happens in the
// structuring core, which degrades anything malformed to "no interval".
type CharInterval struct {
	StartPos any `json:"start_pos"`
	EndPos   any `json:"end_pos"`
}

// Attributes is the free-form attribute bag attached to an extraction,
// flattened to string values at the decoding boundary. Extraction services
// emit heterogeneous value types (plain strings, numbers, enum-like
// {"value": ...} wrappers); unwrapping happens once here so the rest of the
// pipeline only ever sees strings.
type Attributes map[string]string

// UnmarshalJSON decodes an attribute object, coercing each value to a string.
// Values that cannot be meaningfully represented as strings are dropped.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Attributes, len(raw))
	for key, value := range raw {
		if s, ok := coerceAttributeValue(value); ok {
			out[key] = s
		}
	}
	*a = out
	return nil
}

// coerceAttributeValue flattens a decoded attribute value to a string.
// Enum-like wrappers are unwrapped through their "value" field.
func coerceAttributeValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case json.Number:
		return v.String(), true
	case map[string]any:
		if inner, ok := v["value"]; ok {
			return coerceAttributeValue(inner)
		}
		return "", false
	default:
		return "", false
	}
}
