package report

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/coolbeans/pharmstruct/pkg/engine"
)

// Interval is a resolved character span into the source document, in the
// shape the presentation layer consumes.
type Interval struct {
	StartPos int `json:"startPos"`
	EndPos   int `json:"endPos"`
}

// valid reports whether the interval satisfies end > start >= 0.
func (iv Interval) valid() bool {
	return iv.StartPos >= 0 && iv.EndPos > iv.StartPos
}

// ResolveInterval normalizes a raw character interval into a canonical span.
// Endpoints may be numbers, numeric strings, or range-like objects exposing
// start/stop. Partially resolved or corrupt spans report false so the
// extraction degrades to "no highlight" instead of corrupting rendering.
func ResolveInterval(ci *engine.CharInterval) (Interval, bool) {
	if ci == nil {
		return Interval{}, false
	}
	start, ok := coercePosition(ci.StartPos, "start")
	if !ok {
		return Interval{}, false
	}
	end, ok := coercePosition(ci.EndPos, "stop")
	if !ok {
		return Interval{}, false
	}
	iv := Interval{StartPos: start, EndPos: end}
	if !iv.valid() {
		return Interval{}, false
	}
	return iv, true
}

// coercePosition converts one endpoint to an integer. Range-like objects are
// unwrapped through rangeKey ("start" for the start endpoint, "stop" for the
// end endpoint) before coercion.
func coercePosition(value any, rangeKey string) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	case map[string]any:
		if inner, ok := v[rangeKey]; ok {
			return coercePosition(inner, rangeKey)
		}
		return 0, false
	default:
		return 0, false
	}
}
