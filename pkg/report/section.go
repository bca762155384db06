package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Zone identifies the coarse presentation region a segment belongs to.
type Zone int

const (
	ZonePrefix Zone = iota
	ZoneBody
	ZoneSuffix
)

// zones lists all zones in presentation order.
var zones = [...]Zone{ZonePrefix, ZoneBody, ZoneSuffix}

// ExtractionClass returns the canonical extraction class for the zone,
// accepted as a legacy class name by MapSection.
func (z Zone) ExtractionClass() string {
	switch z {
	case ZonePrefix:
		return "findings_prefix"
	case ZoneBody:
		return "findings_body"
	case ZoneSuffix:
		return "findings_suffix"
	}
	return ""
}

// DisplayName returns the lowercase zone name used in payloads and as the
// default segment label.
func (z Zone) DisplayName() string {
	switch z {
	case ZonePrefix:
		return "prefix"
	case ZoneBody:
		return "body"
	case ZoneSuffix:
		return "suffix"
	}
	return ""
}

// String implements fmt.Stringer.
func (z Zone) String() string {
	return z.DisplayName()
}

// MarshalJSON encodes the zone as its display name.
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.DisplayName())
}

// UnmarshalJSON decodes a display name back into a zone.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range zones {
		if candidate.DisplayName() == name {
			*z = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown zone %q", name)
}

// classZones maps extraction classes to zones.
var classZones = map[string]Zone{
	"document_header":    ZonePrefix,
	"methodology_body":   ZoneBody,
	"results_body":       ZoneBody,
	"conclusions_suffix": ZoneSuffix,
}

// MapSection maps an extraction class to its zone. Comparison is
// case-insensitive and ignores surrounding whitespace. Classes matching a
// zone's canonical extraction class are accepted as a legacy fallback.
// Unknown classes report false and the extraction is dropped from
// segmentation.
func MapSection(class string) (Zone, bool) {
	class = strings.ToLower(strings.TrimSpace(class))
	if zone, ok := classZones[class]; ok {
		return zone, true
	}
	for _, zone := range zones {
		if class == zone.ExtractionClass() {
			return zone, true
		}
	}
	return 0, false
}
