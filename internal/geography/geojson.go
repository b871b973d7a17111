package geography

import (
	"encoding/json"
	"fmt"
	"os"
)

// Boundaries is a GeoJSON FeatureCollection of constituency outlines.
// Geometry is kept opaque; the renderer re-embeds it verbatim and the
// pipeline never does geometry math.
type Boundaries struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// Feature is one constituency boundary.
type Feature struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Geometry   json.RawMessage   `json:"geometry"`
}

// Name returns the feature's constituency name, or "".
func (f *Feature) Name() string {
	return f.Properties["Name"]
}

// LoadBoundaries reads a constituency boundaries GeoJSON file.
func LoadBoundaries(path string) (*Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}
	var b Boundaries
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing boundaries %s: %w", path, err)
	}
	if len(b.Features) == 0 {
		return nil, fmt.Errorf("boundaries %s has no features", path)
	}
	return &b, nil
}
