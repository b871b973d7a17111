package geography

import (
	"encoding/json"
	"fmt"
	"os"
)

// Hex is one constituency cell in a HexJSON grid.
type Hex struct {
	Name string `json:"n"`
	Q    int    `json:"q"` // column
	R    int    `json:"r"` // row
}

// HexGrid is a parsed HexJSON file keyed by constituency code.
type HexGrid struct {
	Layout string         `json:"layout"` // e.g. "odd-r"
	Hexes  map[string]Hex `json:"hexes"`
}

// LoadHexGrid reads a HexJSON file.
func LoadHexGrid(path string) (*HexGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hex grid: %w", err)
	}
	var grid HexGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("parsing hex grid %s: %w", path, err)
	}
	if len(grid.Hexes) == 0 {
		return nil, fmt.Errorf("hex grid %s has no hexes", path)
	}
	return &grid, nil
}

// Bounds returns the min/max column and row of the grid.
func (g *HexGrid) Bounds() (qMin, qMax, rMin, rMax int) {
	first := true
	for _, h := range g.Hexes {
		if first {
			qMin, qMax, rMin, rMax = h.Q, h.Q, h.R, h.R
			first = false
			continue
		}
		if h.Q < qMin {
			qMin = h.Q
		}
		if h.Q > qMax {
			qMax = h.Q
		}
		if h.R < rMin {
			rMin = h.R
		}
		if h.R > rMax {
			rMax = h.R
		}
	}
	return qMin, qMax, rMin, rMax
}
